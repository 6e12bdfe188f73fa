package textdiff

import (
	"github.com/veridiff/veridiff/modules/compare"
)

// Compare runs the enhanced text comparison: line alignment, paired modified
// lines with word-level sub-diffs, and per-side line arrays for rendering.
// Plain text cannot be malformed, so Compare never fails.
func Compare(left, right string, opts *compare.Options) *compare.Result {
	if opts == nil {
		opts = compare.DefaultOptions()
	}
	ll, rl := SplitLines(left), SplitLines(right)

	// Whitespace-driven re-wrapping is not a content change: when the fully
	// normalized texts agree, every raw line is unchanged even though the
	// line splits differ.
	if opts.IgnoreWhitespace &&
		compare.NormalizeString(left, opts) == compare.NormalizeString(right, opts) {
		return unchangedResult(ll, rl)
	}

	ops := Align(Keys(ll, opts), Keys(rl, opts))
	leftLines, rightLines, pairs := buildLines(ops, ll, rl)
	for _, p := range pairs {
		lc, rc := lineChanges(leftLines[p[0]].Content, rightLines[p[1]].Content, opts)
		leftLines[p[0]].Changes = lc
		rightLines[p[1]].Changes = rc
	}
	var summary compare.Summary
	for _, op := range ops {
		switch op.Kind {
		case compare.Added:
			summary.Added++
		case compare.Removed:
			summary.Removed++
		case compare.Modified:
			summary.Modified++
		}
	}
	return &compare.Result{
		Identical:  summary.Empty(),
		Summary:    summary,
		LeftLines:  leftLines,
		RightLines: rightLines,
	}
}

func unchangedResult(ll, rl []string) *compare.Result {
	leftLines := make([]compare.DiffLine, len(ll))
	for i, line := range ll {
		leftLines[i] = compare.DiffLine{LineNumber: i + 1, Kind: compare.Unchanged, Content: line}
	}
	rightLines := make([]compare.DiffLine, len(rl))
	for i, line := range rl {
		rightLines[i] = compare.DiffLine{LineNumber: i + 1, Kind: compare.Unchanged, Content: line}
	}
	return &compare.Result{
		Identical:  true,
		LeftLines:  leftLines,
		RightLines: rightLines,
	}
}
