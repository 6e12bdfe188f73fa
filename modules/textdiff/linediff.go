// Package textdiff aligns two line sequences with a greedy nearest-match
// heuristic and computes word-level sub-diffs inside modified line pairs. It
// deliberately trades minimal edit scripts for predictable, single-pass
// behavior.
package textdiff

import (
	"strings"

	"github.com/veridiff/veridiff/modules/compare"
)

// Op is one alignment operation. Left/Right are indices into the respective
// line slices, -1 when the operation does not touch that side.
type Op struct {
	Kind  compare.Kind
	Left  int
	Right int
}

// SplitLines splits text into display lines, tolerating CRLF endings.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// Keys builds the normalized comparison key for every line.
func Keys(lines []string, opts *compare.Options) []string {
	keys := make([]string, len(lines))
	for i, line := range lines {
		keys[i] = compare.NormalizeString(line, opts)
	}
	return keys
}

// lookahead returns the distance from start to the next occurrence of target,
// or -1 if target never occurs again.
func lookahead(keys []string, start int, target string) int {
	for k := start; k < len(keys); k++ {
		if keys[k] == target {
			return k - start
		}
	}
	return -1
}

// NextOp computes the next alignment operation for cursors (i, j) and returns
// the advanced cursor positions. When the cursors disagree, each side looks
// ahead for the nearest future occurrence of the other side's current line;
// the side with the strictly nearer match is treated as the only one that
// changed. A tie, or no match on either side, pairs the lines as modified.
func NextOp(leftKeys, rightKeys []string, i, j int) (Op, int, int) {
	switch {
	case i >= len(leftKeys):
		return Op{Kind: compare.Added, Left: -1, Right: j}, i, j + 1
	case j >= len(rightKeys):
		return Op{Kind: compare.Removed, Left: i, Right: -1}, i + 1, j
	case leftKeys[i] == rightKeys[j]:
		return Op{Kind: compare.Unchanged, Left: i, Right: j}, i + 1, j + 1
	}
	dl := lookahead(leftKeys, i+1, rightKeys[j])
	dr := lookahead(rightKeys, j+1, leftKeys[i])
	switch {
	case dl >= 0 && (dr < 0 || dl < dr):
		return Op{Kind: compare.Removed, Left: i, Right: -1}, i + 1, j
	case dr >= 0 && (dl < 0 || dr < dl):
		return Op{Kind: compare.Added, Left: -1, Right: j}, i, j + 1
	default:
		return Op{Kind: compare.Modified, Left: i, Right: j}, i + 1, j + 1
	}
}

// Align runs the greedy matcher over both key sequences.
func Align(leftKeys, rightKeys []string) []Op {
	ops := make([]Op, 0, max(len(leftKeys), len(rightKeys)))
	i, j := 0, 0
	for i < len(leftKeys) || j < len(rightKeys) {
		var op Op
		op, i, j = NextOp(leftKeys, rightKeys, i, j)
		ops = append(ops, op)
	}
	return ops
}

// LineDiff is the alignment-only primitive: per-line classification for both
// sides with no intra-line sub-diff.
func LineDiff(left, right string, opts *compare.Options) (leftLines, rightLines []compare.DiffLine) {
	if opts == nil {
		opts = compare.DefaultOptions()
	}
	ll, rl := SplitLines(left), SplitLines(right)
	ops := Align(Keys(ll, opts), Keys(rl, opts))
	leftLines, rightLines, _ = buildLines(ops, ll, rl)
	return leftLines, rightLines
}

// buildLines turns alignment operations into per-side DiffLine slices and
// collects the indices of modified pairs (into the returned slices).
func buildLines(ops []Op, ll, rl []string) (leftLines, rightLines []compare.DiffLine, pairs [][2]int) {
	ln, rn := 0, 0
	for _, op := range ops {
		switch op.Kind {
		case compare.Unchanged:
			ln++
			rn++
			leftLines = append(leftLines, compare.DiffLine{LineNumber: ln, Kind: compare.Unchanged, Content: ll[op.Left]})
			rightLines = append(rightLines, compare.DiffLine{LineNumber: rn, Kind: compare.Unchanged, Content: rl[op.Right]})
		case compare.Removed:
			ln++
			leftLines = append(leftLines, compare.DiffLine{LineNumber: ln, Kind: compare.Removed, Content: ll[op.Left]})
		case compare.Added:
			rn++
			rightLines = append(rightLines, compare.DiffLine{LineNumber: rn, Kind: compare.Added, Content: rl[op.Right]})
		case compare.Modified:
			ln++
			rn++
			leftLines = append(leftLines, compare.DiffLine{LineNumber: ln, Kind: compare.Modified, Content: ll[op.Left]})
			rightLines = append(rightLines, compare.DiffLine{LineNumber: rn, Kind: compare.Modified, Content: rl[op.Right]})
			pairs = append(pairs, [2]int{len(leftLines) - 1, len(rightLines) - 1})
		}
	}
	return leftLines, rightLines, pairs
}
