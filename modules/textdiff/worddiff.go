package textdiff

import (
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/veridiff/veridiff/modules/compare"
)

// Lines shorter than this without interior spaces are diffed by grapheme
// cluster instead of by word, so small single-token edits still localize.
const shortLineRunes = 20

// lineChanges computes the intra-line sub-diff for a modified pair. The diff
// runs over the original content, case-folded when comparison is
// case-insensitive; whitespace-only added/removed spans are suppressed under
// IgnoreWhitespace.
func lineChanges(left, right string, opts *compare.Options) (leftChanges, rightChanges []compare.DiffChange) {
	if !opts.CaseSensitive {
		left, right = compare.Fold(left), compare.Fold(right)
	}
	var ltokens, rtokens []string
	charMode := shortLine(left) && shortLine(right)
	if charMode {
		ltokens, rtokens = graphemes(left), graphemes(right)
	} else {
		ltokens, rtokens = words(left), words(right)
	}
	lr, rr, table := encodeTokens(ltokens, rtokens)
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMainRunes(lr, rr, false)
	if charMode {
		// merges tiny equalities between edits, so "two"/"too" reports
		// the whole "wo"/"oo" span rather than two single characters
		diffs = dmp.DiffCleanupSemantic(diffs)
	}
	leftChanges = sideChanges(diffs, diffmatchpatch.DiffDelete, compare.Removed, table, opts)
	rightChanges = sideChanges(diffs, diffmatchpatch.DiffInsert, compare.Added, table, opts)
	return leftChanges, rightChanges
}

func shortLine(s string) bool {
	return utf8.RuneCountInString(s) < shortLineRunes &&
		!strings.Contains(strings.TrimSpace(s), " ")
}

func words(s string) []string {
	var tokens []string
	state := -1
	var word string
	for len(s) > 0 {
		word, s, state = uniseg.FirstWordInString(s, state)
		tokens = append(tokens, word)
	}
	return tokens
}

func graphemes(s string) []string {
	var clusters []string
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		clusters = append(clusters, g.Str())
	}
	return clusters
}

// encodeTokens maps every distinct token to one rune so token sequences can
// be diffed with the rune-based algorithm. The surrogate range is skipped:
// those runes do not survive rune-to-string conversion.
func encodeTokens(a, b []string) (ra, rb []rune, table map[rune]string) {
	index := make(map[string]rune)
	table = make(map[rune]string)
	next := rune(1)
	encode := func(tokens []string) []rune {
		runes := make([]rune, 0, len(tokens))
		for _, tok := range tokens {
			r, ok := index[tok]
			if !ok {
				if next == 0xD800 {
					next = 0xE000
				}
				r = next
				next++
				index[tok] = r
				table[r] = tok
			}
			runes = append(runes, r)
		}
		return runes
	}
	ra = encode(a)
	rb = encode(b)
	return ra, rb, table
}

func decodeTokens(encoded string, table map[rune]string) string {
	var b strings.Builder
	for _, r := range encoded {
		b.WriteString(table[r])
	}
	return b.String()
}

// sideChanges extracts one side's spans: equal text plus the side's own edit
// operation; the other operation does not exist on this side.
func sideChanges(diffs []diffmatchpatch.Diff, editOp diffmatchpatch.Operation, editKind compare.Kind, table map[rune]string, opts *compare.Options) []compare.DiffChange {
	var changes []compare.DiffChange
	push := func(kind compare.Kind, value string) {
		if value == "" {
			return
		}
		if n := len(changes); n > 0 && changes[n-1].Kind == kind {
			changes[n-1].Value += value
			return
		}
		changes = append(changes, compare.DiffChange{Kind: kind, Value: value})
	}
	for _, df := range diffs {
		text := decodeTokens(df.Text, table)
		switch df.Type {
		case diffmatchpatch.DiffEqual:
			push(compare.Unchanged, text)
		case editOp:
			if opts.IgnoreWhitespace && compare.IsBlank(text) {
				continue
			}
			push(editKind, text)
		}
	}
	return changes
}
