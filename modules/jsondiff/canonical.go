package jsondiff

import (
	"slices"
	"sort"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/veridiff/veridiff/modules/compare"
)

// Canonical serializes a value so that two option-equivalent values produce
// identical output: keys are sorted under IgnoreKeyOrder, array members are
// sorted by their own canonical form under IgnoreArrayOrder, and leaf strings
// are normalized.
func Canonical(v any, opts *compare.Options) string {
	var b strings.Builder
	writeCanonical(&b, v, opts)
	return b.String()
}

func writeCanonical(b *strings.Builder, v any, opts *compare.Options) {
	switch t := v.(type) {
	case *Object:
		keys := t.Keys()
		if opts.IgnoreKeyOrder {
			sort.Strings(keys)
		}
		b.WriteByte('{')
		for i, key := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			writeLeaf(b, key)
			b.WriteByte(':')
			value, _ := t.Get(key)
			writeCanonical(b, value, opts)
		}
		b.WriteByte('}')
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, Canonical(item, opts))
		}
		if opts.IgnoreArrayOrder {
			slices.Sort(parts)
		}
		b.WriteByte('[')
		b.WriteString(strings.Join(parts, ","))
		b.WriteByte(']')
	case string:
		writeLeaf(b, compare.NormalizeString(t, opts))
	default:
		writeLeaf(b, t)
	}
}

// ElementKey digests the canonical form for multiset array comparison.
func ElementKey(v any, opts *compare.Options) [32]byte {
	return blake3.Sum256([]byte(Canonical(v, opts)))
}

// Normalize returns a copy of the value tree reordered for display: member
// order sorted under IgnoreKeyOrder, array members sorted by canonical form
// under IgnoreArrayOrder. Leaf values are kept verbatim so the rendered text
// still shows original content.
func Normalize(v any, opts *compare.Options) any {
	switch t := v.(type) {
	case *Object:
		keys := t.Keys()
		if opts.IgnoreKeyOrder {
			sort.Strings(keys)
		}
		out := NewObject()
		for _, key := range keys {
			value, _ := t.Get(key)
			out.Set(key, Normalize(value, opts))
		}
		return out
	case []any:
		items := make([]any, 0, len(t))
		for _, item := range t {
			items = append(items, Normalize(item, opts))
		}
		if opts.IgnoreArrayOrder {
			sort.Slice(items, func(i, j int) bool {
				return Canonical(items[i], opts) < Canonical(items[j], opts)
			})
		}
		return items
	default:
		return v
	}
}

// Render re-serializes a parsed document in normalized, indented form. This
// is the input handed to line diffing when a structural comparison degrades
// to progressive matching or needs display lines.
func Render(v any, opts *compare.Options) string {
	return Stringify(Normalize(v, opts), "  ")
}
