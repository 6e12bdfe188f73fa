package xmldiff

import (
	"sort"
	"strings"

	"github.com/veridiff/veridiff/modules/compare"
)

// Render re-serializes an element tree in indented form for line diffing.
// Attributes are sorted by name under IgnoreAttributeOrder so that
// order-equivalent documents serialize identically.
func Render(el *Element, opts *compare.Options) string {
	var b strings.Builder
	writeElement(&b, el, opts, 0)
	return b.String()
}

func writeElement(b *strings.Builder, el *Element, opts *compare.Options, depth int) {
	indent := strings.Repeat("  ", depth)
	b.WriteString(indent)
	b.WriteByte('<')
	b.WriteString(el.Tag)
	for _, a := range orderedAttrs(el, opts) {
		b.WriteByte(' ')
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(escape(a.Value))
		b.WriteByte('"')
	}
	if el.Text == "" && len(el.Children) == 0 {
		b.WriteString("/>\n")
		return
	}
	b.WriteByte('>')
	if len(el.Children) == 0 {
		b.WriteString(escape(el.Text))
		b.WriteString("</")
		b.WriteString(el.Tag)
		b.WriteString(">\n")
		return
	}
	b.WriteByte('\n')
	if el.Text != "" {
		b.WriteString(indent)
		b.WriteString("  ")
		b.WriteString(escape(el.Text))
		b.WriteByte('\n')
	}
	for _, child := range el.Children {
		writeElement(b, child, opts, depth+1)
	}
	b.WriteString(indent)
	b.WriteString("</")
	b.WriteString(el.Tag)
	b.WriteString(">\n")
}

func orderedAttrs(el *Element, opts *compare.Options) []Attr {
	if !opts.IgnoreAttributeOrder {
		return el.Attrs
	}
	attrs := make([]Attr, len(el.Attrs))
	copy(attrs, el.Attrs)
	sort.Slice(attrs, func(i, j int) bool { return attrs[i].Name < attrs[j].Name })
	return attrs
}

// renderCompact is the single-line form used for added/removed subtree
// values in diff items.
func renderCompact(el *Element) string {
	var b strings.Builder
	writeCompact(&b, el)
	return b.String()
}

func writeCompact(b *strings.Builder, el *Element) {
	b.WriteByte('<')
	b.WriteString(el.Tag)
	for _, a := range el.Attrs {
		b.WriteByte(' ')
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(escape(a.Value))
		b.WriteByte('"')
	}
	if el.Text == "" && len(el.Children) == 0 {
		b.WriteString("/>")
		return
	}
	b.WriteByte('>')
	b.WriteString(escape(el.Text))
	for _, child := range el.Children {
		writeCompact(b, child)
	}
	b.WriteString("</")
	b.WriteString(el.Tag)
	b.WriteByte('>')
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escape(s string) string {
	return escaper.Replace(s)
}
