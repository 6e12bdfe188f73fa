// Package xmldiff compares two XML documents structurally: attributes and
// child elements are compared independently at every node, and entries carry
// the element/attribute context they refer to.
package xmldiff

import (
	"fmt"
	"strings"

	"github.com/veridiff/veridiff/modules/compare"
)

// Compare parses both inputs and walks the element trees. Unparsable input
// is an error; callers are expected to validate first.
func Compare(left, right string, opts *compare.Options) (*compare.Result, error) {
	if opts == nil {
		opts = compare.DefaultOptions()
	}
	lv, err := Parse(left)
	if err != nil {
		return nil, fmt.Errorf("left input: %w", err)
	}
	rv, err := Parse(right)
	if err != nil {
		return nil, fmt.Errorf("right input: %w", err)
	}
	d := &differ{opts: opts}
	d.walk(lv.Tag, lv, rv)
	return compare.NewResult(d.items), nil
}

type differ struct {
	opts  *compare.Options
	items []compare.Difference
}

func (d *differ) emit(kind compare.Kind, path, element, attribute string, oldValue, newValue any) {
	d.items = append(d.items, &compare.XMLItem{
		Item: compare.Item{
			Kind:     kind,
			Path:     path,
			OldValue: oldValue,
			NewValue: newValue,
		},
		Element:   element,
		Attribute: attribute,
	})
}

// foldName is the comparison form of a tag or attribute name.
func (d *differ) foldName(name string) string {
	if d.opts.CaseSensitive {
		return name
	}
	return compare.Fold(name)
}

func (d *differ) walk(path string, l, r *Element) {
	if d.foldName(l.Tag) != d.foldName(r.Tag) {
		d.emit(compare.Modified, path, l.Tag, "", l.Tag, r.Tag)
		return
	}
	d.compareAttributes(path, l, r)
	if compare.NormalizeString(l.Text, d.opts) != compare.NormalizeString(r.Text, d.opts) {
		d.emit(compare.Modified, path, l.Tag, "", l.Text, r.Text)
	}
	d.compareChildren(path, l, r)
}

type attrEntry struct {
	folded string
	name   string
	value  string
}

func (d *differ) attrEntries(el *Element) []attrEntry {
	entries := make([]attrEntry, 0, len(el.Attrs))
	for _, a := range el.Attrs {
		entries = append(entries, attrEntry{folded: d.foldName(a.Name), name: a.Name, value: a.Value})
	}
	return entries
}

func (d *differ) compareAttributes(path string, l, r *Element) {
	le := d.attrEntries(l)
	re := d.attrEntries(r)
	rmap := make(map[string]attrEntry, len(re))
	for _, e := range re {
		rmap[e.folded] = e
	}
	lmap := make(map[string]attrEntry, len(le))
	for _, e := range le {
		lmap[e.folded] = e
	}
	for _, e := range le {
		other, ok := rmap[e.folded]
		if !ok {
			d.emit(compare.Removed, path, l.Tag, e.name, e.value, nil)
			continue
		}
		if compare.NormalizeString(e.value, d.opts) != compare.NormalizeString(other.value, d.opts) {
			d.emit(compare.Modified, path, l.Tag, e.name, e.value, other.value)
		}
	}
	for _, e := range re {
		if _, ok := lmap[e.folded]; !ok {
			d.emit(compare.Added, path, r.Tag, e.name, nil, e.value)
		}
	}
	if !d.opts.IgnoreAttributeOrder && attrOrderDiffers(le, re, lmap, rmap) {
		d.emit(compare.Modified, path+"."+compare.AttrOrderPath, l.Tag, "",
			joinAttrNames(le), joinAttrNames(re))
	}
}

func attrOrderDiffers(le, re []attrEntry, lmap, rmap map[string]attrEntry) bool {
	lcommon := make([]string, 0, len(le))
	for _, e := range le {
		if _, ok := rmap[e.folded]; ok {
			lcommon = append(lcommon, e.folded)
		}
	}
	rcommon := make([]string, 0, len(re))
	for _, e := range re {
		if _, ok := lmap[e.folded]; ok {
			rcommon = append(rcommon, e.folded)
		}
	}
	if len(lcommon) != len(rcommon) {
		return true
	}
	for i := range lcommon {
		if lcommon[i] != rcommon[i] {
			return true
		}
	}
	return false
}

func joinAttrNames(entries []attrEntry) string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.name)
	}
	return strings.Join(names, ",")
}

func (d *differ) compareChildren(path string, l, r *Element) {
	lgroups, lorder := d.groupChildren(l)
	rgroups, rorder := d.groupChildren(r)
	tags := make([]string, 0, len(lorder)+len(rorder))
	seen := make(map[string]struct{}, len(lorder))
	for _, tag := range lorder {
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	for _, tag := range rorder {
		if _, ok := seen[tag]; !ok {
			tags = append(tags, tag)
		}
	}
	for _, tag := range tags {
		lg, rg := lgroups[tag], rgroups[tag]
		n := max(len(lg), len(rg))
		for k := 0; k < n; k++ {
			var lc, rc *Element
			if k < len(lg) {
				lc = lg[k]
			}
			if k < len(rg) {
				rc = rg[k]
			}
			childPath := path + "." + displayTag(lc, rc)
			if n > 1 {
				childPath = fmt.Sprintf("%s[%d]", childPath, k)
			}
			switch {
			case lc == nil:
				d.emit(compare.Added, childPath, rc.Tag, "", nil, renderCompact(rc))
			case rc == nil:
				d.emit(compare.Removed, childPath, lc.Tag, "", renderCompact(lc), nil)
			default:
				d.walk(childPath, lc, rc)
			}
		}
	}
}

func (d *differ) groupChildren(el *Element) (map[string][]*Element, []string) {
	groups := make(map[string][]*Element, len(el.Children))
	order := make([]string, 0, len(el.Children))
	for _, child := range el.Children {
		tag := d.foldName(child.Tag)
		if _, ok := groups[tag]; !ok {
			order = append(order, tag)
		}
		groups[tag] = append(groups[tag], child)
	}
	return groups, order
}

// displayTag picks the original, non-folded tag name from whichever side has
// the element.
func displayTag(lc, rc *Element) string {
	if lc != nil {
		return lc.Tag
	}
	return rc.Tag
}
