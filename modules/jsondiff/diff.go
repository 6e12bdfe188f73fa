// Package jsondiff compares two JSON documents structurally and reports
// path-addressed added/removed/modified entries.
package jsondiff

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/veridiff/veridiff/modules/compare"
)

type valueKind int

const (
	kindNull valueKind = iota
	kindBool
	kindNumber
	kindString
	kindObject
	kindArray
)

func kindOf(v any) valueKind {
	switch v.(type) {
	case *Object:
		return kindObject
	case []any:
		return kindArray
	case string:
		return kindString
	case json.Number:
		return kindNumber
	case bool:
		return kindBool
	default:
		return kindNull
	}
}

// Compare parses both inputs and walks the value trees. Unparsable input is
// an error; callers are expected to validate first.
func Compare(left, right string, opts *compare.Options) (*compare.Result, error) {
	if opts == nil {
		opts = compare.DefaultOptions()
	}
	lv, err := Decode(left)
	if err != nil {
		return nil, fmt.Errorf("left input: %w", err)
	}
	rv, err := Decode(right)
	if err != nil {
		return nil, fmt.Errorf("right input: %w", err)
	}
	d := &differ{opts: opts}
	d.walk("", lv, rv)
	return compare.NewResult(d.items), nil
}

type differ struct {
	opts  *compare.Options
	items []compare.Difference
}

func (d *differ) emit(kind compare.Kind, path string, oldValue, newValue any) {
	d.items = append(d.items, &compare.Item{
		Kind:     kind,
		Path:     path,
		OldValue: oldValue,
		NewValue: newValue,
	})
}

func (d *differ) walk(path string, l, r any) {
	lk, rk := kindOf(l), kindOf(r)
	// Heterogeneous nodes collapse into one modified entry, no descent.
	if lk != rk {
		d.emit(compare.Modified, path, l, r)
		return
	}
	switch lk {
	case kindObject:
		d.walkObject(path, l.(*Object), r.(*Object))
	case kindArray:
		if d.opts.IgnoreArrayOrder {
			d.walkMultiset(path, l.([]any), r.([]any))
		} else {
			d.walkArray(path, l.([]any), r.([]any))
		}
	default:
		if !d.equalLeaf(l, r) {
			d.emit(compare.Modified, path, l, r)
		}
	}
}

func (d *differ) walkObject(path string, l, r *Object) {
	lkeys, rkeys := l.Keys(), r.Keys()
	var keys []string
	if d.opts.IgnoreKeyOrder {
		keys = unionSorted(lkeys, rkeys)
	} else {
		keys = unionLeftFirst(lkeys, rkeys)
		if keyOrderDiffers(lkeys, rkeys) {
			d.emit(compare.Modified, joinPath(path, compare.KeyOrderPath),
				strings.Join(lkeys, ","), strings.Join(rkeys, ","))
		}
	}
	for _, key := range keys {
		lv, lok := l.Get(key)
		rv, rok := r.Get(key)
		childPath := joinPath(path, key)
		switch {
		case !lok:
			d.emit(compare.Added, childPath, nil, rv)
		case !rok:
			d.emit(compare.Removed, childPath, lv, nil)
		default:
			d.walk(childPath, lv, rv)
		}
	}
}

func (d *differ) walkArray(path string, l, r []any) {
	n := max(len(l), len(r))
	for i := 0; i < n; i++ {
		childPath := fmt.Sprintf("%s[%d]", path, i)
		switch {
		case i >= len(l):
			d.emit(compare.Added, childPath, nil, r[i])
		case i >= len(r):
			d.emit(compare.Removed, childPath, l[i], nil)
		default:
			d.walk(childPath, l[i], r[i])
		}
	}
}

// walkMultiset compares arrays as multisets keyed by canonical digests.
// Positional correspondence is meaningless here, so entries use an empty
// index marker.
func (d *differ) walkMultiset(path string, l, r []any) {
	marker := path + "[]"
	remaining := make(map[[32]byte][]any, len(l))
	order := make([][32]byte, 0, len(l))
	for _, item := range l {
		key := ElementKey(item, d.opts)
		remaining[key] = append(remaining[key], item)
		order = append(order, key)
	}
	for _, item := range r {
		key := ElementKey(item, d.opts)
		if bucket := remaining[key]; len(bucket) > 0 {
			remaining[key] = bucket[:len(bucket)-1]
			continue
		}
		d.emit(compare.Added, marker, nil, item)
	}
	seen := make(map[[32]byte]int, len(order))
	for _, key := range order {
		bucket := remaining[key]
		if seen[key] < len(bucket) {
			d.emit(compare.Removed, marker, bucket[seen[key]], nil)
			seen[key]++
		}
	}
}

func (d *differ) equalLeaf(l, r any) bool {
	switch lt := l.(type) {
	case string:
		rt := r.(string)
		return compare.NormalizeString(lt, d.opts) == compare.NormalizeString(rt, d.opts)
	case json.Number:
		rt := r.(json.Number)
		if lt.String() == rt.String() {
			return true
		}
		lf, lerr := lt.Float64()
		rf, rerr := rt.Float64()
		return lerr == nil && rerr == nil && lf == rf
	default:
		return l == r
	}
}

func joinPath(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}

func unionSorted(l, r []string) []string {
	seen := make(map[string]struct{}, len(l)+len(r))
	union := make([]string, 0, len(l)+len(r))
	for _, key := range l {
		seen[key] = struct{}{}
		union = append(union, key)
	}
	for _, key := range r {
		if _, ok := seen[key]; !ok {
			union = append(union, key)
		}
	}
	slices.Sort(union)
	return union
}

func unionLeftFirst(l, r []string) []string {
	seen := make(map[string]struct{}, len(l))
	union := make([]string, 0, len(l)+len(r))
	for _, key := range l {
		seen[key] = struct{}{}
		union = append(union, key)
	}
	for _, key := range r {
		if _, ok := seen[key]; !ok {
			union = append(union, key)
		}
	}
	return union
}

// keyOrderDiffers reports whether the keys present on both sides appear in a
// different relative order.
func keyOrderDiffers(l, r []string) bool {
	rset := make(map[string]struct{}, len(r))
	for _, key := range r {
		rset[key] = struct{}{}
	}
	lset := make(map[string]struct{}, len(l))
	for _, key := range l {
		lset[key] = struct{}{}
	}
	lcommon := make([]string, 0, len(l))
	for _, key := range l {
		if _, ok := rset[key]; ok {
			lcommon = append(lcommon, key)
		}
	}
	rcommon := make([]string, 0, len(r))
	for _, key := range r {
		if _, ok := lset[key]; ok {
			rcommon = append(rcommon, key)
		}
	}
	return !slices.Equal(lcommon, rcommon)
}
