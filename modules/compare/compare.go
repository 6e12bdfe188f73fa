// Package compare defines the shared data model of the comparison engine:
// options, difference items, line diffs and comparison results. The concrete
// differs live in the jsondiff, xmldiff and textdiff packages.
package compare

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a difference. Added/Removed/Modified apply to structural
// items and lines; Unchanged applies to lines and intra-line changes only.
type Kind string

const (
	Added     Kind = "added"
	Removed   Kind = "removed"
	Modified  Kind = "modified"
	Unchanged Kind = "unchanged"
)

// Format selects the comparison engine.
type Format string

const (
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
	FormatText Format = "text"
)

var ErrUnknownFormat = errors.New("unknown format")

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatXML:
		return FormatXML, nil
	case FormatText:
		return FormatText, nil
	}
	return "", fmt.Errorf("%w '%s'", ErrUnknownFormat, s)
}

// Difference is the tagged union over per-format diff items. JSON items are
// plain *Item; XML items add element/attribute context.
type Difference interface {
	Base() *Item
}

// Item is a path-addressed structural difference.
type Item struct {
	Kind     Kind   `json:"type"`
	Path     string `json:"path"`
	OldValue any    `json:"oldValue,omitempty"`
	NewValue any    `json:"newValue,omitempty"`
}

func (i *Item) Base() *Item { return i }

// XMLItem records which part of an XML node changed.
type XMLItem struct {
	Item
	Element   string `json:"element,omitempty"`
	Attribute string `json:"attribute,omitempty"`
}

// Synthetic path components reporting order-only mismatches when the
// corresponding ignore option is off.
const (
	KeyOrderPath  = "_keyOrder"
	AttrOrderPath = "_attrOrder"
)

// Summary counts differences by kind.
type Summary struct {
	Added    int `json:"added"`
	Removed  int `json:"removed"`
	Modified int `json:"modified"`
}

func (s Summary) Empty() bool {
	return s.Added == 0 && s.Removed == 0 && s.Modified == 0
}

// DiffChange is a word or character level span inside a modified line.
// Concatenating the values of one side's changes reconstructs that side's
// displayed content, except for spans suppressed under IgnoreWhitespace.
type DiffChange struct {
	Kind  Kind   `json:"type"`
	Value string `json:"value"`
}

// DiffLine is one rendered line of a side-by-side diff. LineNumber is
// 1-based and stable within its own side only.
type DiffLine struct {
	LineNumber int          `json:"lineNumber"`
	Kind       Kind         `json:"type"`
	Content    string       `json:"content"`
	Changes    []DiffChange `json:"changes,omitempty"`
}

// InputError reports a validation failure for one side of a comparison.
type InputError struct {
	Side    string `json:"side"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// Result is the outcome of a comparison. Identical holds iff all summary
// counts are zero. Errors is present only when one or both inputs failed
// validation, in which case Differences and Summary carry no meaning.
type Result struct {
	Identical   bool         `json:"identical"`
	Differences []Difference `json:"differences,omitempty"`
	Summary     Summary      `json:"summary"`
	LeftLines   []DiffLine   `json:"leftLines,omitempty"`
	RightLines  []DiffLine   `json:"rightLines,omitempty"`
	Errors      []InputError `json:"errors,omitempty"`
}

// UnmarshalJSON restores the concrete item types behind the Difference
// interface so a marshaled Result survives the wire: entries carrying
// element/attribute context decode as *XMLItem, the rest as *Item.
func (r *Result) UnmarshalJSON(data []byte) error {
	type plain Result
	aux := struct {
		*plain
		Differences []json.RawMessage `json:"differences"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Differences == nil {
		r.Differences = nil
		return nil
	}
	diffs := make([]Difference, 0, len(aux.Differences))
	for _, raw := range aux.Differences {
		d, err := decodeDifference(raw)
		if err != nil {
			return err
		}
		diffs = append(diffs, d)
	}
	r.Differences = diffs
	return nil
}

func decodeDifference(raw json.RawMessage) (Difference, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	_, hasElement := fields["element"]
	_, hasAttribute := fields["attribute"]
	if hasElement || hasAttribute {
		item := &XMLItem{}
		return item, json.Unmarshal(raw, item)
	}
	item := &Item{}
	return item, json.Unmarshal(raw, item)
}

// Summarize tallies differences by kind.
func Summarize(diffs []Difference) Summary {
	var s Summary
	for _, d := range diffs {
		switch d.Base().Kind {
		case Added:
			s.Added++
		case Removed:
			s.Removed++
		case Modified:
			s.Modified++
		}
	}
	return s
}

// NewResult builds a Result from a difference list, keeping the
// identical/summary invariant.
func NewResult(diffs []Difference) *Result {
	s := Summarize(diffs)
	return &Result{
		Identical:   s.Empty(),
		Differences: diffs,
		Summary:     s,
	}
}
