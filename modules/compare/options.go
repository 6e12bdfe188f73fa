package compare

import "encoding/json"

// Options are the equivalence rules applied before any diff algorithm runs.
// Differs ignore options that do not apply to their format: text comparison
// ignores the key/array/attribute order switches, JSON ignores
// IgnoreAttributeOrder, and so on.
type Options struct {
	IgnoreKeyOrder       bool `json:"ignoreKeyOrder"`
	IgnoreArrayOrder     bool `json:"ignoreArrayOrder"`
	CaseSensitive        bool `json:"caseSensitive"`
	IgnoreWhitespace     bool `json:"ignoreWhitespace"`
	IgnoreAttributeOrder bool `json:"ignoreAttributeOrder"`
	// IncludeLineDiff asks a structural comparison to also populate
	// LeftLines/RightLines from the normalized re-serialized text.
	IncludeLineDiff bool `json:"includeLineDiff,omitempty"`
}

// DefaultOptions returns the default rules: comparison is case sensitive,
// everything else is significant.
func DefaultOptions() *Options {
	return &Options{CaseSensitive: true}
}

// UnmarshalJSON keeps CaseSensitive defaulting to true when the field is
// absent from a request payload.
func (o *Options) UnmarshalJSON(data []byte) error {
	type plain Options
	p := plain{CaseSensitive: true}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*o = Options(p)
	return nil
}
