package compare

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	diffs := []Difference{
		&Item{Kind: Added, Path: "a"},
		&Item{Kind: Removed, Path: "b"},
		&Item{Kind: Modified, Path: "c"},
		&XMLItem{Item: Item{Kind: Modified, Path: "d"}, Attribute: "id"},
	}
	s := Summarize(diffs)
	assert.Equal(t, Summary{Added: 1, Removed: 1, Modified: 2}, s)
	assert.False(t, s.Empty())

	r := NewResult(diffs)
	assert.False(t, r.Identical)
	r = NewResult(nil)
	assert.True(t, r.Identical)
	assert.True(t, r.Summary.Empty())
}

func TestResultRoundTrip(t *testing.T) {
	r := NewResult([]Difference{
		&Item{Kind: Modified, Path: "a.b", OldValue: "1", NewValue: "2"},
		&XMLItem{Item: Item{Kind: Removed, Path: "root.user"}, Element: "user", Attribute: "id"},
	})
	data, err := json.Marshal(r)
	require.NoError(t, err)

	var got Result
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, r.Summary, got.Summary)
	require.Len(t, got.Differences, 2)

	item, ok := got.Differences[0].(*Item)
	require.True(t, ok)
	assert.Equal(t, Modified, item.Kind)
	assert.Equal(t, "a.b", item.Path)
	assert.Equal(t, "1", item.OldValue)

	xitem, ok := got.Differences[1].(*XMLItem)
	require.True(t, ok)
	assert.Equal(t, "user", xitem.Element)
	assert.Equal(t, "id", xitem.Attribute)
	assert.Equal(t, "root.user", xitem.Path)
}

func TestResultRoundTripNoDifferences(t *testing.T) {
	data, err := json.Marshal(NewResult(nil))
	require.NoError(t, err)
	var got Result
	require.NoError(t, json.Unmarshal(data, &got))
	assert.True(t, got.Identical)
	assert.Nil(t, got.Differences)
}

func TestOptionsCaseSensitiveDefault(t *testing.T) {
	var o Options
	require.NoError(t, json.Unmarshal([]byte(`{"ignoreKeyOrder":true}`), &o))
	assert.True(t, o.CaseSensitive)
	assert.True(t, o.IgnoreKeyOrder)

	require.NoError(t, json.Unmarshal([]byte(`{"caseSensitive":false}`), &o))
	assert.False(t, o.CaseSensitive)
}

func TestNormalizeString(t *testing.T) {
	opts := &Options{CaseSensitive: true, IgnoreWhitespace: true}
	assert.Equal(t, "a b c", NormalizeString("  a\t b \n c ", opts))

	opts = &Options{CaseSensitive: false}
	assert.Equal(t, NormalizeString("HeLLo", opts), NormalizeString("hello", opts))
	// folding, not lowercasing: ß and ss fold to the same key
	assert.Equal(t, NormalizeString("straße", opts), NormalizeString("STRASSE", opts))
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(" \t\r\n"))
	assert.True(t, IsBlank(""))
	assert.False(t, IsBlank(" x "))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)
	_, err = ParseFormat("yaml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
