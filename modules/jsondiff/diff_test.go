package jsondiff

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridiff/veridiff/modules/compare"
)

func mustCompare(t *testing.T, left, right string, opts *compare.Options) *compare.Result {
	t.Helper()
	r, err := Compare(left, right, opts)
	require.NoError(t, err)
	return r
}

func TestReflexivity(t *testing.T) {
	docs := []string{
		`{}`, `[]`, `null`, `42`, `"x"`,
		`{"a":1,"b":[true,null,{"c":"d"}]}`,
	}
	variants := []*compare.Options{
		compare.DefaultOptions(),
		{IgnoreKeyOrder: true, IgnoreArrayOrder: true, CaseSensitive: false, IgnoreWhitespace: true},
	}
	for _, doc := range docs {
		for _, opts := range variants {
			r := mustCompare(t, doc, doc, opts)
			assert.True(t, r.Identical, doc)
			assert.True(t, r.Summary.Empty())
		}
	}
}

func TestKeyOrderInvariance(t *testing.T) {
	left, right := `{"a":1,"b":2}`, `{"b":2,"a":1}`

	r := mustCompare(t, left, right, &compare.Options{IgnoreKeyOrder: true, CaseSensitive: true})
	assert.True(t, r.Identical)

	r = mustCompare(t, left, right, compare.DefaultOptions())
	require.False(t, r.Identical)
	require.Len(t, r.Differences, 1)
	item := r.Differences[0].Base()
	assert.Equal(t, compare.Modified, item.Kind)
	assert.Equal(t, compare.KeyOrderPath, item.Path)
	assert.Equal(t, "a,b", item.OldValue)
	assert.Equal(t, "b,a", item.NewValue)
}

func TestArrayOrderInvariance(t *testing.T) {
	r := mustCompare(t, `{"a":[1,2,3]}`, `{"a":[3,2,1]}`,
		&compare.Options{IgnoreArrayOrder: true, CaseSensitive: true})
	assert.True(t, r.Identical)

	r = mustCompare(t, `{"a":[1,2,3]}`, `{"a":[3,2,1]}`, compare.DefaultOptions())
	assert.False(t, r.Identical)
	assert.Equal(t, 2, r.Summary.Modified)
}

func TestArrayMultisetCounts(t *testing.T) {
	r := mustCompare(t, `[1,1,2]`, `[1,2,2]`,
		&compare.Options{IgnoreArrayOrder: true, CaseSensitive: true})
	require.False(t, r.Identical)
	assert.Equal(t, 1, r.Summary.Added)
	assert.Equal(t, 1, r.Summary.Removed)
	for _, d := range r.Differences {
		assert.Equal(t, "[]", d.Base().Path)
	}
}

func TestArrayTailLengthMismatch(t *testing.T) {
	r := mustCompare(t, `[1,2]`, `[1,2,3,4]`, compare.DefaultOptions())
	require.False(t, r.Identical)
	assert.Equal(t, 2, r.Summary.Added)
	assert.Equal(t, "[2]", r.Differences[0].Base().Path)
	assert.Equal(t, "[3]", r.Differences[1].Base().Path)
}

func TestCaseSensitivityDefault(t *testing.T) {
	r := mustCompare(t, `{"name":"John"}`, `{"name":"john"}`, nil)
	assert.False(t, r.Identical)

	r = mustCompare(t, `{"name":"John"}`, `{"name":"john"}`, &compare.Options{CaseSensitive: false})
	assert.True(t, r.Identical)
}

func TestModifiedValueScenario(t *testing.T) {
	r := mustCompare(t, `{"a":1,"b":2}`, `{"a":1,"b":3}`, nil)
	require.False(t, r.Identical)
	assert.GreaterOrEqual(t, r.Summary.Modified, 1)
	item := r.Differences[0].Base()
	assert.Equal(t, "b", item.Path)
}

func TestTypeMismatchSingleEntry(t *testing.T) {
	r := mustCompare(t, `{"a":[1,2]}`, `{"a":{"x":1}}`, nil)
	require.Len(t, r.Differences, 1)
	item := r.Differences[0].Base()
	assert.Equal(t, compare.Modified, item.Kind)
	assert.Equal(t, "a", item.Path)
}

func TestNestedPaths(t *testing.T) {
	r := mustCompare(t, `{"a":{"b":[1,{"c":2}]}}`, `{"a":{"b":[1,{"c":3}]}}`, nil)
	require.Len(t, r.Differences, 1)
	assert.Equal(t, "a.b[1].c", r.Differences[0].Base().Path)
}

func TestAddedRemovedKeys(t *testing.T) {
	r := mustCompare(t, `{"a":1,"b":2}`, `{"a":1,"c":3}`, nil)
	assert.Equal(t, 1, r.Summary.Added)
	assert.Equal(t, 1, r.Summary.Removed)
}

func TestNumberEquality(t *testing.T) {
	r := mustCompare(t, `{"n":1.0}`, `{"n":1}`, nil)
	assert.True(t, r.Identical)
	r = mustCompare(t, `{"n":1}`, `{"n":"1"}`, nil)
	// no type coercion across number/string
	assert.False(t, r.Identical)
}

func TestWhitespaceOption(t *testing.T) {
	r := mustCompare(t, `{"s":"a  b"}`, `{"s":" a b "}`, &compare.Options{CaseSensitive: true, IgnoreWhitespace: true})
	assert.True(t, r.Identical)
}

func TestSummaryIdenticalConsistency(t *testing.T) {
	cases := [][2]string{
		{`{"a":1}`, `{"a":1}`},
		{`{"a":1}`, `{"a":2}`},
		{`{"a":1}`, `{"b":1}`},
		{`[1,2]`, `[2,1]`},
	}
	for _, c := range cases {
		r := mustCompare(t, c[0], c[1], nil)
		assert.Equal(t, r.Identical, r.Summary.Empty())
	}
}

func TestCompareParseError(t *testing.T) {
	_, err := Compare(`{`, `{}`, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidJSON)
	assert.True(t, strings.HasPrefix(err.Error(), "left input:"))
}

func TestDecodePreservesOrder(t *testing.T) {
	v, err := Decode(`{"z":1,"a":{"y":2,"b":3}}`)
	require.NoError(t, err)
	obj := v.(*Object)
	assert.Equal(t, []string{"z", "a"}, obj.Keys())
	inner, _ := obj.Get("a")
	assert.Equal(t, []string{"y", "b"}, inner.(*Object).Keys())
}

func TestStringify(t *testing.T) {
	v, err := Decode(`{"b":[1,{"c":null}],"a":"x"}`)
	require.NoError(t, err)
	assert.Equal(t, `{"b":[1,{"c":null}],"a":"x"}`, Stringify(v, ""))

	pretty := Stringify(v, "  ")
	want := "{\n  \"b\": [\n    1,\n    {\n      \"c\": null\n    }\n  ],\n  \"a\": \"x\"\n}"
	if diff := cmp.Diff(want, pretty); diff != "" {
		t.Fatalf("pretty output mismatch (-want +got):\n%s", diff)
	}
}

func TestStringifyDeepDocument(t *testing.T) {
	depth := 5000
	doc := strings.Repeat("[", depth) + strings.Repeat("]", depth)
	v, err := Decode(doc)
	require.NoError(t, err)
	// iterative serializer must not blow the stack
	assert.Equal(t, doc, Stringify(v, ""))
}

func TestCanonicalStability(t *testing.T) {
	opts := &compare.Options{IgnoreKeyOrder: true, IgnoreArrayOrder: true, CaseSensitive: true}
	a, err := Decode(`{"a":[{"x":1},{"y":2}],"b":1}`)
	require.NoError(t, err)
	b, err := Decode(`{"b":1,"a":[{"y":2},{"x":1}]}`)
	require.NoError(t, err)
	assert.Equal(t, Canonical(a, opts), Canonical(b, opts))
	assert.Equal(t, ElementKey(a, opts), ElementKey(b, opts))
}

func TestRenderNormalized(t *testing.T) {
	opts := &compare.Options{IgnoreKeyOrder: true, CaseSensitive: true}
	v, err := Decode(`{"b":2,"a":1}`)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1,\n  \"b\": 2\n}", Render(v, opts))
}
