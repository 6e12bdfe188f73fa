// Copyright ©️ Veridiff contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridiff/veridiff/modules/compare"
	"github.com/veridiff/veridiff/modules/jsondiff"
)

func TestGuessFormat(t *testing.T) {
	assert.Equal(t, compare.FormatJSON, guessFormat("a.json", "b.json"))
	assert.Equal(t, compare.FormatXML, guessFormat("a.xml", "b.xml"))
	assert.Equal(t, compare.FormatXML, guessFormat("drawing.SVG"))
	assert.Equal(t, compare.FormatText, guessFormat("notes.txt", "-"))
	// first recognized extension wins
	assert.Equal(t, compare.FormatJSON, guessFormat("a.json", "b.xml"))
}

func TestResolveFormat(t *testing.T) {
	f, err := resolveFormat("xml", "whatever.json")
	require.NoError(t, err)
	assert.Equal(t, compare.FormatXML, f)

	_, err = resolveFormat("yaml")
	assert.Error(t, err)
}

func TestCompareOptions(t *testing.T) {
	c := &Compare{IgnoreCase: true, LineDiff: true}
	opts := c.options()
	assert.False(t, opts.CaseSensitive)
	assert.True(t, opts.IncludeLineDiff)
	assert.False(t, opts.IgnoreKeyOrder)
}

func TestRenderResult(t *testing.T) {
	res, err := jsondiff.Compare(`{"a":1,"b":2}`, `{"a":2,"b":2}`, compare.DefaultOptions())
	require.NoError(t, err)
	var sb strings.Builder
	renderResult(&sb, res)
	out := sb.String()
	assert.Contains(t, out, "0 added, 0 removed, 1 modified")
	assert.Contains(t, out, "~ a: 1 -> 2")
}

func TestRenderCellDisplayWidth(t *testing.T) {
	// multi-byte and double-width content must truncate on rune boundaries
	// and pad to the same display width as ASCII
	for _, content := range []string{
		strings.Repeat("é", 40),
		strings.Repeat("世", 40),
		"plain ascii",
		"",
	} {
		line := compare.DiffLine{LineNumber: 1, Kind: compare.Unchanged, Content: content}
		cell := renderCell(line, 24)
		assert.True(t, utf8.ValidString(cell))
		assert.Equal(t, 24, runewidth.StringWidth(cell), "content %q", content)
	}
}

func TestRenderResultIdentical(t *testing.T) {
	res, err := jsondiff.Compare(`{"a":1}`, `{"a":1}`, compare.DefaultOptions())
	require.NoError(t, err)
	var sb strings.Builder
	renderResult(&sb, res)
	assert.Contains(t, sb.String(), "identical")
}
