// Copyright ©️ Veridiff contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"github.com/mgutz/ansi"
	"golang.org/x/term"

	"github.com/veridiff/veridiff/modules/compare"
)

var (
	colorAdded    = ansi.ColorFunc("green")
	colorRemoved  = ansi.ColorFunc("red")
	colorModified = ansi.ColorFunc("yellow")
)

func colorize(k compare.Kind, s string) string {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return s
	}
	switch k {
	case compare.Added:
		return colorAdded(s)
	case compare.Removed:
		return colorRemoved(s)
	case compare.Modified:
		return colorModified(s)
	}
	return s
}

func kindMarker(k compare.Kind) string {
	switch k {
	case compare.Added:
		return "+"
	case compare.Removed:
		return "-"
	case compare.Modified:
		return "~"
	}
	return " "
}

// termWidth returns the visible width of the current terminal and can be
// redefined for testing
var termWidth = func() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

func renderResult(w io.Writer, res *compare.Result) {
	if res.Identical {
		fmt.Fprintln(w, "inputs are identical")
		return
	}
	fmt.Fprintf(w, "%d added, %d removed, %d modified\n",
		res.Summary.Added, res.Summary.Removed, res.Summary.Modified)
	for _, d := range res.Differences {
		item := d.Base()
		line := fmt.Sprintf("%s %s", kindMarker(item.Kind), item.Path)
		switch item.Kind {
		case compare.Added:
			line += fmt.Sprintf(": %s", formatValue(item.NewValue))
		case compare.Removed:
			line += fmt.Sprintf(": %s", formatValue(item.OldValue))
		case compare.Modified:
			line += fmt.Sprintf(": %s -> %s", formatValue(item.OldValue), formatValue(item.NewValue))
		}
		fmt.Fprintln(w, colorize(item.Kind, line))
	}
	if len(res.LeftLines) != 0 || len(res.RightLines) != 0 {
		fmt.Fprintln(w)
		renderSideBySide(w, res.LeftLines, res.RightLines)
	}
}

func formatValue(v any) string {
	if v == nil {
		return "null"
	}
	s := fmt.Sprintf("%v", v)
	if len(s) > 120 {
		s = s[:117] + "..."
	}
	return s
}

// renderSideBySide prints both line sequences in two columns sized to the
// terminal. Rows pair up positionally; the shorter side pads with blanks.
func renderSideBySide(w io.Writer, left, right []compare.DiffLine) {
	col := (termWidth() - 7) / 2
	if col < 16 {
		col = 16
	}
	rows := len(left)
	if len(right) > rows {
		rows = len(right)
	}
	for i := 0; i < rows; i++ {
		var l, r compare.DiffLine
		if i < len(left) {
			l = left[i]
		}
		if i < len(right) {
			r = right[i]
		}
		fmt.Fprintf(w, "%s | %s\n", renderCell(l, col), renderCell(r, col))
	}
}

func renderCell(line compare.DiffLine, width int) string {
	if line.LineNumber == 0 {
		return strings.Repeat(" ", width)
	}
	prefix := fmt.Sprintf("%4d %s ", line.LineNumber, kindMarker(line.Kind))
	avail := width - len(prefix)
	if avail < 1 {
		avail = 1
	}
	// truncate and pad on display width, not bytes, so multi-byte and
	// double-width runes keep the columns aligned
	content := runewidth.Truncate(line.Content, avail, "")
	cell := prefix + content
	if pad := width - runewidth.StringWidth(cell); pad > 0 {
		cell += strings.Repeat(" ", pad)
	}
	return colorize(line.Kind, cell)
}
