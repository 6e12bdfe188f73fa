// Copyright ©️ Veridiff contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/veridiff/veridiff/modules/compare"
	"github.com/veridiff/veridiff/pkg/dispatch"
)

type Compare struct {
	Left             string `arg:"" name:"left" help:"Left input file, '-' reads standard input" type:"path"`
	Right            string `arg:"" name:"right" help:"Right input file" type:"path"`
	Format           string `short:"f" name:"format" help:"Input format: json, xml or text. Guessed from file extensions when omitted"`
	IgnoreKeyOrder   bool   `name:"ignore-key-order" help:"Treat JSON objects with reordered keys as equal"`
	IgnoreArrayOrder bool   `name:"ignore-array-order" help:"Treat JSON arrays as multisets"`
	IgnoreCase       bool   `short:"i" name:"ignore-case" help:"Compare strings case-insensitively"`
	IgnoreWhitespace bool   `short:"w" name:"ignore-whitespace" help:"Collapse runs of whitespace before comparing"`
	IgnoreAttrOrder  bool   `name:"ignore-attr-order" help:"Treat XML attributes with reordered declarations as equal"`
	LineDiff         bool   `name:"line-diff" help:"Also compute the per-line diff for structural formats"`
	JSON             bool   `short:"j" name:"json" help:"Emit the raw result as JSON"`
	Quiet            bool   `short:"q" name:"quiet" help:"Suppress output; the exit code carries the answer"`
}

func (c *Compare) options() *compare.Options {
	return &compare.Options{
		IgnoreKeyOrder:       c.IgnoreKeyOrder,
		IgnoreArrayOrder:     c.IgnoreArrayOrder,
		CaseSensitive:        !c.IgnoreCase,
		IgnoreWhitespace:     c.IgnoreWhitespace,
		IgnoreAttributeOrder: c.IgnoreAttrOrder,
		IncludeLineDiff:      c.LineDiff,
	}
}

func (c *Compare) Run(g *Globals) error {
	left, err := readText(c.Left)
	if err != nil {
		return err
	}
	right, err := readText(c.Right)
	if err != nil {
		return err
	}
	format, err := resolveFormat(c.Format, c.Left, c.Right)
	if err != nil {
		return err
	}
	g.DbgPrint("compare %s and %s as %s", c.Left, c.Right, format)
	d := dispatch.New()
	onProgress, finish := c.makeProgress(len(left), len(right), d.Threshold)
	res, err := d.Compare(context.Background(), &dispatch.Request{
		Left:    left,
		Right:   right,
		Format:  format,
		Options: c.options(),
	}, onProgress)
	finish()
	if err != nil {
		return err
	}
	if len(res.Errors) != 0 {
		for _, e := range res.Errors {
			fmt.Fprintf(os.Stderr, "veridiff: %s input: %s (line %d, column %d)\n", e.Side, e.Message, e.Line, e.Column)
		}
		return fmt.Errorf("invalid %s input", format)
	}
	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	} else if !c.Quiet {
		renderResult(os.Stdout, res)
	}
	if !res.Identical {
		return ErrDiffers
	}
	return nil
}

// makeProgress hooks a stderr bar into the progressive path. Small inputs
// never report progress, so the bar is only built past the threshold.
func (c *Compare) makeProgress(leftSize, rightSize, threshold int) (func(float64), func()) {
	nothing := func() {}
	if c.Quiet || !isatty.IsTerminal(os.Stderr.Fd()) {
		return nil, nothing
	}
	if leftSize <= threshold && rightSize <= threshold {
		return nil, nothing
	}
	p := mpb.New(mpb.WithOutput(os.Stderr), mpb.WithAutoRefresh())
	bar := p.New(100,
		mpb.BarStyle().Filler("#").Padding(" "),
		mpb.PrependDecorators(decor.Name("Comparing", decor.WC{C: decor.DindentRight})),
		mpb.AppendDecorators(decor.Percentage()),
	)
	onProgress := func(fraction float64) {
		bar.SetCurrent(int64(fraction * 100))
	}
	finish := func() {
		bar.SetCurrent(100)
		p.Wait()
	}
	return onProgress, finish
}
