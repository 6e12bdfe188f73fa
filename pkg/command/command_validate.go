// Copyright ©️ Veridiff contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"os"

	"github.com/veridiff/veridiff/modules/compare"
	"github.com/veridiff/veridiff/modules/validator"
)

type Validate struct {
	Paths  []string `arg:"" name:"path" help:"Input files to validate, '-' reads standard input" type:"path"`
	Format string   `short:"f" name:"format" help:"Input format: json or xml. Guessed from file extensions when omitted"`
	Quiet  bool     `short:"q" name:"quiet" help:"Suppress output; the exit code carries the answer"`
}

func (c *Validate) Run(g *Globals) error {
	bad := 0
	for _, p := range c.Paths {
		input, err := readText(p)
		if err != nil {
			return err
		}
		format, err := resolveFormat(c.Format, p)
		if err != nil {
			return err
		}
		var res *validator.Result
		switch format {
		case compare.FormatJSON:
			res = validator.JSON(input)
		case compare.FormatXML:
			res = validator.XML(input)
		default:
			return fmt.Errorf("cannot validate '%s': plain text has no syntax", p)
		}
		if res.Valid {
			if !c.Quiet {
				fmt.Fprintf(os.Stdout, "%s: OK\n", p)
			}
			continue
		}
		bad++
		if !c.Quiet {
			fmt.Fprintf(os.Stdout, "%s: %s (line %d, column %d)\n", p, res.Err.Message, res.Err.Line, res.Err.Column)
		}
	}
	if bad != 0 {
		return fmt.Errorf("%d of %d inputs invalid", bad, len(c.Paths))
	}
	return nil
}
