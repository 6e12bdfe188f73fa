// Copyright ©️ Veridiff contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/veridiff/veridiff/pkg/command"
	"github.com/veridiff/veridiff/pkg/version"
)

type App struct {
	command.Globals
	Compare  command.Compare  `cmd:"compare" aliases:"cmp" help:"Compare two JSON, XML or text inputs"`
	Validate command.Validate `cmd:"validate" help:"Check JSON or XML inputs for well-formedness"`
	Version  command.Version  `cmd:"version" help:"Display version information"`
}

func main() {
	var app App
	ctx := kong.Parse(&app,
		kong.Name("veridiff"),
		kong.Description("Veridiff - structural and textual comparison for JSON, XML and plain text"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version.GetVersionString(),
		},
	)
	if err := ctx.Run(&app.Globals); err != nil {
		if errors.Is(err, command.ErrDiffers) {
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "veridiff: %v\n", err)
		os.Exit(2)
	}
}
