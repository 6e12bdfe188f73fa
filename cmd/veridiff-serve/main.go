// Copyright ©️ Veridiff contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/veridiff/veridiff/pkg/version"
)

type Globals struct {
	Verbose bool        `short:"V" name:"verbose" help:"Make the operation more talkative"`
	Version VersionFlag `short:"v" name:"version" help:"Show version number and quit"`
}

type VersionFlag bool

func (v VersionFlag) Decode(ctx *kong.DecodeContext) error { return nil }
func (v VersionFlag) IsBool() bool                         { return true }
func (v VersionFlag) BeforeApply(app *kong.Kong, vars kong.Vars) error {
	fmt.Println(version.GetVersionString())
	app.Exit(0)
	return nil
}

type App struct {
	Globals
	HTTPD HTTPD `cmd:"httpd" help:"start veridiff-serve httpd server"`
}

func main() {
	var app App
	ctx := kong.Parse(&app,
		kong.Name("veridiff-serve"),
		kong.Description("Veridiff - comparison and validation over HTTP"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version.GetVersionString(),
		},
	)
	if err := ctx.Run(&app.Globals); err != nil {
		os.Exit(1)
	}
}
