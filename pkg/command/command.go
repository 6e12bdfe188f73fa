// Copyright ©️ Veridiff contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/veridiff/veridiff/modules/compare"
	"github.com/veridiff/veridiff/pkg/version"
)

type Globals struct {
	Verbose bool        `short:"V" name:"verbose" help:"Make the operation more talkative"`
	Version VersionFlag `short:"v" name:"version" help:"Show version number and quit"`
}

func (g *Globals) DbgPrint(format string, args ...any) {
	if !g.Verbose {
		return
	}
	message := strings.TrimSuffix(fmt.Sprintf(format, args...), "\n")
	var buffer bytes.Buffer
	for _, s := range strings.Split(message, "\n") {
		_, _ = buffer.WriteString("\x1b[33m* ")
		_, _ = buffer.WriteString(s)
		_, _ = buffer.WriteString("\x1b[0m\n")
	}
	_, _ = os.Stderr.Write(buffer.Bytes())
}

type VersionFlag bool

func (v VersionFlag) Decode(ctx *kong.DecodeContext) error { return nil }
func (v VersionFlag) IsBool() bool                         { return true }
func (v VersionFlag) BeforeApply(app *kong.Kong, vars kong.Vars) error {
	fmt.Println(version.GetVersionString())
	app.Exit(0)
	return nil
}

// ErrDiffers marks a successful comparison whose inputs are not identical;
// main translates it to exit code 1 instead of treating it as a failure.
var ErrDiffers = errors.New("inputs differ")

// readText loads one input, "-" reads stdin.
func readText(path string) (string, error) {
	if path == "-" {
		buf, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(buf), nil
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// guessFormat picks a format from file extensions; the first recognized
// extension wins, anything else falls back to plain text.
func guessFormat(paths ...string) compare.Format {
	for _, p := range paths {
		switch strings.ToLower(filepath.Ext(p)) {
		case ".json":
			return compare.FormatJSON
		case ".xml", ".svg", ".xhtml":
			return compare.FormatXML
		}
	}
	return compare.FormatText
}

func resolveFormat(flag string, paths ...string) (compare.Format, error) {
	if flag == "" {
		return guessFormat(paths...), nil
	}
	return compare.ParseFormat(flag)
}
