// Package validator reports well-formedness of JSON and XML input with a
// best-effort error location. Validation never panics and never returns a Go
// error: malformed input is data, not an exception.
package validator

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Error describes why input was rejected. Line and Column are 1-based and
// present only when they could be derived.
type Error struct {
	Message  string `json:"message"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
	Position int    `json:"position,omitempty"`
	Code     string `json:"code,omitempty"`
}

// Result of a validation. Valid == true implies Err is nil.
type Result struct {
	Valid bool   `json:"valid"`
	Err   *Error `json:"error,omitempty"`
}

const emptyInputMessage = "Empty input"

var positionPattern = regexp.MustCompile(`position (\d+)`)

// locate converts a 0-based byte offset into a 1-based line/column pair by
// scanning newlines in the prefix.
func locate(text string, pos int) (line, column int) {
	if pos > len(text) {
		pos = len(text)
	}
	line = 1
	last := -1
	for i := 0; i < pos; i++ {
		if text[i] == '\n' {
			line++
			last = i
		}
	}
	return line, pos - last
}

func invalid(message string) *Result {
	return &Result{Err: &Error{Message: message}}
}

// scanPosition recovers a byte offset from a parser message of the form
// "... position N ...".
func scanPosition(message string) (int, bool) {
	m := positionPattern.FindStringSubmatch(message)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// JSON validates text as a single JSON document.
func JSON(text string) *Result {
	if strings.TrimSpace(text) == "" {
		return invalid(emptyInputMessage)
	}
	var v any
	err := json.Unmarshal([]byte(text), &v)
	if err == nil {
		return &Result{Valid: true}
	}
	e := &Error{Message: err.Error()}
	offset := int64(-1)
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	case errors.As(err, &typeErr):
		offset = typeErr.Offset
	default:
		if pos, ok := scanPosition(err.Error()); ok {
			offset = int64(pos)
		}
	}
	if offset >= 0 {
		// Offset points one past the offending byte.
		pos := int(offset)
		if pos > 0 {
			pos--
		}
		e.Position = pos
		e.Line, e.Column = locate(text, pos)
	}
	return &Result{Err: e}
}

// disallowedControl returns the offset of the first C0 control character
// other than tab, LF and CR. encoding/xml accepts some of these silently, so
// they are rejected up front.
func disallowedControl(text string) (int, bool) {
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c < 0x20 && c != '\t' && c != '\n' && c != '\r' {
			return i, true
		}
	}
	return -1, false
}

// XML validates text as a single well-formed XML document with one root
// element.
func XML(text string) *Result {
	if strings.TrimSpace(text) == "" {
		return invalid(emptyInputMessage)
	}
	if pos, ok := disallowedControl(text); ok {
		e := &Error{
			Message:  "Invalid control character in XML input",
			Position: pos,
			Code:     "control-char",
		}
		e.Line, e.Column = locate(text, pos)
		return &Result{Err: e}
	}
	dec := xml.NewDecoder(strings.NewReader(text))
	depth, roots := 0, 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			e := &Error{Message: err.Error()}
			var syntaxErr *xml.SyntaxError
			if errors.As(err, &syntaxErr) {
				e.Line = syntaxErr.Line
				e.Code = "syntax"
			}
			pos := int(dec.InputOffset())
			if pos > 0 {
				e.Position = pos
				line, column := locate(text, pos)
				if e.Line == 0 {
					e.Line = line
				}
				e.Column = column
			} else if n, ok := scanPosition(err.Error()); ok {
				e.Position = n
				e.Line, e.Column = locate(text, n)
			}
			return &Result{Err: e}
		}
		switch tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				roots++
			}
			depth++
		case xml.EndElement:
			depth--
		}
	}
	if roots == 0 {
		return invalid("No root element found")
	}
	if roots > 1 {
		return invalid("Multiple root elements")
	}
	return &Result{Valid: true}
}
