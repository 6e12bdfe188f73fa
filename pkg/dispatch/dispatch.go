// Copyright ©️ Veridiff contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package dispatch routes a comparison request to the engine matching its
// format and size, and runs it either synchronously or on a background
// session worker with progress envelopes and soft cancellation.
package dispatch

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/veridiff/veridiff/modules/compare"
	"github.com/veridiff/veridiff/modules/jsondiff"
	"github.com/veridiff/veridiff/modules/progressive"
	"github.com/veridiff/veridiff/modules/textdiff"
	"github.com/veridiff/veridiff/modules/validator"
	"github.com/veridiff/veridiff/modules/xmldiff"
)

// DefaultThreshold is the input size above which structural diffing degrades
// to progressive line matching.
const DefaultThreshold = 300 << 10

var ErrUnsupportedFormat = errors.New("unsupported format")

// Request is the worker-boundary envelope of one comparison attempt.
type Request struct {
	ID      uint64           `json:"id"`
	Left    string           `json:"left"`
	Right   string           `json:"right"`
	Format  compare.Format   `json:"formatType"`
	Options *compare.Options `json:"options,omitempty"`
}

type ResponseType string

const (
	ResponseProgress ResponseType = "progress"
	ResponseResult   ResponseType = "result"
	ResponseError    ResponseType = "error"
)

// Response is the outbound envelope. For one ID, progress responses are
// delivered strictly before the terminal result or error.
type Response struct {
	ID       uint64          `json:"id"`
	Type     ResponseType    `json:"type"`
	Progress float64         `json:"progress,omitempty"`
	Message  string          `json:"message,omitempty"`
	Result   *compare.Result `json:"result,omitempty"`
	Err      string          `json:"error,omitempty"`
}

// Dispatcher routes requests. The zero value is not ready; use New.
type Dispatcher struct {
	// Threshold is the per-input byte size that triggers progressive
	// matching; ChunkSize is forwarded to the progressive matcher.
	Threshold int
	ChunkSize int
}

func New() *Dispatcher {
	return &Dispatcher{
		Threshold: DefaultThreshold,
		ChunkSize: progressive.DefaultChunkSize,
	}
}

// Compare validates, routes and runs one request. Validation failures are
// data on the Result, not errors; errors are reserved for unsupported
// formats, cancellation and internal failures.
func (d *Dispatcher) Compare(ctx context.Context, req *Request, onProgress progressive.ProgressFunc) (*compare.Result, error) {
	opts := req.Options
	if opts == nil {
		opts = compare.DefaultOptions()
	}
	switch req.Format {
	case compare.FormatJSON, compare.FormatXML, compare.FormatText:
	default:
		return nil, fmt.Errorf("%w '%s'", ErrUnsupportedFormat, req.Format)
	}
	if req.Format != compare.FormatText {
		if res := validateBoth(req); res != nil {
			return res, nil
		}
	}
	if len(req.Left) > d.Threshold || len(req.Right) > d.Threshold {
		return d.progressiveCompare(ctx, req, opts, onProgress)
	}
	switch req.Format {
	case compare.FormatJSON:
		res, err := jsondiff.Compare(req.Left, req.Right, opts)
		if err != nil {
			return nil, err
		}
		if opts.IncludeLineDiff {
			attachJSONLines(res, req, opts)
		}
		return res, nil
	case compare.FormatXML:
		res, err := xmldiff.Compare(req.Left, req.Right, opts)
		if err != nil {
			return nil, err
		}
		if opts.IncludeLineDiff {
			attachXMLLines(res, req, opts)
		}
		return res, nil
	default:
		return textdiff.Compare(req.Left, req.Right, opts), nil
	}
}

// validateBoth checks both sides concurrently and folds failures into a
// Result carrying per-side errors.
func validateBoth(req *Request) *compare.Result {
	validate := validator.JSON
	if req.Format == compare.FormatXML {
		validate = validator.XML
	}
	var lres, rres *validator.Result
	var g errgroup.Group
	g.Go(func() error {
		lres = validate(req.Left)
		return nil
	})
	g.Go(func() error {
		rres = validate(req.Right)
		return nil
	})
	_ = g.Wait()
	if lres.Valid && rres.Valid {
		return nil
	}
	var inputErrors []compare.InputError
	if !lres.Valid {
		inputErrors = append(inputErrors, inputError("left", lres.Err))
	}
	if !rres.Valid {
		inputErrors = append(inputErrors, inputError("right", rres.Err))
	}
	return &compare.Result{Errors: inputErrors}
}

func inputError(side string, e *validator.Error) compare.InputError {
	return compare.InputError{
		Side:    side,
		Message: e.Message,
		Line:    e.Line,
		Column:  e.Column,
	}
}

// progressiveCompare degrades to line matching. JSON is re-serialized from
// its normalized form first so key and array order options still apply; XML
// and text are matched on the raw input.
func (d *Dispatcher) progressiveCompare(ctx context.Context, req *Request, opts *compare.Options, onProgress progressive.ProgressFunc) (*compare.Result, error) {
	left, right := req.Left, req.Right
	if req.Format == compare.FormatJSON {
		lv, err := jsondiff.Decode(left)
		if err != nil {
			return nil, err
		}
		rv, err := jsondiff.Decode(right)
		if err != nil {
			return nil, err
		}
		left = jsondiff.Render(lv, opts)
		right = jsondiff.Render(rv, opts)
	}
	return progressive.Match(ctx, left, right, opts, &progressive.Options{
		ChunkSize:  d.ChunkSize,
		OnProgress: onProgress,
	})
}

func attachJSONLines(res *compare.Result, req *Request, opts *compare.Options) {
	lv, lerr := jsondiff.Decode(req.Left)
	rv, rerr := jsondiff.Decode(req.Right)
	if lerr != nil || rerr != nil {
		return
	}
	res.LeftLines, res.RightLines = textdiff.LineDiff(
		jsondiff.Render(lv, opts), jsondiff.Render(rv, opts), opts)
}

func attachXMLLines(res *compare.Result, req *Request, opts *compare.Options) {
	lv, lerr := xmldiff.Parse(req.Left)
	rv, rerr := xmldiff.Parse(req.Right)
	if lerr != nil || rerr != nil {
		return
	}
	res.LeftLines, res.RightLines = textdiff.LineDiff(
		xmldiff.Render(lv, opts), xmldiff.Render(rv, opts), opts)
}

// CompareSync is the no-worker fallback: the same routing on the caller's
// own goroutine, progress suppressed, always returning a terminal envelope.
func (d *Dispatcher) CompareSync(ctx context.Context, req *Request) *Response {
	resp := &Response{ID: req.ID}
	defer func() {
		if r := recover(); r != nil {
			resp.Type = ResponseError
			resp.Err = fmt.Sprintf("comparison failed: %v", r)
			resp.Result = nil
		}
	}()
	res, err := d.Compare(ctx, req, nil)
	if err != nil {
		resp.Type = ResponseError
		resp.Err = err.Error()
		return resp
	}
	resp.Type = ResponseResult
	resp.Result = res
	return resp
}
