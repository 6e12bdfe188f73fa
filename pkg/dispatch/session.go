// Copyright ©️ Veridiff contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/veridiff/veridiff/modules/compare"
)

// Session owns one background worker and the caller-side generation counter.
// Each Compare call issues a new generation; envelopes whose ID is no longer
// current are discarded, which is the whole cancellation model — running
// work is never preempted, it finishes and its output is dropped.
type Session struct {
	d        *Dispatcher
	requests chan Request
	events   chan Response
	gen      atomic.Uint64
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewSession starts the worker goroutine.
func NewSession(d *Dispatcher) *Session {
	if d == nil {
		d = New()
	}
	s := &Session{
		d:        d,
		requests: make(chan Request, 4),
		events:   make(chan Response, 64),
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.wg.Add(1)
	go s.run()
	return s
}

// Compare enqueues a request and returns its generation ID. A newer call
// supersedes any queued or in-flight older one.
func (s *Session) Compare(left, right string, format compare.Format, opts *compare.Options) uint64 {
	id := s.gen.Add(1)
	req := Request{ID: id, Left: left, Right: right, Format: format, Options: opts}
	for {
		select {
		case s.requests <- req:
			return id
		default:
			// queue full of superseded work: make room
			select {
			case <-s.requests:
			default:
			}
		}
	}
}

// Events delivers progress and terminal envelopes for the current
// generation only.
func (s *Session) Events() <-chan Response {
	return s.events
}

// Close stops the worker. Pending envelopes are dropped.
func (s *Session) Close() {
	s.cancel()
	s.wg.Wait()
	close(s.events)
}

func (s *Session) run() {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case req := <-s.requests:
			s.handle(req)
		}
	}
}

func (s *Session) handle(req Request) {
	// Superseded before it even started: skip silently.
	if req.ID != s.gen.Load() {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.emit(Response{ID: req.ID, Type: ResponseError, Err: fmt.Sprintf("comparison failed: %v", r)})
		}
	}()
	onProgress := func(fraction float64) {
		s.emit(Response{ID: req.ID, Type: ResponseProgress, Progress: fraction})
	}
	res, err := s.d.Compare(s.ctx, &req, onProgress)
	if err != nil {
		s.emit(Response{ID: req.ID, Type: ResponseError, Err: err.Error()})
		return
	}
	s.emit(Response{ID: req.ID, Type: ResponseResult, Result: res})
}

// emit drops stale envelopes and never blocks past session shutdown.
func (s *Session) emit(resp Response) {
	if resp.ID != s.gen.Load() {
		return
	}
	select {
	case s.events <- resp:
	case <-s.ctx.Done():
	}
}
