// Copyright ©️ Veridiff contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package serve exposes the comparison engine as a small JSON-over-HTTP API.
// It contains no comparison logic; everything interesting happens in
// pkg/dispatch and the engine modules.
package serve

import (
	"context"
	"net/http"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/gorilla/mux"
	"github.com/klauspost/compress/gzhttp"
	"github.com/sirupsen/logrus"

	"github.com/veridiff/veridiff/pkg/dispatch"
)

type Server struct {
	*ServerConfig
	srv   *http.Server
	r     *mux.Router
	d     *dispatch.Dispatcher
	cache *ristretto.Cache[string, []byte]
}

func NewServer(sc *ServerConfig) (*Server, error) {
	s := &Server{
		ServerConfig: sc,
		d:            dispatch.New(),
		srv: &http.Server{
			Addr:         sc.Listen,
			ReadTimeout:  sc.ReadTimeout.Duration,
			WriteTimeout: sc.WriteTimeout.Duration,
			IdleTimeout:  sc.IdleTimeout.Duration,
		},
	}
	if sc.Cache.Enabled {
		cache, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
			NumCounters: sc.Cache.NumCounters,
			MaxCost:     sc.Cache.MaxCost,
			BufferItems: 64,
		})
		if err != nil {
			return nil, err
		}
		s.cache = cache
	}
	s.initialize()
	return s, nil
}

func (s *Server) initialize() {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.OnHealthz).Methods("GET")
	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.authMiddleware)
	api.HandleFunc("/compare", s.OnCompare).Methods("POST")
	api.HandleFunc("/validate", s.OnValidate).Methods("POST")
	s.r = r
	s.srv.Handler = gzhttp.GzipHandler(s)
}

// ServeHTTP wraps every request with the access log.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w)
	s.r.ServeHTTP(rw, r)
	logrus.WithFields(logrus.Fields{
		"method":  r.Method,
		"path":    r.URL.Path,
		"status":  rw.StatusCode(),
		"written": rw.Written(),
	}).Info("request")
}

func (s *Server) ListenAndServe() error {
	logrus.Infof("veridiff-serve listening on %s", s.Listen)
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.cache != nil {
		defer s.cache.Close()
	}
	return s.srv.Shutdown(ctx)
}
