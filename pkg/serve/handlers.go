// Copyright ©️ Veridiff contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package serve

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/zeebo/blake3"

	"github.com/veridiff/veridiff/modules/compare"
	"github.com/veridiff/veridiff/modules/validator"
	"github.com/veridiff/veridiff/pkg/dispatch"
	"github.com/veridiff/veridiff/pkg/version"
)

func (s *Server) OnHealthz(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.GetVersion(),
	})
}

// authMiddleware rejects /api requests without a valid HS256 bearer token.
// Auth is off when no secret is configured.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.AuthSecret == "" {
			next.ServeHTTP(w, r)
			return
		}
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if raw == "" || raw == r.Header.Get("Authorization") {
			renderError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		_, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			return []byte(s.AuthSecret), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil {
			logrus.Warnf("auth rejected: %v", err)
			renderError(w, http.StatusUnauthorized, "invalid bearer token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, s.MaxBodySize)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		renderError(w, http.StatusBadRequest, "bad request body: "+err.Error())
		return false
	}
	return true
}

// cacheKey digests everything that influences the response. Inputs are
// length-prefixed so boundary shifts cannot alias.
func cacheKey(req *dispatch.Request) string {
	opts, _ := json.Marshal(req.Options)
	h := blake3.New()
	writeField := func(p []byte) {
		var n [8]byte
		for i, size := 0, len(p); i < 8; i++ {
			n[i] = byte(size >> (8 * i))
		}
		_, _ = h.Write(n[:])
		_, _ = h.Write(p)
	}
	writeField([]byte(req.Format))
	writeField(opts)
	writeField([]byte(req.Left))
	writeField([]byte(req.Right))
	sum := h.Sum(nil)
	return string(sum)
}

func (s *Server) OnCompare(w http.ResponseWriter, r *http.Request) {
	req := &dispatch.Request{}
	if !s.decodeRequest(w, r, req) {
		return
	}
	var key string
	if s.cache != nil {
		key = cacheKey(req)
		if buf, ok := s.cache.Get(key); ok {
			w.Header().Set("Content-Type", JSON_MIME)
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(buf)
			return
		}
	}
	resp := s.d.CompareSync(r.Context(), req)
	if resp.Type == dispatch.ResponseError {
		renderError(w, http.StatusUnprocessableEntity, resp.Err)
		return
	}
	buf, err := json.Marshal(resp)
	if err != nil {
		renderError(w, http.StatusInternalServerError, "encode result: "+err.Error())
		return
	}
	if s.cache != nil {
		s.cache.Set(key, buf, int64(len(buf)))
	}
	w.Header().Set("Content-Type", JSON_MIME)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf)
}

type validateRequest struct {
	Format compare.Format `json:"formatType"`
	Input  string         `json:"input"`
}

type validateResponse struct {
	Valid bool             `json:"valid"`
	Error *validator.Error `json:"error,omitempty"`
}

func (s *Server) OnValidate(w http.ResponseWriter, r *http.Request) {
	req := &validateRequest{}
	if !s.decodeRequest(w, r, req) {
		return
	}
	var res *validator.Result
	switch req.Format {
	case compare.FormatJSON:
		res = validator.JSON(req.Input)
	case compare.FormatXML:
		res = validator.XML(req.Input)
	default:
		renderError(w, http.StatusUnprocessableEntity, "unsupported format '"+string(req.Format)+"'")
		return
	}
	renderJSON(w, http.StatusOK, &validateResponse{Valid: res.Valid, Error: res.Err})
}
