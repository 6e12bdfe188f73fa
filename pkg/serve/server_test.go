// Copyright ©️ Veridiff contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package serve

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridiff/veridiff/pkg/dispatch"
)

func newTestServer(t *testing.T, mutate func(*ServerConfig)) *Server {
	t.Helper()
	sc, err := NewServerConfig("")
	require.NoError(t, err)
	if mutate != nil {
		mutate(sc)
	}
	s, err := NewServer(sc)
	require.NoError(t, err)
	return s
}

func postJSON(s *Server, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", path, strings.NewReader(string(body)))
	req.Header.Set("Content-Type", JSON_MIME)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, nil)
	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "ok", got["status"])
}

func TestCompareEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	w := postJSON(s, "/api/compare", map[string]any{
		"left":       `{"a":1}`,
		"right":      `{"a":2}`,
		"formatType": "json",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp dispatch.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, dispatch.ResponseResult, resp.Type)
	require.NotNil(t, resp.Result)
	assert.False(t, resp.Result.Identical)
	assert.Equal(t, 1, resp.Result.Summary.Modified)
}

func TestCompareEndpointUnsupportedFormat(t *testing.T) {
	s := newTestServer(t, nil)
	w := postJSON(s, "/api/compare", map[string]any{
		"left": "a", "right": "b", "formatType": "yaml",
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Header().Get(ErrorMessageKey), "unsupported format")
}

func TestCompareEndpointValidationAsData(t *testing.T) {
	s := newTestServer(t, nil)
	w := postJSON(s, "/api/compare", map[string]any{
		"left": `{"a":`, "right": `{"a":1}`, "formatType": "json",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp dispatch.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, dispatch.ResponseResult, resp.Type)
	require.Len(t, resp.Result.Errors, 1)
	assert.Equal(t, "left", resp.Result.Errors[0].Side)
}

func TestCompareEndpointBadBody(t *testing.T) {
	s := newTestServer(t, nil)
	req := httptest.NewRequest("POST", "/api/compare", strings.NewReader("not json"))
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidateEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	w := postJSON(s, "/api/validate", map[string]any{
		"formatType": "xml",
		"input":      "<a><b/></a>",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var got validateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.True(t, got.Valid)
	assert.Nil(t, got.Error)

	w = postJSON(s, "/api/validate", map[string]any{
		"formatType": "json",
		"input":      `{"a":`,
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.False(t, got.Valid)
	require.NotNil(t, got.Error)
	assert.NotEmpty(t, got.Error.Message)
}

func TestAuthMiddleware(t *testing.T) {
	secret := "test-secret"
	s := newTestServer(t, func(sc *ServerConfig) { sc.AuthSecret = secret })

	w := postJSON(s, "/api/validate", map[string]any{"formatType": "json", "input": "{}"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "tester",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	body, _ := json.Marshal(map[string]any{"formatType": "json", "input": "{}"})
	req := httptest.NewRequest("POST", "/api/validate", strings.NewReader(string(body)))
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// healthz stays open
	req = httptest.NewRequest("GET", "/healthz", nil)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResponseCache(t *testing.T) {
	s := newTestServer(t, func(sc *ServerConfig) { sc.Cache.Enabled = true })
	payload := map[string]any{
		"left": `{"a":1}`, "right": `{"a":1}`, "formatType": "json",
	}
	first := postJSON(s, "/api/compare", payload)
	require.Equal(t, http.StatusOK, first.Code)
	s.cache.Wait()
	second := postJSON(s, "/api/compare", payload)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestCacheKeyDistinguishesBoundaries(t *testing.T) {
	a := cacheKey(&dispatch.Request{Left: "ab", Right: "c"})
	b := cacheKey(&dispatch.Request{Left: "a", Right: "bc"})
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, cacheKey(&dispatch.Request{Left: "ab", Right: "c"}))
}

func TestMaxBodySize(t *testing.T) {
	s := newTestServer(t, func(sc *ServerConfig) { sc.MaxBodySize = 16 })
	w := postJSON(s, "/api/compare", map[string]any{
		"left": strings.Repeat("x", 128), "right": "y", "formatType": "text",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
