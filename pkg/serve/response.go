// Copyright ©️ Veridiff contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package serve

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

const (
	ErrorMessageKey = "X-Veridiff-Error-Message"
	JSON_MIME       = "application/json"
)

// ResponseWriter shadow ResponseWriter
type ResponseWriter struct {
	http.ResponseWriter
	written    int64
	statusCode int
}

// NewResponseWriter bind ResponseWriter
func NewResponseWriter(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

// Write data
func (w *ResponseWriter) Write(data []byte) (int, error) {
	written, err := w.ResponseWriter.Write(data)
	w.written += int64(written)
	return written, err
}

// WriteHeader write header statusCode
func (w *ResponseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// StatusCode return statusCode
func (w *ResponseWriter) StatusCode() int {
	return w.statusCode
}

// Written return body size
func (w *ResponseWriter) Written() int64 {
	return w.written
}

type errorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func renderError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", JSON_MIME)
	w.Header().Set(ErrorMessageKey, message)
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(&errorPayload{Code: statusCode, Message: message})
}

func renderJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", JSON_MIME)
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("encode response error: %v", err)
	}
}
