// Package api defines the JSON response envelope every handler writes.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Error is the machine-readable failure half of an envelope. Code is a
// stable identifier handlers map from domain sentinels; Message is for
// humans.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Envelope wraps every response body, success or failure, with the request
// id echoed back for log correlation.
type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     *Error `json:"error,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("write json failed", "err", err)
	}
}

// Success writes a 200 envelope around data.
func Success(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data, RequestID: requestID})
}

// Created writes a 201 envelope around data.
func Created(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusCreated, Envelope{Success: true, Data: data, RequestID: requestID})
}

// Fail writes a failure envelope carrying code and message under status.
func Fail(w http.ResponseWriter, status int, code, message, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Error: &Error{Code: code, Message: message}, RequestID: requestID})
}
