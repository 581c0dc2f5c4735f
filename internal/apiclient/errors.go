// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package apiclient

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrNotFound is matched by a ServerError with status 404.
var ErrNotFound = errors.New("record not found")

// TransportError is a network level failure: the request never produced
// an HTTP response.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServerError is a response the backend rejected, either with a non-2xx
// status or with a 2xx status and "success": false in the body.
type ServerError struct {
	Status  int
	Message string
	Body    []byte
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

// Is reports whether the error is ErrNotFound.
func (e *ServerError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// messagePaths are the envelope fields the backend uses for error text.
var messagePaths = []string{"message", "error.message", "error", "msg", "data.message"}

// newServerError builds a ServerError from a raw response body.
func newServerError(status int, body []byte) *ServerError {
	return &ServerError{
		Status:  status,
		Message: extractMessage(status, body),
		Body:    body,
	}
}

func extractMessage(status int, body []byte) string {
	if gjson.ValidBytes(body) {
		for _, p := range messagePaths {
			if v := gjson.GetBytes(body, p); v.Type == gjson.String && v.String() != "" {
				return v.String()
			}
		}
	} else if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 200 {
		return text
	}
	return http.StatusText(status)
}

// Message returns the text to show a user for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		if serverErr.Message != "" {
			return serverErr.Message
		}
		return http.StatusText(serverErr.Status)
	}
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return "Network error, please check your connection and try again"
	}
	return err.Error()
}

// IsTransport reports whether err is a network failure.
func IsTransport(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}
