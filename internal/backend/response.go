// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package backend

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// writeJSON writes data with status. success is set from the status
// unless data already carries it.
func writeJSON(w http.ResponseWriter, status int, data map[string]any) {
	if data == nil {
		data = make(map[string]any)
	}
	if _, ok := data["success"]; !ok {
		data["success"] = status < http.StatusBadRequest
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeJSONError writes the backend's error envelope.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"message": message,
	})
}

// logAndInternalError logs err and writes a 500 envelope.
func logAndInternalError(w http.ResponseWriter, logger *slog.Logger, logMsg string, args ...any) {
	logger.Error(logMsg, args...)
	writeJSONError(w, http.StatusInternalServerError, "Internal Server Error")
}
