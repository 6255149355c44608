package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// writeError renders the same machine-readable error envelope the
// handlers use, so gate rejections look like every other API error.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(map[string]string{
		"error":   code,
		"message": message,
	})
	if err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}
