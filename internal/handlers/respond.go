package handlers

import (
	"encoding/json"
	"net/http"

	"caretrek-backend/pkg/errors"
	"caretrek-backend/pkg/logger"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError maps service errors to HTTP statuses. Internal errors are
// logged and masked.
func writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	message := err.Error()
	if status >= 500 {
		logger.Error("request failed", "error", err)
		message = "Something went wrong. Please try again."
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": message,
		"code":  errors.Code(err),
	})
}
