package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/svtemple/eventreg/internal/core"
)

// respondError maps a core error to its status code and writes the
// JSON body. Validation and quota failures are the client's problem
// (400), a bad password is 401, everything else is a storage-side 500.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	var (
		validationErr *core.ValidationError
		quotaErr      *core.QuotaExceededError
		authErr       *core.AuthError
		storageErr    *core.StorageError
	)
	switch {
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
		message = validationErr.Reason
	case errors.As(err, &quotaErr):
		status = http.StatusBadRequest
		message = quotaErr.Error()
	case errors.As(err, &authErr):
		status = http.StatusUnauthorized
		message = "invalid password"
	case errors.As(err, &storageErr):
		status = http.StatusInternalServerError
		message = "storage failure, please try again"
	}

	slog.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"request_id", middleware.GetReqID(r.Context()),
	)

	writeMessage(w, status, message)
}

// writeMessage writes the {"message": ...} body every endpoint uses.
func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// writeJSON encodes v as JSON and writes it to w.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
