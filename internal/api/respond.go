package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/estradax/learnway/internal/fault"
	"go.uber.org/zap"
)

// Package-level logger used where no handler logger is in scope; installed
// from main via SetLogger.
var logger = zap.NewNop()

// SetLogger installs a logger for the api package. Passing nil is a no-op.
func SetLogger(l *zap.Logger) {
	if l != nil {
		logger = l
	}
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", zap.Error(err))
	}
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func statusFor(kind fault.Kind) int {
	switch kind {
	case fault.Unauthenticated:
		return http.StatusUnauthorized
	case fault.AuthorizationDenied:
		return http.StatusForbidden
	case fault.NotFound:
		return http.StatusNotFound
	case fault.ValidationFailed:
		return http.StatusBadRequest
	case fault.PreconditionFailed:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders a fault as its stable kind + message. Anything that is
// not a fault is reported as internal without leaking details.
func writeError(w http.ResponseWriter, err error) {
	var fe *fault.Error
	if !errors.As(err, &fe) {
		logger.Error("internal error", zap.Error(err))
		fe = fault.New(fault.Internal, "internal server error")
	}

	writeJSON(w, errorBody{Error: errorDetail{
		Kind:    string(fe.Kind),
		Message: fe.Message,
	}}, statusFor(fe.Kind))
}
