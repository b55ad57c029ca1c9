package handler

import (
	"log/slog"
	"net/http"

	"github.com/mubs-locator/internal/domain"
)

var statusByKind = map[string]int{
	"invalid_argument":  http.StatusBadRequest,
	"delivery_failed":   http.StatusBadGateway,
	"not_found":         http.StatusNotFound,
	"expired":           http.StatusGone,
	"mismatch":          http.StatusUnauthorized,
	"too_many_attempts": http.StatusTooManyRequests,
	"conflict":          http.StatusConflict,
	"unauthorized":      http.StatusUnauthorized,
	"forbidden":         http.StatusForbidden,
	"upstream":          http.StatusBadGateway,
}

// statusFor maps a domain error to its HTTP status and a client-safe message.
// Errors that wrap no domain sentinel become 500 with a generic message.
func statusFor(err error) (int, string, string) {
	kind := domain.Kind(err)
	if status, ok := statusByKind[kind]; ok {
		return status, err.Error(), kind
	}
	slog.Error("unhandled error", "err", err)
	return http.StatusInternalServerError, "internal server error", kind
}

func httpError(w http.ResponseWriter, err error) {
	status, msg, kind := statusFor(err)
	writeJSON(w, status, MessageEnvelope{Error: msg, Code: kind})
}
