package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/hostelmess/mess-service/internal/core/domain"
)

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

// decodeJSON reads the request body into dst and validates its tags.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if msg, ok := validateStruct(dst); !ok {
		writeMessage(w, http.StatusBadRequest, msg)
		return false
	}
	return true
}

// errorResponder maps domain errors to status codes. notFound is the message
// used for a 404.
type errorResponder struct {
	log *zap.Logger
}

func (e errorResponder) fail(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeMessage(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, domain.ErrConflict):
		writeMessage(w, http.StatusBadRequest, "Record already exists")
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInactive):
		writeMessage(w, http.StatusUnauthorized, "Not authorized")
	case errors.Is(err, domain.ErrNotFound):
		writeMessage(w, http.StatusNotFound, notFound)
	default:
		e.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeMessage(w, http.StatusInternalServerError, "Server error")
	}
}
