package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"studiobook/internal/calendar"
	"studiobook/internal/service"
	"studiobook/internal/validation"

	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// decodeJSON reads a single JSON object and rejects unknown fields.
func decodeJSON(r *http.Request, v any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// writeServiceError maps domain errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, logger *zerolog.Logger, err error) {
	if ve, ok := validation.AsError(err); ok {
		writeJSON(w, http.StatusUnprocessableEntity, ve)
		return
	}

	switch {
	case errors.Is(err, service.ErrServiceNotFound),
		errors.Is(err, service.ErrBookingNotFound),
		errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrConfirmationRequired):
		writeError(w, http.StatusPreconditionRequired, "add ?confirm=true to delete")
	case errors.Is(err, service.ErrLastService),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrInvalidStep):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrPastDate),
		errors.Is(err, calendar.ErrInvalidDate),
		errors.Is(err, calendar.ErrInvalidMonth):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, err.Error())
	default:
		logger.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
