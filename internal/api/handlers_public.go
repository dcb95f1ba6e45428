package api

import (
	"net/http"
	"strconv"
	"time"

	"studiobook/internal/models"

	"github.com/go-chi/chi/v5"
)

func (s *HTTPServer) handleListServices(w http.ResponseWriter, r *http.Request) {
	services, err := s.deps.Catalog.List(r.Context())
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"services": services})
}

func (s *HTTPServer) handleListTimeSlots(w http.ResponseWriter, r *http.Request) {
	slots, err := s.deps.TimeSlots.List(r.Context())
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"slots": slots})
}

func (s *HTTPServer) handleMonth(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1 || year > 9999 {
		writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month")
		return
	}

	view, err := s.deps.Availability.Month(r.Context(), year, time.Month(month))
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *HTTPServer) handleStartSession(w http.ResponseWriter, r *http.Request) {
	sel, err := s.deps.Sessions.Start(r.Context())
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, sel)
}

func (s *HTTPServer) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sel, err := s.deps.Sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, sel)
}

func (s *HTTPServer) handleDiscardSession(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Sessions.Discard(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// withSession loads the session, applies step and saves the result. A failed
// step leaves the stored selection as it was.
func (s *HTTPServer) withSession(w http.ResponseWriter, r *http.Request, step func(sel *models.Selection) error) {
	ctx := r.Context()
	sel, err := s.deps.Sessions.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	if err := step(sel); err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	if err := s.deps.Sessions.Save(ctx, sel); err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, sel)
}

func (s *HTTPServer) handleSelectService(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ServiceID models.ID `json:"service_id"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.withSession(w, r, func(sel *models.Selection) error {
		return s.deps.Workflow.SelectService(r.Context(), sel, body.ServiceID)
	})
}

func (s *HTTPServer) handleSelectDate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Date string `json:"date"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.withSession(w, r, func(sel *models.Selection) error {
		return s.deps.Workflow.SelectDate(r.Context(), sel, body.Date)
	})
}

func (s *HTTPServer) handleSelectTime(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Time string `json:"time"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.withSession(w, r, func(sel *models.Selection) error {
		return s.deps.Workflow.SelectTime(r.Context(), sel, body.Time)
	})
}

func (s *HTTPServer) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	var body models.Customer
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.withSession(w, r, func(sel *models.Selection) error {
		return s.deps.Workflow.UpdateContact(sel, body)
	})
}

func (s *HTTPServer) handleNext(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sel *models.Selection) error {
		return s.deps.Workflow.Next(r.Context(), sel)
	})
}

func (s *HTTPServer) handleBack(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sel *models.Selection) error {
		return s.deps.Workflow.Back(sel)
	})
}

func (s *HTTPServer) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sel, err := s.deps.Sessions.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	if err := s.deps.Sessions.AllowSubmit(ctx, clientKey(r)); err != nil {
		writeServiceError(w, s.logger, err)
		return
	}

	booking, err := s.deps.Workflow.Submit(ctx, sel)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	if err := s.deps.Sessions.RecordSubmit(ctx, clientKey(r)); err != nil {
		s.logger.Warn().Err(err).Str("booking_id", booking.ID.String()).Msg("failed to count submission")
	}
	if err := s.deps.Sessions.Save(ctx, sel); err != nil {
		// the booking is recorded; a stale session only costs the visitor a reload
		s.logger.Warn().Err(err).Str("session_id", sel.SessionID).Msg("failed to reset session after submit")
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"booking":   booking,
		"selection": sel,
	})
}
