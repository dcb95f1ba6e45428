package api

import (
	"fmt"
	"net/http"
	"strconv"

	"studiobook/internal/models"
	"studiobook/internal/service"

	"github.com/go-chi/chi/v5"
)

func confirmed(r *http.Request) bool {
	ok, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	return ok
}

func (s *HTTPServer) handleCreateService(w http.ResponseWriter, r *http.Request) {
	var in service.ServiceInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	svc, err := s.deps.Catalog.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, svc)
}

func (s *HTTPServer) handleUpdateService(w http.ResponseWriter, r *http.Request) {
	var in service.ServiceInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	svc, err := s.deps.Catalog.Update(r.Context(), models.ID(chi.URLParam(r, "id")), in)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

func (s *HTTPServer) handleDeleteService(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Catalog.Delete(r.Context(), models.ID(chi.URLParam(r, "id")), confirmed(r)); err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) handleListOverrides(w http.ResponseWriter, r *http.Request) {
	overrides, err := s.deps.Availability.Overrides(r.Context())
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"overrides": overrides})
}

func (s *HTTPServer) handleToggleOverride(w http.ResponseWriter, r *http.Request) {
	o, err := s.deps.Availability.ToggleOverride(r.Context(), chi.URLParam(r, "date"))
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *HTTPServer) handleReplaceTimeSlots(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Slots []string `json:"slots"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	slots, err := s.deps.TimeSlots.Replace(r.Context(), body.Slots)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"slots": slots})
}

func (s *HTTPServer) handleListBookings(w http.ResponseWriter, r *http.Request) {
	var (
		bookings []models.BookingRequest
		err      error
	)
	if status := r.URL.Query().Get("status"); status != "" {
		bookings, err = s.deps.Ledger.ListByStatus(r.Context(), models.BookingStatus(status))
	} else {
		bookings, err = s.deps.Ledger.ListByRecency(r.Context())
	}
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

func (s *HTTPServer) handlePendingCount(w http.ResponseWriter, r *http.Request) {
	n, err := s.deps.Ledger.PendingCount(r.Context())
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"pending": n})
}

func (s *HTTPServer) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	b, err := s.deps.Ledger.Get(r.Context(), models.ID(chi.URLParam(r, "id")))
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *HTTPServer) handleSetBookingStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status models.BookingStatus `json:"status"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	b, err := s.deps.Ledger.SetStatus(r.Context(), models.ID(chi.URLParam(r, "id")), body.Status)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *HTTPServer) handleDeleteBooking(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Ledger.Delete(r.Context(), models.ID(chi.URLParam(r, "id")), confirmed(r)); err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) handleExportBookings(w http.ResponseWriter, r *http.Request) {
	if s.deps.Exporter == nil {
		writeError(w, http.StatusNotFound, "export is not configured")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "bookings.xlsx"))
	if err := s.deps.Exporter.WriteTo(r.Context(), w); err != nil {
		s.logger.Error().Err(err).Msg("export failed")
	}
}
