package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"studiobook/internal/calendar"
	"studiobook/internal/domain"
	"studiobook/internal/events"
	"studiobook/internal/metrics"
	"studiobook/internal/models"
	"studiobook/internal/store"

	"github.com/rs/zerolog"
)

var _ domain.AvailabilityChecker = (*AvailabilityService)(nil)

// DayView is one cell of a rendered month. Blank leading cells have Day 0.
type DayView struct {
	Day       int    `json:"day"`
	Date      string `json:"date,omitempty"`
	Available bool   `json:"available"`
	Blocked   bool   `json:"blocked"`
	Past      bool   `json:"past"`
}

type MonthView struct {
	Year         int       `json:"year"`
	Month        int       `json:"month"`
	Days         int       `json:"days"`
	FirstWeekday int       `json:"first_weekday"`
	Cells        []DayView `json:"cells"`
	// Weeks holds the same cells split into rows of 7.
	Weeks [][]DayView `json:"weeks"`
}

// AvailabilityService applies the default-open policy: every date from today
// on is bookable unless an override marks it unavailable.
type AvailabilityService struct {
	store          domain.Store
	clock          domain.Clock
	maxAdvanceDays int
	eventBus       domain.EventPublisher
	logger         *zerolog.Logger
	mu             sync.Mutex
}

// NewAvailabilityService creates the service. maxAdvanceDays limits how far
// ahead dates are bookable; 0 means no limit.
func NewAvailabilityService(st domain.Store, clock domain.Clock, maxAdvanceDays int, eventBus domain.EventPublisher, logger *zerolog.Logger) *AvailabilityService {
	return &AvailabilityService{
		store:          st,
		clock:          clock,
		maxAdvanceDays: maxAdvanceDays,
		eventBus:       eventBus,
		logger:         logger,
	}
}

func (s *AvailabilityService) Today() time.Time {
	return calendar.Today(s.clock.Now())
}

func (s *AvailabilityService) Overrides(ctx context.Context) ([]models.AvailabilityOverride, error) {
	return store.Load[models.AvailabilityOverride](ctx, s.store, store.KeyAvailability, s.logger)
}

func (s *AvailabilityService) IsAvailable(ctx context.Context, date time.Time) (bool, error) {
	overrides, err := s.Overrides(ctx)
	if err != nil {
		return false, err
	}
	return s.available(calendar.Today(date), s.Today(), overrides), nil
}

func (s *AvailabilityService) available(date, today time.Time, overrides []models.AvailabilityOverride) bool {
	if !calendar.IsAvailable(date, today, overrides) {
		return false
	}
	return !s.beyondHorizon(date, today)
}

func (s *AvailabilityService) beyondHorizon(date, today time.Time) bool {
	if s.maxAdvanceDays <= 0 {
		return false
	}
	return date.After(today.AddDate(0, 0, s.maxAdvanceDays))
}

// ToggleOverride flips the override for date. A date without an override
// gets one with available=false. Past dates cannot be toggled.
func (s *AvailabilityService) ToggleOverride(ctx context.Context, date string) (models.AvailabilityOverride, error) {
	d, err := calendar.ParseDate(date)
	if err != nil {
		return models.AvailabilityOverride{}, err
	}
	if calendar.IsPast(d, s.Today()) {
		return models.AvailabilityOverride{}, fmt.Errorf("%w: %s", ErrPastDate, date)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	overrides, err := s.Overrides(ctx)
	if err != nil {
		return models.AvailabilityOverride{}, err
	}

	var result models.AvailabilityOverride
	found := false
	for i := range overrides {
		if overrides[i].Date == date {
			overrides[i].Available = !overrides[i].Available
			result = overrides[i]
			found = true
			break
		}
	}
	if !found {
		result = models.AvailabilityOverride{Date: date, Available: false}
		overrides = append(overrides, result)
	}

	if err := store.Save(ctx, s.store, store.KeyAvailability, overrides); err != nil {
		return models.AvailabilityOverride{}, err
	}

	s.logger.Info().Str("date", date).Bool("available", result.Available).Msg("availability override toggled")
	metrics.IncAvailabilityToggle()
	publish(s.eventBus, s.logger, events.EventAvailabilityToggled, events.AvailabilityEventPayload{
		Date:      result.Date,
		Available: result.Available,
	})
	return result, nil
}

// Month renders the grid for year/month with per-day flags for both the
// public calendar and the admin view.
func (s *AvailabilityService) Month(ctx context.Context, year int, month time.Month) (MonthView, error) {
	if err := calendar.ValidMonth(month); err != nil {
		return MonthView{}, err
	}
	overrides, err := s.Overrides(ctx)
	if err != nil {
		return MonthView{}, err
	}

	today := s.Today()
	grid := calendar.NewMonthGrid(year, month)
	view := MonthView{
		Year:         year,
		Month:        int(month),
		Days:         grid.Days,
		FirstWeekday: grid.FirstWeekday,
		Cells:        make([]DayView, 0, len(grid.Cells)),
	}
	for _, row := range grid.Rows() {
		week := make([]DayView, 0, len(row))
		for _, cell := range row {
			if cell.Blank() {
				week = append(week, DayView{})
				continue
			}
			d := grid.Date(cell.Day)
			week = append(week, DayView{
				Day:       cell.Day,
				Date:      cell.Date,
				Available: s.available(d, today, overrides),
				Blocked:   calendar.IsBlocked(cell.Date, overrides),
				Past:      calendar.IsPast(d, today),
			})
		}
		view.Cells = append(view.Cells, week...)
		view.Weeks = append(view.Weeks, week)
	}
	return view, nil
}
