package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"studiobook/internal/calendar"
	"studiobook/internal/domain"
	"studiobook/internal/events"
	"studiobook/internal/metrics"
	"studiobook/internal/models"
	"studiobook/internal/validation"

	"github.com/rs/zerolog"
)

// Workflow drives a visitor through service, date/time and contact steps.
// It mutates the selection it is given; callers persist it.
type Workflow struct {
	catalog      domain.Catalog
	availability domain.AvailabilityChecker
	slots        domain.TimeSlotProvider
	ledger       domain.BookingAppender
	ids          domain.IDGenerator
	clock        domain.Clock
	eventBus     domain.EventPublisher
	logger       *zerolog.Logger
}

func NewWorkflow(
	catalog domain.Catalog,
	availability domain.AvailabilityChecker,
	slots domain.TimeSlotProvider,
	ledger domain.BookingAppender,
	ids domain.IDGenerator,
	clock domain.Clock,
	eventBus domain.EventPublisher,
	logger *zerolog.Logger,
) *Workflow {
	return &Workflow{
		catalog:      catalog,
		availability: availability,
		slots:        slots,
		ledger:       ledger,
		ids:          ids,
		clock:        clock,
		eventBus:     eventBus,
		logger:       logger,
	}
}

func invalid(field, message string) error {
	metrics.IncValidationFailure(field)
	return validation.New(field, message)
}

func requireStep(sel *models.Selection, step models.WorkflowStep) error {
	if sel.Step != step {
		return fmt.Errorf("%w: at %s, need %s", ErrInvalidStep, sel.Step, step)
	}
	return nil
}

// SelectService stores a copy of the chosen service.
func (w *Workflow) SelectService(ctx context.Context, sel *models.Selection, id models.ID) error {
	if err := requireStep(sel, models.StepSelectService); err != nil {
		return err
	}
	svc, err := w.catalog.Get(ctx, id)
	if errors.Is(err, ErrServiceNotFound) {
		return invalid("service", "selected service does not exist")
	}
	if err != nil {
		return err
	}
	sel.Service = &svc
	w.touch(sel)
	return nil
}

// SelectDate picks a bookable date and drops any time chosen for the
// previous date.
func (w *Workflow) SelectDate(ctx context.Context, sel *models.Selection, date string) error {
	if err := requireStep(sel, models.StepSelectDateTime); err != nil {
		return err
	}
	if err := w.checkDate(ctx, date); err != nil {
		return err
	}
	sel.Date = date
	sel.Time = ""
	w.touch(sel)
	return nil
}

func (w *Workflow) SelectTime(ctx context.Context, sel *models.Selection, slot string) error {
	if err := requireStep(sel, models.StepSelectDateTime); err != nil {
		return err
	}
	if sel.Date == "" {
		return invalid("date", "please select a date first")
	}
	if err := w.checkTime(ctx, slot); err != nil {
		return err
	}
	sel.Time = slot
	w.touch(sel)
	return nil
}

// UpdateContact replaces the contact details. They are validated on submit.
func (w *Workflow) UpdateContact(sel *models.Selection, contact models.Customer) error {
	if err := requireStep(sel, models.StepEnterDetails); err != nil {
		return err
	}
	sel.Contact = models.Customer{
		Name:    strings.TrimSpace(contact.Name),
		Email:   strings.TrimSpace(contact.Email),
		Phone:   strings.TrimSpace(contact.Phone),
		Message: strings.TrimSpace(contact.Message),
	}
	w.touch(sel)
	return nil
}

// Next moves one step forward if the current step is complete.
func (w *Workflow) Next(ctx context.Context, sel *models.Selection) error {
	switch sel.Step {
	case models.StepSelectService:
		if sel.Service == nil {
			return invalid("service", "please select a service")
		}
		sel.Step = models.StepSelectDateTime
	case models.StepSelectDateTime:
		if err := w.checkDateTime(ctx, sel); err != nil {
			return err
		}
		sel.Step = models.StepEnterDetails
	default:
		return fmt.Errorf("%w: no step after %s", ErrInvalidStep, sel.Step)
	}
	w.touch(sel)
	w.logger.Debug().Str("session_id", sel.SessionID).Str("step", string(sel.Step)).Msg("workflow advanced")
	return nil
}

// Back moves one step backward. Entered data is kept.
func (w *Workflow) Back(sel *models.Selection) error {
	switch sel.Step {
	case models.StepSelectDateTime:
		sel.Step = models.StepSelectService
	case models.StepEnterDetails:
		sel.Step = models.StepSelectDateTime
	default:
		return fmt.Errorf("%w: no step before %s", ErrInvalidStep, sel.Step)
	}
	w.touch(sel)
	w.logger.Debug().Str("session_id", sel.SessionID).Str("step", string(sel.Step)).Msg("workflow went back")
	return nil
}

// Submit validates the selection, records a pending booking request and
// resets the selection. On failure the selection is left untouched.
func (w *Workflow) Submit(ctx context.Context, sel *models.Selection) (models.BookingRequest, error) {
	if err := requireStep(sel, models.StepEnterDetails); err != nil {
		return models.BookingRequest{}, err
	}
	if sel.Service == nil {
		return models.BookingRequest{}, invalid("service", "please select a service")
	}
	// snapshot the catalog as it is now, not as it was when the service was picked
	svc, err := w.catalog.Get(ctx, sel.Service.ID)
	if errors.Is(err, ErrServiceNotFound) {
		return models.BookingRequest{}, invalid("service", "selected service is no longer offered")
	}
	if err != nil {
		return models.BookingRequest{}, err
	}
	if err := w.checkDateTime(ctx, sel); err != nil {
		return models.BookingRequest{}, err
	}
	if err := validation.Struct(&sel.Contact); err != nil {
		if ve, ok := validation.AsError(err); ok {
			metrics.IncValidationFailure(ve.Field)
		}
		return models.BookingRequest{}, err
	}

	booking := models.BookingRequest{
		ID:        w.ids.NewID(),
		Service:   svc,
		Date:      sel.Date,
		Time:      sel.Time,
		Customer:  sel.Contact,
		Status:    models.StatusPending,
		CreatedAt: w.clock.Now().UTC(),
	}
	if err := w.ledger.Append(ctx, booking); err != nil {
		return models.BookingRequest{}, err
	}

	sel.Step = models.StepSubmitted
	w.logger.Info().
		Str("session_id", sel.SessionID).
		Str("booking_id", booking.ID.String()).
		Str("service", booking.Service.Name).
		Str("date", booking.Date).
		Str("time", booking.Time).
		Msg("booking request submitted")
	metrics.IncSubmitted()
	publish(w.eventBus, w.logger, events.EventBookingSubmitted, bookingPayload(booking, ""))

	sel.Reset()
	w.touch(sel)
	return booking, nil
}

func (w *Workflow) checkDateTime(ctx context.Context, sel *models.Selection) error {
	if sel.Date == "" {
		return invalid("date", "please select a date")
	}
	if err := w.checkDate(ctx, sel.Date); err != nil {
		return err
	}
	if sel.Time == "" {
		return invalid("time", "please select a time")
	}
	return w.checkTime(ctx, sel.Time)
}

func (w *Workflow) checkDate(ctx context.Context, date string) error {
	d, err := calendar.ParseDate(date)
	if err != nil {
		return invalid("date", "date must be in YYYY-MM-DD format")
	}
	if calendar.IsPast(d, w.clock.Now()) {
		return invalid("date", "date is in the past")
	}
	ok, err := w.availability.IsAvailable(ctx, d)
	if err != nil {
		return err
	}
	if !ok {
		return invalid("date", "date is not available")
	}
	return nil
}

func (w *Workflow) checkTime(ctx context.Context, slot string) error {
	ok, err := w.slots.Contains(ctx, slot)
	if err != nil {
		return err
	}
	if !ok {
		return invalid("time", "time is not one of the available slots")
	}
	return nil
}

func (w *Workflow) touch(sel *models.Selection) {
	sel.UpdatedAt = w.clock.Now().UTC()
}
