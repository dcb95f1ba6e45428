package service

import (
	"studiobook/internal/domain"
	"studiobook/internal/events"
	"studiobook/internal/models"

	"github.com/rs/zerolog"
)

func publish(bus domain.EventPublisher, logger *zerolog.Logger, eventType string, payload interface{}) {
	if bus == nil {
		return
	}
	if err := bus.PublishJSON(eventType, payload); err != nil {
		logger.Error().Err(err).Str("event_type", eventType).Msg("publish event error")
	}
}

func bookingPayload(b models.BookingRequest, prev models.BookingStatus) events.BookingEventPayload {
	return events.BookingEventPayload{
		BookingID:     b.ID.String(),
		ServiceID:     b.Service.ID.String(),
		ServiceName:   b.Service.Name,
		Date:          b.Date,
		Time:          b.Time,
		Status:        string(b.Status),
		PrevStatus:    string(prev),
		CustomerName:  b.Customer.Name,
		CustomerEmail: b.Customer.Email,
		CreatedAt:     b.CreatedAt,
	}
}
