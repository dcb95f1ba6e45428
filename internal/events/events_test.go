package events

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus(t *testing.T) {
	bus := NewEventBus()

	var received *Event
	var callCount int

	bus.Subscribe(EventBookingSubmitted, func(event *Event) error {
		received = event
		callCount++
		return nil
	})

	err := bus.PublishJSON(EventBookingSubmitted, BookingEventPayload{BookingID: "b-1", Status: "pending"})
	require.NoError(t, err)

	assert.Equal(t, 1, callCount)
	require.NotNil(t, received)
	assert.Equal(t, EventBookingSubmitted, received.Type)
	assert.False(t, received.CreatedAt.IsZero())

	var decoded BookingEventPayload
	require.NoError(t, json.Unmarshal(received.Payload, &decoded))
	assert.Equal(t, "b-1", decoded.BookingID)
	assert.Equal(t, "pending", decoded.Status)
}

func TestEventBusMultipleSubscribers(t *testing.T) {
	bus := NewEventBus()
	var count1, count2 int

	bus.Subscribe("event", func(_ *Event) error { count1++; return nil })
	bus.Subscribe("event", func(_ *Event) error { count2++; return nil })

	require.NoError(t, bus.Publish(&Event{Type: "event"}))
	assert.Equal(t, 1, count1)
	assert.Equal(t, 1, count2)
}

func TestEventBusHandlerErrors(t *testing.T) {
	bus := NewEventBus()
	var reached bool

	bus.Subscribe("event", func(_ *Event) error { return errors.New("mailer down") })
	bus.Subscribe("event", func(_ *Event) error { reached = true; return nil })

	err := bus.Publish(&Event{Type: "event"})
	assert.ErrorContains(t, err, "mailer down")
	assert.True(t, reached)
}

func TestEventBusNoSubscribers(t *testing.T) {
	bus := NewEventBus()
	assert.NoError(t, bus.Publish(&Event{Type: "unknown"}))
	assert.NoError(t, bus.PublishJSON("unknown", nil))

	var nilBus *EventBus
	assert.NoError(t, nilBus.PublishJSON("unknown", nil))
}

func TestNewJSONEvent(t *testing.T) {
	event, err := NewJSONEvent(EventAvailabilityToggled, AvailabilityEventPayload{Date: "2025-06-15"})
	require.NoError(t, err)
	assert.Equal(t, EventAvailabilityToggled, event.Type)
	assert.False(t, event.CreatedAt.IsZero())

	var decoded AvailabilityEventPayload
	require.NoError(t, json.Unmarshal(event.Payload, &decoded))
	assert.Equal(t, "2025-06-15", decoded.Date)
	assert.False(t, decoded.Available)

	_, err = NewJSONEvent("bad", make(chan int))
	assert.Error(t, err)
}
