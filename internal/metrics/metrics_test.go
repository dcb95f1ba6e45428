package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	// Register should be safe to call multiple times
	Register()
	Register()

	assert.NotPanics(t, func() {
		IncHTTP("/api/v1/services", "200")
		IncStatusChange("confirmed")
		IncAvailabilityToggle()
	})

	before := testutil.ToFloat64(bookingsSubmitted)
	IncSubmitted()
	assert.Equal(t, before+1, testutil.ToFloat64(bookingsSubmitted))

	IncValidationFailure("email")
	assert.Equal(t, 1.0, testutil.ToFloat64(validationFailures.WithLabelValues("email")))

	SetPending(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(pendingBookings))
}
