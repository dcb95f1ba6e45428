package validation_test

import (
	"errors"
	"fmt"
	"testing"

	"studiobook/internal/models"
	"studiobook/internal/validation"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type priced struct {
	Name  string           `json:"name" validate:"notblank"`
	Price *decimal.Decimal `json:"price" validate:"required,gte=0"`
}

func price(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestStruct_Customer(t *testing.T) {
	tests := []struct {
		name      string
		data      models.Customer
		wantField string
	}{
		{
			name: "valid",
			data: models.Customer{Name: "Ana", Email: "ana@example.com", Phone: "+420 123 456 789"},
		},
		{
			name:      "missing name",
			data:      models.Customer{Email: "ana@example.com", Phone: "1"},
			wantField: "name",
		},
		{
			name:      "invalid email",
			data:      models.Customer{Name: "Ana", Email: "not-an-email", Phone: "1"},
			wantField: "email",
		},
		{
			name:      "missing phone",
			data:      models.Customer{Name: "Ana", Email: "ana@example.com"},
			wantField: "phone",
		},
		{
			name: "message optional",
			data: models.Customer{Name: "Ana", Email: "ana@example.com", Phone: "1", Message: ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Struct(&tt.data)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			ve, ok := validation.AsError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantField, ve.Field)
			assert.NotEmpty(t, ve.Message)
		})
	}
}

func TestStruct_Messages(t *testing.T) {
	err := validation.Struct(&models.Customer{Name: "Ana", Email: "x", Phone: "1"})
	ve, ok := validation.AsError(err)
	require.True(t, ok)
	assert.Equal(t, "email must be a valid email address", ve.Message)
	assert.Equal(t, "email: email must be a valid email address", ve.Error())
}

func TestStruct_Decimal(t *testing.T) {
	assert.NoError(t, validation.Struct(&priced{Name: "Mini", Price: price(0)}))
	assert.NoError(t, validation.Struct(&priced{Name: "Mini", Price: price(90)}))

	ve, ok := validation.AsError(validation.Struct(&priced{Name: "Mini"}))
	require.True(t, ok)
	assert.Equal(t, "price", ve.Field)
	assert.Equal(t, "price is required", ve.Message)

	ve, ok = validation.AsError(validation.Struct(&priced{Name: "Mini", Price: price(-1)}))
	require.True(t, ok)
	assert.Equal(t, "price", ve.Field)

	ve, ok = validation.AsError(validation.Struct(&priced{Name: "   ", Price: price(1)}))
	require.True(t, ok)
	assert.Equal(t, "name", ve.Field)
}

func TestVar(t *testing.T) {
	assert.NoError(t, validation.Var("time", "09:30", "hhmm"))

	err := validation.Var("time", "9:30", "hhmm")
	ve, ok := validation.AsError(err)
	require.True(t, ok)
	assert.Equal(t, "time", ve.Field)
	assert.Equal(t, "time must be a time in HH:MM format", ve.Message)

	assert.Error(t, validation.Var("time", "24:00", "hhmm"))
}

func TestVar_TimeSlots(t *testing.T) {
	assert.NoError(t, validation.Var("slots", []string{"09:00", "13:30"}, validation.TimeSlotsRule))

	tests := []struct {
		name  string
		slots []string
		msg   string
	}{
		{"nil", nil, "slots is required"},
		{"empty", []string{}, "slots must have at least 1 entries"},
		{"duplicates", []string{"09:00", "09:00"}, "slots must not contain duplicates"},
		{"short hour", []string{"9:00"}, "slots must be a time in HH:MM format"},
		{"out of range", []string{"10:00", "24:00"}, "slots must be a time in HH:MM format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Var("slots", tt.slots, validation.TimeSlotsRule)
			ve, ok := validation.AsError(err)
			require.True(t, ok)
			assert.Equal(t, "slots", ve.Field)
			assert.Equal(t, tt.msg, ve.Message)
		})
	}
}

func TestAsError_Wrapped(t *testing.T) {
	err := fmt.Errorf("submit: %w", validation.New("date", "date is not available"))
	ve, ok := validation.AsError(err)
	require.True(t, ok)
	assert.Equal(t, "date", ve.Field)

	_, ok = validation.AsError(errors.New("plain"))
	assert.False(t, ok)
}
