package models

import "time"

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusRejected  BookingStatus = "rejected"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRejected:
		return true
	default:
		return false
	}
}

// Customer holds the contact details entered in the last workflow step.
type Customer struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required,max=50"`
	Message string `json:"message,omitempty" validate:"max=5000"`
}

// BookingRequest is a submitted booking. Service is a copy taken at submission
// time, later catalog edits do not touch it.
type BookingRequest struct {
	ID        ID            `json:"id"`
	Service   Service       `json:"service"`
	Date      string        `json:"date"`
	Time      string        `json:"time"`
	Customer  Customer      `json:"customer"`
	Status    BookingStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
}
