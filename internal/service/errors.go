package service

import "errors"

var (
	ErrServiceNotFound      = errors.New("service not found")
	ErrBookingNotFound      = errors.New("booking request not found")
	ErrSessionNotFound      = errors.New("booking session not found")
	ErrLastService          = errors.New("cannot delete the last service")
	ErrConfirmationRequired = errors.New("destructive action requires confirmation")
	ErrInvalidStatus        = errors.New("invalid booking status")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrInvalidStep          = errors.New("action not allowed at this step")
	ErrPastDate             = errors.New("date is in the past")
	ErrRateLimited          = errors.New("too many booking requests")
)
