package models

import "time"

type WorkflowStep string

const (
	StepSelectService  WorkflowStep = "select_service"
	StepSelectDateTime WorkflowStep = "select_datetime"
	StepEnterDetails   WorkflowStep = "enter_details"
	StepSubmitted      WorkflowStep = "submitted"
)

// Selection is the in-progress state of one visitor's booking session.
// It is never written to the durable store.
type Selection struct {
	SessionID string       `json:"session_id"`
	Step      WorkflowStep `json:"step"`
	Service   *Service     `json:"service,omitempty"`
	Date      string       `json:"date,omitempty"`
	Time      string       `json:"time,omitempty"`
	Contact   Customer     `json:"contact"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func NewSelection(sessionID string) *Selection {
	return &Selection{
		SessionID: sessionID,
		Step:      StepSelectService,
	}
}

// Reset returns the selection to its initial empty state, keeping the session.
func (s *Selection) Reset() {
	s.Step = StepSelectService
	s.Service = nil
	s.Date = ""
	s.Time = ""
	s.Contact = Customer{}
}

func (s *Selection) IsEmpty() bool {
	return s.Step == StepSelectService && s.Service == nil && s.Date == "" && s.Time == "" && s.Contact == Customer{}
}
