package service

import (
	"context"
	"fmt"
	"time"

	"studiobook/internal/domain"
	"studiobook/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SessionService keeps one workflow selection per visitor session.
type SessionService struct {
	repo         domain.SelectionRepository
	clock        domain.Clock
	submitLimit  int
	submitWindow time.Duration
	logger       *zerolog.Logger
}

func NewSessionService(repo domain.SelectionRepository, clock domain.Clock, submitLimit int, submitWindow time.Duration, logger *zerolog.Logger) *SessionService {
	return &SessionService{
		repo:         repo,
		clock:        clock,
		submitLimit:  submitLimit,
		submitWindow: submitWindow,
		logger:       logger,
	}
}

func (s *SessionService) Start(ctx context.Context) (*models.Selection, error) {
	sel := models.NewSelection(uuid.NewString())
	if err := s.Save(ctx, sel); err != nil {
		return nil, err
	}
	s.logger.Debug().Str("session_id", sel.SessionID).Msg("booking session started")
	return sel, nil
}

func (s *SessionService) Get(ctx context.Context, sessionID string) (*models.Selection, error) {
	sel, err := s.repo.GetSelection(ctx, sessionID)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to get selection")
		return nil, err
	}
	if sel == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return sel, nil
}

func (s *SessionService) Save(ctx context.Context, sel *models.Selection) error {
	sel.UpdatedAt = s.clock.Now().UTC()
	return s.repo.SaveSelection(ctx, sel)
}

// Discard drops the session, like navigating away from the booking page.
func (s *SessionService) Discard(ctx context.Context, sessionID string) error {
	return s.repo.DeleteSelection(ctx, sessionID)
}

func submitKey(clientKey string) string {
	return "submit:" + clientKey
}

// AllowSubmit reports ErrRateLimited once the client has used up its
// submissions for the window. It does not count the attempt; RecordSubmit
// does that after a booking is stored, so rejected submits cost nothing.
// A limit of 0 or less disables it.
func (s *SessionService) AllowSubmit(ctx context.Context, clientKey string) error {
	if s.submitLimit <= 0 {
		return nil
	}
	reached, err := s.repo.RateLimitReached(ctx, submitKey(clientKey), s.submitLimit)
	if err != nil {
		return err
	}
	if reached {
		s.logger.Warn().Str("client", clientKey).Msg("booking submission rate limited")
		return ErrRateLimited
	}
	return nil
}

// RecordSubmit counts one stored booking against the client's limit.
func (s *SessionService) RecordSubmit(ctx context.Context, clientKey string) error {
	if s.submitLimit <= 0 {
		return nil
	}
	_, err := s.repo.CheckRateLimit(ctx, submitKey(clientKey), s.submitLimit, s.submitWindow)
	return err
}
