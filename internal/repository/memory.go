package repository

import (
	"context"
	"sync"
	"time"

	"studiobook/internal/domain"
	"studiobook/internal/models"
)

var _ domain.SelectionRepository = (*MemorySelectionRepository)(nil)

type selectionEntry struct {
	selection models.Selection
	expiresAt time.Time
}

// MemorySelectionRepository keeps selections in process memory. Entries
// expire after ttl of inactivity; a zero ttl keeps them forever.
type MemorySelectionRepository struct {
	selections sync.Map
	rateLimits sync.Map
	ttl        time.Duration
	now        func() time.Time
}

func NewMemorySelectionRepository(ttl time.Duration) *MemorySelectionRepository {
	return &MemorySelectionRepository{
		ttl: ttl,
		now: time.Now,
	}
}

func (r *MemorySelectionRepository) GetSelection(_ context.Context, sessionID string) (*models.Selection, error) {
	val, ok := r.selections.Load(sessionID)
	if !ok {
		return nil, nil
	}
	entry := val.(*selectionEntry)
	if !entry.expiresAt.IsZero() && r.now().After(entry.expiresAt) {
		r.selections.Delete(sessionID)
		return nil, nil
	}
	sel := copySelection(&entry.selection)
	return sel, nil
}

func (r *MemorySelectionRepository) SaveSelection(_ context.Context, sel *models.Selection) error {
	entry := &selectionEntry{selection: *copySelection(sel)}
	if r.ttl > 0 {
		entry.expiresAt = r.now().Add(r.ttl)
	}
	r.selections.Store(sel.SessionID, entry)
	return nil
}

func (r *MemorySelectionRepository) DeleteSelection(_ context.Context, sessionID string) error {
	r.selections.Delete(sessionID)
	return nil
}

type rateLimitEntry struct {
	mu        sync.Mutex
	count     int
	expiresAt time.Time
}

func (r *MemorySelectionRepository) CheckRateLimit(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := r.now()
	val, _ := r.rateLimits.LoadOrStore(key, &rateLimitEntry{})
	entry := val.(*rateLimitEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.count == 0 || now.After(entry.expiresAt) {
		entry.count = 1
		entry.expiresAt = now.Add(window)
	} else {
		entry.count++
	}

	return entry.count <= limit, nil
}

func (r *MemorySelectionRepository) RateLimitReached(_ context.Context, key string, limit int) (bool, error) {
	val, ok := r.rateLimits.Load(key)
	if !ok {
		return false, nil
	}
	entry := val.(*rateLimitEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.count == 0 || r.now().After(entry.expiresAt) {
		return false, nil
	}
	return entry.count >= limit, nil
}

// copySelection detaches the stored value from the caller's pointer.
func copySelection(sel *models.Selection) *models.Selection {
	out := *sel
	if sel.Service != nil {
		svc := *sel.Service
		out.Service = &svc
	}
	return &out
}
