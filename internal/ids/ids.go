// Package ids generates identifiers for services and booking requests.
package ids

import (
	"fmt"
	"strconv"
	"sync"

	"studiobook/internal/domain"
	"studiobook/internal/models"

	"github.com/google/uuid"
)

const (
	StrategyUUID     = "uuid"
	StrategySequence = "sequence"
)

var (
	_ domain.IDGenerator = UUIDGenerator{}
	_ domain.IDGenerator = (*SequenceGenerator)(nil)
)

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() models.ID {
	return models.ID(uuid.NewString())
}

// SequenceGenerator hands out increasing decimal ids. It never repeats
// within a process, unlike millisecond timestamps.
type SequenceGenerator struct {
	mu   sync.Mutex
	last int64
}

// NewSequenceGenerator returns a generator whose first id is last+1.
func NewSequenceGenerator(last int64) *SequenceGenerator {
	return &SequenceGenerator{last: last}
}

func (g *SequenceGenerator) NewID() models.ID {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.last++
	return models.ID(strconv.FormatInt(g.last, 10))
}

// New builds the generator for the configured strategy. last seeds the
// sequence strategy and is ignored otherwise.
func New(strategy string, last int64) (domain.IDGenerator, error) {
	switch strategy {
	case StrategyUUID, "":
		return UUIDGenerator{}, nil
	case StrategySequence:
		return NewSequenceGenerator(last), nil
	default:
		return nil, fmt.Errorf("unknown id strategy %q", strategy)
	}
}

// MaxNumeric returns the largest numeric id among ids, or 0.
func MaxNumeric(ids ...models.ID) int64 {
	var highest int64
	for _, id := range ids {
		n, err := strconv.ParseInt(string(id), 10, 64)
		if err == nil && n > highest {
			highest = n
		}
	}
	return highest
}
