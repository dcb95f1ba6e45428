package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"studiobook/internal/domain"
	"studiobook/internal/events"
	"studiobook/internal/models"
	"studiobook/internal/store"
	"studiobook/internal/validation"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var _ domain.Catalog = (*CatalogService)(nil)

// ServiceInput holds the admin-editable fields of a service. The id is never
// taken from input.
type ServiceInput struct {
	Name        string           `json:"name" validate:"notblank,max=200"`
	Duration    string           `json:"duration" validate:"max=100"`
	Price       *decimal.Decimal `json:"price" validate:"required,gte=0"`
	Description string           `json:"description" validate:"max=2000"`
}

// apply copies the whitelisted fields onto s.
func (in ServiceInput) apply(s *models.Service) {
	s.Name = strings.TrimSpace(in.Name)
	s.Duration = strings.TrimSpace(in.Duration)
	s.Price = *in.Price
	s.Description = strings.TrimSpace(in.Description)
}

type CatalogService struct {
	store    domain.Store
	ids      domain.IDGenerator
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
	mu       sync.Mutex
}

func NewCatalogService(st domain.Store, ids domain.IDGenerator, eventBus domain.EventPublisher, logger *zerolog.Logger) *CatalogService {
	return &CatalogService{
		store:    st,
		ids:      ids,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *CatalogService) List(ctx context.Context) ([]models.Service, error) {
	return store.Load[models.Service](ctx, s.store, store.KeyServices, s.logger)
}

func (s *CatalogService) Get(ctx context.Context, id models.ID) (models.Service, error) {
	services, err := s.List(ctx)
	if err != nil {
		return models.Service{}, err
	}
	if i := indexOfService(services, id); i >= 0 {
		return services[i], nil
	}
	return models.Service{}, fmt.Errorf("%w: %s", ErrServiceNotFound, id)
}

func (s *CatalogService) Create(ctx context.Context, in ServiceInput) (models.Service, error) {
	if err := validation.Struct(&in); err != nil {
		return models.Service{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	services, err := s.List(ctx)
	if err != nil {
		return models.Service{}, err
	}

	svc := models.Service{ID: s.newID(services)}
	in.apply(&svc)
	services = append(services, svc)

	if err := store.Save(ctx, s.store, store.KeyServices, services); err != nil {
		return models.Service{}, err
	}

	s.logger.Info().Str("service_id", svc.ID.String()).Str("name", svc.Name).Msg("service created")
	publish(s.eventBus, s.logger, events.EventServiceSaved, events.ServiceEventPayload{
		ServiceID: svc.ID.String(),
		Name:      svc.Name,
		Created:   true,
	})
	return svc, nil
}

func (s *CatalogService) Update(ctx context.Context, id models.ID, in ServiceInput) (models.Service, error) {
	if err := validation.Struct(&in); err != nil {
		return models.Service{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	services, err := s.List(ctx)
	if err != nil {
		return models.Service{}, err
	}
	i := indexOfService(services, id)
	if i < 0 {
		return models.Service{}, fmt.Errorf("%w: %s", ErrServiceNotFound, id)
	}

	in.apply(&services[i])
	if err := store.Save(ctx, s.store, store.KeyServices, services); err != nil {
		return models.Service{}, err
	}

	s.logger.Info().Str("service_id", id.String()).Msg("service updated")
	publish(s.eventBus, s.logger, events.EventServiceSaved, events.ServiceEventPayload{
		ServiceID: id.String(),
		Name:      services[i].Name,
	})
	return services[i], nil
}

// Delete removes a service. Booking requests keep their own copy of it.
func (s *CatalogService) Delete(ctx context.Context, id models.ID, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	services, err := s.List(ctx)
	if err != nil {
		return err
	}
	i := indexOfService(services, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrServiceNotFound, id)
	}
	if len(services) == 1 {
		return ErrLastService
	}

	services = append(services[:i], services[i+1:]...)
	if err := store.Save(ctx, s.store, store.KeyServices, services); err != nil {
		return err
	}

	s.logger.Info().Str("service_id", id.String()).Msg("service deleted")
	publish(s.eventBus, s.logger, events.EventServiceDeleted, events.ServiceEventPayload{ServiceID: id.String()})
	return nil
}

// newID draws ids until one is unused.
func (s *CatalogService) newID(services []models.Service) models.ID {
	for {
		id := s.ids.NewID()
		if indexOfService(services, id) < 0 {
			return id
		}
		s.logger.Warn().Str("id", id.String()).Msg("generated service id already in use")
	}
}

func indexOfService(services []models.Service, id models.ID) int {
	for i := range services {
		if services[i].ID == id {
			return i
		}
	}
	return -1
}
