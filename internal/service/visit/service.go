package visit

import (
	"context"
	"fmt"
	"time"

	"github.com/medregistry/registry-api/internal/model"
	"github.com/medregistry/registry-api/internal/registry"
	"github.com/medregistry/registry-api/internal/service/event"
	"github.com/medregistry/registry-api/pkg/logger"
	"github.com/medregistry/registry-api/pkg/metrics"
	"github.com/medregistry/registry-api/pkg/principal"
)

// Service fronts the per-patient visit ledger.
type Service struct {
	registry *registry.Registry
	events   event.Emitter
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

func NewService(reg *registry.Registry, events event.Emitter, m *metrics.Metrics, log *logger.Logger) *Service {
	return &Service{
		registry: reg,
		events:   events,
		metrics:  m,
		logger:   log,
	}
}

func (s *Service) RecordVisit(ctx context.Context, key string, in registry.VisitInput, caller principal.Address) (*model.Visit, error) {
	defer s.observe("record_visit", time.Now())

	v, patientName, err := s.registry.RecordVisit(key, in, caller)
	if err != nil {
		s.metrics.RegistryOperations.WithLabelValues("record_visit", "rejected").Inc()
		return nil, fmt.Errorf("failed to record visit: %w", err)
	}

	s.emit(ctx, model.EventVisitCreated, model.VisitCreatedEvent{
		Name:      patientName,
		Principal: in.Principal,
		Date:      in.Date,
	})

	s.metrics.RegistryOperations.WithLabelValues("record_visit", "success").Inc()
	return v, nil
}

func (s *Service) ListVisits(ctx context.Context, key string, addr principal.Address) ([]*model.Visit, error) {
	visits, err := s.registry.ListVisits(key, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	return visits, nil
}

func (s *Service) GetVisit(ctx context.Context, key string, addr principal.Address, date int64) (*model.Visit, error) {
	v, err := s.registry.GetVisit(key, addr, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get visit: %w", err)
	}
	return v, nil
}

func (s *Service) emit(ctx context.Context, eventType string, payload interface{}) {
	if err := s.events.Emit(ctx, eventType, payload); err != nil {
		s.logger.Error(err, "failed to emit notification", "event_type", eventType)
	}
}

func (s *Service) observe(operation string, start time.Time) {
	s.metrics.RegistryLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
