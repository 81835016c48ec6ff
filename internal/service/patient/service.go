package patient

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

// Service fronts the per-tenant patient store. Every mutation is gated by
// the registry's authorization engine against the caller's live role.
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

func (s *Service) CreatePatient(ctx context.Context, key string, in registry.PatientInput, caller principal.Address) (*model.Patient, error) {
	defer s.observe("create_patient", time.Now())

	p, err := s.registry.CreatePatient(key, in, caller)
	if err != nil {
		s.metrics.RegistryOperations.WithLabelValues("create_patient", "rejected").Inc()
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}

	s.emit(ctx, model.EventPatientCreated, model.PatientCreatedEvent{
		Name:      p.Name,
		Principal: p.Principal,
		DOB:       p.DOB,
	})

	s.metrics.RegistryOperations.WithLabelValues("create_patient", "success").Inc()
	return p, nil
}

func (s *Service) AddEmergencyContact(ctx context.Context, key string, addr principal.Address, relation, contact string, caller principal.Address) error {
	defer s.observe("add_emergency_contact", time.Now())

	if err := s.registry.AddEmergencyContact(key, addr, relation, contact, caller); err != nil {
		s.metrics.RegistryOperations.WithLabelValues("add_emergency_contact", "rejected").Inc()
		return fmt.Errorf("failed to add emergency contact: %w", err)
	}

	s.metrics.RegistryOperations.WithLabelValues("add_emergency_contact", "success").Inc()
	return nil
}

func (s *Service) DeletePatient(ctx context.Context, key string, addr principal.Address, caller principal.Address) error {
	defer s.observe("delete_patient", time.Now())

	if err := s.registry.DeletePatient(key, addr, caller); err != nil {
		s.metrics.RegistryOperations.WithLabelValues("delete_patient", "rejected").Inc()
		return fmt.Errorf("failed to delete patient: %w", err)
	}

	s.metrics.RegistryOperations.WithLabelValues("delete_patient", "success").Inc()
	s.logger.Info("patient deleted", "key", key, "principal", addr.String())
	return nil
}

func (s *Service) GetPatient(ctx context.Context, key string, addr principal.Address) (*model.Patient, error) {
	p, err := s.registry.GetPatient(key, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return p, nil
}

func (s *Service) emit(ctx context.Context, eventType string, payload interface{}) {
	if err := s.events.Emit(ctx, eventType, payload); err != nil {
		s.logger.Error(err, "failed to emit notification", "event_type", eventType)
	}
}

func (s *Service) observe(operation string, start time.Time) {
	s.metrics.RegistryLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
