package tenant

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

// Service fronts the hospital directory: tenant lifecycle and the role
// registry. Registry state changes commit first; notification emission is
// best-effort and never rolls a call back.
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

// UpsertTenant creates or overwrites the tenant under key. The overwrite
// path reassigns ownership to the caller; that is the published contract,
// so it is logged loudly rather than rejected.
func (s *Service) UpsertTenant(ctx context.Context, key, name, location string, caller principal.Address) (*model.Tenant, bool, error) {
	defer s.observe("upsert_tenant", time.Now())

	res := s.registry.UpsertTenant(key, name, location, caller)
	if res.OwnerChanged {
		s.logger.Warn("tenant ownership reassigned on key reuse",
			"key", key, "new_owner", caller.String())
	}

	s.emit(ctx, model.EventTenantCreated, model.TenantCreatedEvent{
		Name:  name,
		Key:   key,
		Owner: caller,
	})

	s.metrics.RegistryOperations.WithLabelValues("upsert_tenant", "success").Inc()
	return &res.Tenant, res.Replaced, nil
}

func (s *Service) GetTenant(ctx context.Context, key string) (*model.Tenant, error) {
	t, err := s.registry.GetTenant(key)
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return t, nil
}

func (s *Service) DeleteTenant(ctx context.Context, key string, caller principal.Address) error {
	defer s.observe("delete_tenant", time.Now())

	if err := s.registry.DeleteTenant(key, caller); err != nil {
		s.metrics.RegistryOperations.WithLabelValues("delete_tenant", "rejected").Inc()
		return fmt.Errorf("failed to delete tenant: %w", err)
	}

	s.metrics.RegistryOperations.WithLabelValues("delete_tenant", "success").Inc()
	s.logger.Info("tenant deleted", "key", key)
	return nil
}

func (s *Service) UpdateStaffRole(ctx context.Context, key string, p principal.Address, role model.Role, caller principal.Address) error {
	defer s.observe("update_staff_role", time.Now())

	if err := s.registry.UpdateStaffRole(key, p, role, caller); err != nil {
		s.metrics.RegistryOperations.WithLabelValues("update_staff_role", "rejected").Inc()
		return fmt.Errorf("failed to update staff role: %w", err)
	}

	s.emit(ctx, model.EventStaffRoleUpdated, model.StaffRoleUpdatedEvent{
		Key:       key,
		Principal: p,
		Role:      role,
	})

	s.metrics.RegistryOperations.WithLabelValues("update_staff_role", "success").Inc()
	return nil
}

func (s *Service) StaffRole(ctx context.Context, key string, p principal.Address) (model.Role, error) {
	role, err := s.registry.StaffRole(key, p)
	if err != nil {
		return model.RoleNone, fmt.Errorf("failed to get staff role: %w", err)
	}
	return role, nil
}

func (s *Service) DeleteStaff(ctx context.Context, key string, p principal.Address, caller principal.Address) error {
	defer s.observe("delete_staff", time.Now())

	if err := s.registry.DeleteStaff(key, p, caller); err != nil {
		s.metrics.RegistryOperations.WithLabelValues("delete_staff", "rejected").Inc()
		return fmt.Errorf("failed to delete staff: %w", err)
	}

	s.metrics.RegistryOperations.WithLabelValues("delete_staff", "success").Inc()
	return nil
}

func (s *Service) emit(ctx context.Context, eventType string, payload interface{}) {
	if err := s.events.Emit(ctx, eventType, payload); err != nil {
		s.logger.Error(err, "failed to emit notification", "event_type", eventType)
	}
}

func (s *Service) observe(operation string, start time.Time) {
	s.metrics.RegistryLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
