package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/medregistry/registry-api/internal/model"
	"github.com/medregistry/registry-api/internal/repository"
)

// Emitter is what the domain services need from the notification side.
type Emitter interface {
	Emit(ctx context.Context, eventType string, payload interface{}) error
}

type Service struct {
	repo repository.OutboxRepository
}

func NewService(repo repository.OutboxRepository) *Service {
	return &Service{repo: repo}
}

// Emit stores the notification in the outbox for the processor to publish.
func (s *Service) Emit(ctx context.Context, eventType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}
	if err := s.repo.Create(ctx, &model.OutboxEvent{
		EventType: eventType,
		Payload:   data,
	}); err != nil {
		return fmt.Errorf("failed to create outbox event: %w", err)
	}
	return nil
}
