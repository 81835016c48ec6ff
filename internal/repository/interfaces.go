package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/medregistry/registry-api/internal/model"
)

// OutboxRepository stores notification events until the processor publishes
// them. Registry state itself is not persisted here; durability of the
// registry belongs to the host collaborator.
type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	MarkProcessed(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
	PendingCount(ctx context.Context) (int, error)
}
