package tenant

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medregistry/registry-api/internal/model"
	"github.com/medregistry/registry-api/internal/registry"
	"github.com/medregistry/registry-api/internal/repository/memory"
	"github.com/medregistry/registry-api/internal/service/event"
	"github.com/medregistry/registry-api/pkg/errors"
	"github.com/medregistry/registry-api/pkg/logger"
	"github.com/medregistry/registry-api/pkg/metrics"
	"github.com/medregistry/registry-api/pkg/principal"
)

var (
	owner  = principal.MustParse("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	doctor = principal.MustParse("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
)

func newService(t *testing.T) (*Service, *memory.OutboxRepository) {
	t.Helper()
	outbox := memory.NewOutboxRepository()
	svc := NewService(
		registry.New(),
		event.NewService(outbox),
		metrics.NewUnregistered("test"),
		logger.New(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard}),
	)
	return svc, outbox
}

func pendingTypes(t *testing.T, outbox *memory.OutboxRepository) []string {
	t.Helper()
	events, err := outbox.GetPendingEvents(context.Background(), 100)
	require.NoError(t, err)
	types := make([]string, 0, len(events))
	for _, e := range events {
		types = append(types, e.EventType)
	}
	return types
}

func TestUpsertTenantEmitsNotification(t *testing.T) {
	svc, outbox := newService(t)
	ctx := context.Background()

	tenant, replaced, err := svc.UpsertTenant(ctx, "h1", "Mercy General", "Sacramento", owner)
	require.NoError(t, err)
	assert.False(t, replaced)
	assert.Equal(t, owner, tenant.Owner)

	events, err := outbox.GetPendingEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, model.EventTenantCreated, events[0].EventType)

	var payload model.TenantCreatedEvent
	require.NoError(t, json.Unmarshal(events[0].Payload, &payload))
	assert.Equal(t, "h1", payload.Key)
	assert.Equal(t, "Mercy General", payload.Name)
	assert.Equal(t, owner, payload.Owner)
}

func TestUpsertTenantReplaceStillNotifies(t *testing.T) {
	svc, outbox := newService(t)
	ctx := context.Background()

	_, _, err := svc.UpsertTenant(ctx, "h1", "Mercy General", "Sacramento", owner)
	require.NoError(t, err)
	_, replaced, err := svc.UpsertTenant(ctx, "h1", "Reclaimed", "Elsewhere", doctor)
	require.NoError(t, err)
	assert.True(t, replaced)

	assert.Equal(t, []string{model.EventTenantCreated, model.EventTenantCreated}, pendingTypes(t, outbox))
}

func TestUpdateStaffRoleEmitsNotification(t *testing.T) {
	svc, outbox := newService(t)
	ctx := context.Background()

	_, _, err := svc.UpsertTenant(ctx, "h1", "Mercy General", "Sacramento", owner)
	require.NoError(t, err)
	require.NoError(t, svc.UpdateStaffRole(ctx, "h1", doctor, model.RoleDoctor, owner))

	role, err := svc.StaffRole(ctx, "h1", doctor)
	require.NoError(t, err)
	assert.Equal(t, model.RoleDoctor, role)

	types := pendingTypes(t, outbox)
	require.Len(t, types, 2)
	assert.Equal(t, model.EventStaffRoleUpdated, types[1])
}

func TestRejectedMutationEmitsNothing(t *testing.T) {
	svc, outbox := newService(t)
	ctx := context.Background()

	_, _, err := svc.UpsertTenant(ctx, "h1", "Mercy General", "Sacramento", owner)
	require.NoError(t, err)

	err = svc.UpdateStaffRole(ctx, "h1", doctor, model.RoleDoctor, doctor)
	assert.True(t, errors.IsKind(err, errors.KindNotOwner))

	err = svc.DeleteStaff(ctx, "h1", doctor, owner)
	assert.True(t, errors.IsKind(err, errors.KindStaffNotFound))

	assert.Equal(t, []string{model.EventTenantCreated}, pendingTypes(t, outbox))
}

func TestDeleteTenant(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, _, err := svc.UpsertTenant(ctx, "h1", "Mercy General", "Sacramento", owner)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteTenant(ctx, "h1", owner))

	_, err = svc.GetTenant(ctx, "h1")
	assert.True(t, errors.IsKind(err, errors.KindTenantNotFound))
}
