package visit

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
	rando  = principal.MustParse("0xcccccccccccccccccccccccccccccccccccccccc")
	ada    = principal.MustParse("0x1111111111111111111111111111111111111111")
)

func newService(t *testing.T) (*Service, *memory.OutboxRepository) {
	t.Helper()
	reg := registry.New()
	outbox := memory.NewOutboxRepository()
	log := logger.New(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	svc := NewService(reg, event.NewService(outbox), metrics.NewUnregistered("test"), log)

	reg.UpsertTenant("h1", "Mercy General", "Sacramento", owner)
	require.NoError(t, reg.UpdateStaffRole("h1", doctor, model.RoleDoctor, owner))
	_, err := reg.CreatePatient("h1", registry.PatientInput{Principal: ada, Name: "Ada Byron", DOB: 19901215}, doctor)
	require.NoError(t, err)
	return svc, outbox
}

func TestRecordVisitEmitsNotificationWithPatientName(t *testing.T) {
	svc, outbox := newService(t)
	ctx := context.Background()

	v, err := svc.RecordVisit(ctx, "h1", registry.VisitInput{
		Principal: ada,
		Date:      20240101,
		Diagnoses: []string{"influenza A"},
	}, doctor)
	require.NoError(t, err)
	assert.Equal(t, []string{"influenza A"}, v.Diagnoses)

	events, err := outbox.GetPendingEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, model.EventVisitCreated, events[0].EventType)

	var payload model.VisitCreatedEvent
	require.NoError(t, json.Unmarshal(events[0].Payload, &payload))
	assert.Equal(t, "Ada Byron", payload.Name)
	assert.Equal(t, ada, payload.Principal)
	assert.Equal(t, int64(20240101), payload.Date)
}

func TestRecordVisitUnauthorized(t *testing.T) {
	svc, outbox := newService(t)
	ctx := context.Background()

	_, err := svc.RecordVisit(ctx, "h1", registry.VisitInput{Principal: ada, Date: 20240101}, rando)
	assert.True(t, errors.IsKind(err, errors.KindNotAuthorized))

	events, err := outbox.GetPendingEvents(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestListAndGetVisit(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.RecordVisit(ctx, "h1", registry.VisitInput{Principal: ada, Date: 20240201, Medications: []string{"a"}}, doctor)
	require.NoError(t, err)
	_, err = svc.RecordVisit(ctx, "h1", registry.VisitInput{Principal: ada, Date: 20240101, Medications: []string{"b"}}, doctor)
	require.NoError(t, err)

	visits, err := svc.ListVisits(ctx, "h1", ada)
	require.NoError(t, err)
	require.Len(t, visits, 2)
	assert.Equal(t, int64(20240101), visits[0].Date)

	v, err := svc.GetVisit(ctx, "h1", ada, 20240201)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, v.Medications)

	_, err = svc.GetVisit(ctx, "h1", ada, 20240301)
	assert.ErrorIs(t, err, registry.ErrVisitNotFound)
}
