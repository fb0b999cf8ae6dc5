package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/agexport-console/internal/model"
	"github.com/d60-Lab/agexport-console/internal/repository"
)

func TestStatusAuditor_PersistsEvents(t *testing.T) {
	db := setupTestDB(t)
	eventRepo := repository.NewOrderEventRepository(db)

	auditor := NewStatusAuditor(eventRepo, 16)
	stop := auditor.Start(1)
	defer func() { _ = stop(context.Background()) }()

	auditor.Enqueue("ord-1", model.EventSourceOrder, model.StatusPending, model.StatusConfirmed)
	auditor.Enqueue("ord-1", model.EventSourceOrder, model.StatusConfirmed, model.StatusShipped)

	require.Eventually(t, func() bool {
		events, err := eventRepo.ListByOrderID(context.Background(), "ord-1")
		return err == nil && len(events) == 2
	}, 2*time.Second, 20*time.Millisecond)

	events, err := eventRepo.ListByOrderID(context.Background(), "ord-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, events[0].ToStatus)
	assert.Equal(t, model.StatusShipped, events[1].ToStatus)
}

func TestSetStatus_EmitsAuditEvent(t *testing.T) {
	db := setupTestDB(t)
	eventRepo := repository.NewOrderEventRepository(db)
	auditor := NewStatusAuditor(eventRepo, 16)
	stop := auditor.Start(1)
	defer func() { _ = stop(context.Background()) }()

	svc := NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewCustomerRepository(db),
		eventRepo,
		auditor,
		false,
	)
	ctx := context.Background()

	order, err := svc.Create(ctx, sampleCreateInput())
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, order.ID, model.StatusConfirmed)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		events, err := svc.ListEvents(ctx, order.ID)
		return err == nil && len(events) == 1
	}, 2*time.Second, 20*time.Millisecond)

	events, err := svc.ListEvents(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, events[0].FromStatus)
	assert.Equal(t, model.StatusConfirmed, events[0].ToStatus)
	assert.Equal(t, model.EventSourceOrder, events[0].Source)
}
