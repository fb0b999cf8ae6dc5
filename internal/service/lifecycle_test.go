package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/agexport-console/internal/model"
	"github.com/d60-Lab/agexport-console/internal/repository"
	"github.com/d60-Lab/agexport-console/pkg/database"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	// :memory: 下每个连接是独立库，固定单连接避免 worker 看到空库
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return db
}

func newOrderService(t *testing.T, db *gorm.DB, strict bool) OrderService {
	t.Helper()
	return NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewCustomerRepository(db),
		repository.NewOrderEventRepository(db),
		nil, // 测试里同步路径不关心审计
		strict,
	)
}

func sampleCreateInput() *CreateOrderInput {
	return &CreateOrderInput{
		CustomerID: "cust-1",
		Items: []CreateOrderItemInput{
			{ProductID: "p1", Name: "Basmati Rice 25kg", Price: 42.5, Quantity: 2},
			{ProductID: "p2", Name: "Turmeric Powder", Price: "8.75"}, // 数字字符串 + 省略数量
		},
		Shipping:      ShippingAddressInput{Name: "A. Sharma", Street: "1 Dock Rd", City: "Mundra", Country: "IN", Postcode: "370421"},
		PaymentMethod: "wire",
	}
}

func TestCreateOrder_CoercionAndTotal(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(t, db, false)
	ctx := context.Background()

	order, err := svc.Create(ctx, sampleCreateInput())
	require.NoError(t, err)

	assert.Equal(t, model.StatusPending, order.Status)
	assert.Equal(t, "USD", order.Currency)
	// 42.5*2 + 8.75*1（缺省数量补 1）
	assert.InDelta(t, 93.75, order.TotalAmount, 1e-9)
	assert.Equal(t, 1, order.Items[1].Quantity)
}

func TestCreateOrder_Validation(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(t, db, false)
	ctx := context.Background()

	_, err := svc.Create(ctx, &CreateOrderInput{Items: []CreateOrderItemInput{{ProductID: "p1", Price: 1.0}}})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "customer_id", ve.Field)

	_, err = svc.Create(ctx, &CreateOrderInput{CustomerID: "c1"})
	require.ErrorAs(t, err, &ve)

	bad := sampleCreateInput()
	bad.Items[0].Price = "not-a-number"
	_, err = svc.Create(ctx, bad)
	require.ErrorAs(t, err, &ve)
}

func TestSetStatus_TerminalLock(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(t, db, false)
	ctx := context.Background()

	order, err := svc.Create(ctx, sampleCreateInput())
	require.NoError(t, err)

	// Shipped → Delivered 合法
	_, err = svc.SetStatus(ctx, order.ID, model.StatusShipped)
	require.NoError(t, err)
	updated, err := svc.SetStatus(ctx, order.ID, model.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDelivered, updated.Status)

	// 终态后任何目标状态都被拒绝且状态不变
	for _, target := range []model.Status{model.StatusPending, model.StatusConfirmed, model.StatusShipped, model.StatusCancelled} {
		_, err = svc.SetStatus(ctx, order.ID, target)
		assert.ErrorIs(t, err, ErrStateLocked)
	}
	view, err := svc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDelivered, view.Status)
}

func TestSetStatus_CancelledIsLockedToo(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(t, db, false)
	ctx := context.Background()

	order, err := svc.Create(ctx, sampleCreateInput())
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, order.ID, model.StatusCancelled)
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, order.ID, model.StatusConfirmed)
	assert.ErrorIs(t, err, ErrStateLocked)
}

func TestSetStatus_NotFoundDistinctFromLocked(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(t, db, false)

	_, err := svc.SetStatus(context.Background(), "no-such-id", model.StatusConfirmed)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.NotErrorIs(t, err, ErrStateLocked)
}

func TestSetStatus_NonLinearJumpAllowedByDefault(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(t, db, false)
	ctx := context.Background()

	order, err := svc.Create(ctx, sampleCreateInput())
	require.NoError(t, err)

	// 默认策略不限制前向顺序
	updated, err := svc.SetStatus(ctx, order.ID, model.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDelivered, updated.Status)
}

func TestSetStatus_StrictProgression(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(t, db, true)
	ctx := context.Background()

	order, err := svc.Create(ctx, sampleCreateInput())
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, order.ID, model.StatusDelivered)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// 逐级推进合法，任意非终态可取消
	_, err = svc.SetStatus(ctx, order.ID, model.StatusConfirmed)
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, order.ID, model.StatusCancelled)
	require.NoError(t, err)
}

func TestDeleteOrder_IgnoresStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(t, db, false)
	ctx := context.Background()

	order, err := svc.Create(ctx, sampleCreateInput())
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, order.ID, model.StatusDelivered)
	require.NoError(t, err)

	// 删除不做终态保护
	require.NoError(t, svc.Delete(ctx, order.ID))
	_, err = svc.Get(ctx, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestGetOrder_CustomerSnapshotJoin(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&model.Customer{ID: "cust-1", Name: "Asha Traders", Email: "asha@example.com", Contact: "+91-98000"}).Error)
	svc := newOrderService(t, db, false)
	ctx := context.Background()

	order, err := svc.Create(ctx, sampleCreateInput())
	require.NoError(t, err)

	view, err := svc.Get(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, view.Customer)
	assert.Equal(t, "Asha Traders", view.Customer.Name)

	// 客户缺失时订单照常返回，快照为空
	in := sampleCreateInput()
	in.CustomerID = "ghost"
	orphan, err := svc.Create(ctx, in)
	require.NoError(t, err)
	view, err = svc.Get(ctx, orphan.ID)
	require.NoError(t, err)
	assert.Nil(t, view.Customer)
}
