package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/agexport-console/config"
	"github.com/d60-Lab/agexport-console/internal/api"
	"github.com/d60-Lab/agexport-console/internal/api/handler"
	"github.com/d60-Lab/agexport-console/internal/exchange"
	"github.com/d60-Lab/agexport-console/internal/model"
	"github.com/d60-Lab/agexport-console/internal/repository"
	"github.com/d60-Lab/agexport-console/internal/service"
	"github.com/d60-Lab/agexport-console/pkg/database"
)

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	orderRepo := repository.NewOrderRepository(db)
	adminRepo := repository.NewAdminOrderRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	eventRepo := repository.NewOrderEventRepository(db)

	orderSvc := service.NewOrderService(orderRepo, customerRepo, eventRepo, nil, false)
	adminSvc := service.NewAdminOrderService(adminRepo, customerRepo, nil, false)
	revenueSvc := service.NewRevenueService(orderRepo, adminRepo)

	// 上游汇率不可用：接口仍须返回兜底汇率
	rates := exchange.NewRateCache(exchange.FetcherFunc(func(ctx context.Context) (float64, error) {
		return 0, errors.New("provider down")
	}), time.Hour, 0.012)

	cfg := &config.Config{}
	cfg.Server.Mode = gin.TestMode
	r := api.NewRouter(cfg, handler.New(orderSvc, adminSvc, revenueSvc, rates))
	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Encoding", "identity")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createTestOrder(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/v1/orders", gin.H{
		"customer_id": "cust-1",
		"items": []gin.H{
			{"product_id": "p1", "name": "Basmati Rice", "price": 42.5, "quantity": 2},
		},
		"payment_method": "wire",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		Data model.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data.ID
}

func TestCreateOrder_MissingFields(t *testing.T) {
	r, _ := setupRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/v1/orders", gin.H{"items": []gin.H{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateOrderStatus_FlowAndLock(t *testing.T) {
	r, _ := setupRouter(t)
	id := createTestOrder(t, r)

	w := doJSON(t, r, http.MethodPut, "/api/v1/orders/"+id, gin.H{"status": "Shipped"})
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodPut, "/api/v1/orders/"+id, gin.H{"status": "Delivered"})
	assert.Equal(t, http.StatusOK, w.Code)

	// 终态后返回 409，且消息可被前端区分
	w = doJSON(t, r, http.MethodPut, "/api/v1/orders/"+id, gin.H{"status": "Pending"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "status locked")
}

func TestUpdateOrderStatus_NotFoundAndInvalid(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodPut, "/api/v1/orders/no-such-id", gin.H{"status": "Confirmed"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	id := createTestOrder(t, r)
	w = doJSON(t, r, http.MethodPut, "/api/v1/orders/"+id, gin.H{"status": "Refunded"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteOrder_Unconditional(t *testing.T) {
	r, _ := setupRouter(t)
	id := createTestOrder(t, r)
	w := doJSON(t, r, http.MethodPut, "/api/v1/orders/"+id, gin.H{"status": "Delivered"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/v1/orders/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodGet, "/api/v1/orders/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminOrderCRUDAndPricing(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/ordermanagement", gin.H{
		"customer_id":      "cust-1",
		"product_name":     "Basmati Rice",
		"discounted_price": 40,
		"quantity":         25,
		"shipping_charges": 150,
		"tax_applied":      true,
		"tax_amount":       50,
		"total_amount":     1, // 服务端重算应覆盖
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		Data model.AdminOrder `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 1200, resp.Data.TotalAmount, 1e-9)

	w = doJSON(t, r, http.MethodPut, "/api/v1/ordermanagement", gin.H{
		"id": resp.Data.ID, "status": "Cancelled",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodPut, "/api/v1/ordermanagement", gin.H{
		"id": resp.Data.ID, "status": "Confirmed",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/v1/ordermanagement", gin.H{"id": resp.Data.ID})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDashboardEndpoints(t *testing.T) {
	r, db := setupRouter(t)
	require.NoError(t, db.Create(&model.AdminOrder{
		ID: "a1", CustomerID: "c1", Quantity: 1, TotalAmount: 1200,
		Status: model.StatusDelivered, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}).Error)

	w := doJSON(t, r, http.MethodGet, "/api/v1/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats struct {
		Data service.DashboardStats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Data.CompletedOrders)
	assert.InDelta(t, 1200, stats.Data.TotalRevenue, 1e-9)

	w = doJSON(t, r, http.MethodGet, "/api/v1/dashboard/charts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var charts struct {
		Data []service.TrendPoint `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &charts))
	assert.Len(t, charts.Data, 7)
}

func TestExchangeRateEndpoint_FallbackOnProviderFailure(t *testing.T) {
	r, _ := setupRouter(t)
	w := doJSON(t, r, http.MethodGet, "/api/v1/exchange-rate", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data exchange.Snapshot `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0.012, resp.Data.Rate)
	assert.Equal(t, "fallback", resp.Data.Source)
}
