package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/agexport-console/internal/model"
	"github.com/d60-Lab/agexport-console/internal/repository"
	"github.com/d60-Lab/agexport-console/internal/service"
	"github.com/d60-Lab/agexport-console/pkg/database"
)

func must[T any](v T, err error) T { if err != nil { panic(err) }; return v }

var statuses = []model.Status{
	model.StatusPending, model.StatusConfirmed, model.StatusShipped,
	model.StatusDelivered, model.StatusCancelled,
}

func main() {
	db := must(gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}))
	if err := database.Migrate(db); err != nil {
		panic(err)
	}

	N := 50000
	if s := os.Getenv("N"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 { N = n }
	}
	ROUNDS := 50
	if s := os.Getenv("ROUNDS"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 { ROUNDS = n }
	}

	// seed: 两个集合各一半，时间散布在最近 10 天
	now := time.Now()
	batch := make([]*model.Order, 0, 1000)
	for i := 0; i < N/2; i++ {
		batch = append(batch, &model.Order{
			ID:          uuid.New().String(),
			CustomerID:  fmt.Sprintf("c%04d", rand.Intn(500)),
			TotalAmount: float64(rand.Intn(5000)) + 0.5,
			Status:      statuses[rand.Intn(len(statuses))],
			Currency:    "USD",
			CreatedAt:   now.Add(-time.Duration(rand.Intn(10*24)) * time.Hour),
			UpdatedAt:   now,
		})
		if len(batch) == 1000 {
			_ = db.Create(&batch).Error
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		_ = db.Create(&batch).Error
	}
	adminBatch := make([]*model.AdminOrder, 0, 1000)
	for i := 0; i < N/2; i++ {
		qty := rand.Intn(50) + 1
		price := float64(rand.Intn(200)) + 0.5
		o := &model.AdminOrder{
			ID:              uuid.New().String(),
			CustomerID:      fmt.Sprintf("c%04d", rand.Intn(500)),
			DiscountedPrice: price,
			Quantity:        qty,
			ShippingCharges: float64(rand.Intn(100)),
			Status:          statuses[rand.Intn(len(statuses))],
			CreatedAt:       now.Add(-time.Duration(rand.Intn(10*24)) * time.Hour),
			UpdatedAt:       now,
		}
		o.TotalAmount = o.ComputeTotal()
		adminBatch = append(adminBatch, o)
		if len(adminBatch) == 1000 {
			_ = db.Create(&adminBatch).Error
			adminBatch = adminBatch[:0]
		}
	}
	if len(adminBatch) > 0 {
		_ = db.Create(&adminBatch).Error
	}

	svc := service.NewRevenueService(repository.NewOrderRepository(db), repository.NewAdminOrderRepository(db))
	ctx := context.Background()

	statsLat := make([]time.Duration, 0, ROUNDS)
	chartLat := make([]time.Duration, 0, ROUNDS)
	for i := 0; i < ROUNDS; i++ {
		t0 := time.Now()
		_ = must(svc.Stats(ctx))
		statsLat = append(statsLat, time.Since(t0))

		t1 := time.Now()
		_ = must(svc.ChartSeries(ctx))
		chartLat = append(chartLat, time.Since(t1))
	}

	report := func(name string, lat []time.Duration) {
		sort.Slice(lat, func(i, j int) bool { return lat[i] < lat[j] })
		var total time.Duration
		for _, d := range lat { total += d }
		fmt.Printf("%s rounds=%d rows=%d avg=%v p50=%v p99=%v\n",
			name, len(lat), N, total/time.Duration(len(lat)),
			lat[len(lat)/2], lat[len(lat)*99/100])
	}
	report("stats", statsLat)
	report("charts", chartLat)
}
