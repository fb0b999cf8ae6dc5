package service

import (
	"context"
	"math"
	"time"

	"github.com/d60-Lab/agexport-console/internal/model"
	"github.com/d60-Lab/agexport-console/internal/repository"
)

// reportLocation 报表统计统一使用业务本地时区（UTC+5:30）；
// 窗口边界和按行分桶必须使用同一时区
var reportLocation = time.FixedZone("IST", 5*3600+30*60)

// DashboardStats 即时 KPI，两个订单集合各自统计后相加
type DashboardStats struct {
	TotalOrders       int     `json:"total_orders"`
	TodayOrders       int     `json:"today_orders"`
	CompletedOrders   int     `json:"completed_orders"`
	CancelledOrders   int     `json:"cancelled_orders"`
	OngoingOrders     int     `json:"ongoing_orders"`
	UpcomingOrders    int     `json:"upcoming_orders"`
	TotalRevenue      float64 `json:"total_revenue"`
	TodayRevenue      float64 `json:"today_revenue"`
	AverageOrderValue float64 `json:"average_order_value"`
}

// TrendPoint 7 日趋势中的一天
type TrendPoint struct {
	Day        string  `json:"day"`
	Revenue    float64 `json:"revenue"`
	OrderCount int     `json:"order_count"`
}

// revenueRow 两种订单形态归一化后的公共形状
type revenueRow struct {
	createdAt time.Time
	bucket    model.Bucket
	amount    float64
}

// RevenueService 营收聚合引擎；每次调用重读两个订单集合，不做跨请求缓存
type RevenueService interface {
	Stats(ctx context.Context) (*DashboardStats, error)
	ChartSeries(ctx context.Context) ([]TrendPoint, error)
}

type revenueService struct {
	orders      repository.OrderRepository
	adminOrders repository.AdminOrderRepository
	now         func() time.Time
}

func NewRevenueService(orders repository.OrderRepository, adminOrders repository.AdminOrderRepository) RevenueService {
	return &revenueService{orders: orders, adminOrders: adminOrders, now: time.Now}
}

// NewRevenueServiceWithClock 测试用，注入固定时钟
func NewRevenueServiceWithClock(orders repository.OrderRepository, adminOrders repository.AdminOrderRepository, now func() time.Time) RevenueService {
	return &revenueService{orders: orders, adminOrders: adminOrders, now: now}
}

// loadRows 扫描两个订单集合并归一化
func (s *revenueService) loadRows(ctx context.Context) ([]revenueRow, error) {
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	adminOrders, err := s.adminOrders.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]revenueRow, 0, len(orders)+len(adminOrders))
	for _, o := range orders {
		rows = append(rows, revenueRow{
			createdAt: o.CreatedAt,
			bucket:    model.ClassifyStatus(string(o.Status)),
			amount:    o.TotalAmount,
		})
	}
	for _, o := range adminOrders {
		rows = append(rows, revenueRow{
			createdAt: o.CreatedAt,
			bucket:    model.ClassifyStatus(string(o.Status)),
			amount:    o.TotalAmount,
		})
	}
	return rows, nil
}

// startOfLocalDay 把时刻对齐到本地日零点
func startOfLocalDay(t time.Time) time.Time {
	local := t.In(reportLocation)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, reportLocation)
}

func (s *revenueService) Stats(ctx context.Context) (*DashboardStats, error) {
	rows, err := s.loadRows(ctx)
	if err != nil {
		return nil, err
	}

	todayStart := startOfLocalDay(s.now())
	todayEnd := todayStart.Add(24 * time.Hour)

	stats := &DashboardStats{}
	for _, row := range rows {
		stats.TotalOrders++
		local := row.createdAt.In(reportLocation)
		today := !local.Before(todayStart) && local.Before(todayEnd)
		if today {
			stats.TodayOrders++
		}
		switch row.bucket {
		case model.BucketCompleted:
			stats.CompletedOrders++
			stats.TotalRevenue += row.amount
			if today {
				stats.TodayRevenue += row.amount
			}
		case model.BucketCancelled:
			stats.CancelledOrders++
		case model.BucketOngoing:
			stats.OngoingOrders++
		case model.BucketUpcoming:
			stats.UpcomingOrders++
		}
	}
	if stats.CompletedOrders > 0 {
		stats.AverageOrderValue = math.Round(stats.TotalRevenue / float64(stats.CompletedOrders))
	}
	return stats, nil
}

func (s *revenueService) ChartSeries(ctx context.Context) ([]TrendPoint, error) {
	rows, err := s.loadRows(ctx)
	if err != nil {
		return nil, err
	}

	// 窗口：截至今天（含）的 7 个本地自然日，零填充
	todayStart := startOfLocalDay(s.now())
	windowStart := todayStart.AddDate(0, 0, -6)

	series := make([]TrendPoint, 7)
	index := make(map[string]int, 7)
	for i := 0; i < 7; i++ {
		day := windowStart.AddDate(0, 0, i)
		series[i] = TrendPoint{Day: day.Format("Mon")}
		index[day.Format("2006-01-02")] = i
	}

	for _, row := range rows {
		day := startOfLocalDay(row.createdAt)
		i, ok := index[day.Format("2006-01-02")]
		if !ok {
			continue
		}
		series[i].OrderCount++
		if row.bucket == model.BucketCompleted {
			series[i].Revenue += row.amount
		}
	}
	return series, nil
}
