package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/agexport-console/internal/model"
)

// OrderEventRepository 状态流转审计仓储
type OrderEventRepository interface {
	Create(ctx context.Context, event *model.OrderEvent) error
	ListByOrderID(ctx context.Context, orderID string) ([]*model.OrderEvent, error)
}

type gormOrderEventRepository struct {
	db *gorm.DB
}

func NewOrderEventRepository(db *gorm.DB) OrderEventRepository {
	return &gormOrderEventRepository{db: db}
}

func (r *gormOrderEventRepository) Create(ctx context.Context, event *model.OrderEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *gormOrderEventRepository) ListByOrderID(ctx context.Context, orderID string) ([]*model.OrderEvent, error) {
	var events []*model.OrderEvent
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
