package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/agexport-console/internal/model"
)

// CustomerRepository 客户只读仓储，订单查询时做读时合并
type CustomerRepository interface {
	GetByID(ctx context.Context, id string) (*model.Customer, error)
	// GetByIDs 批量查询，返回 id→customer 映射；缺失的 id 不在结果里
	GetByIDs(ctx context.Context, ids []string) (map[string]*model.Customer, error)
}

type gormCustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &gormCustomerRepository{db: db}
}

func (r *gormCustomerRepository) GetByID(ctx context.Context, id string) (*model.Customer, error) {
	var c model.Customer
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *gormCustomerRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*model.Customer, error) {
	out := make(map[string]*model.Customer, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []*model.Customer
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, c := range rows {
		out[c.ID] = c
	}
	return out, nil
}
