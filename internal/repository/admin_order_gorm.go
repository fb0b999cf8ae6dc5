package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/agexport-console/internal/model"
)

// GormAdminOrderRepository 后台订单仓储实现
type GormAdminOrderRepository struct {
	db *gorm.DB
}

func NewAdminOrderRepository(db *gorm.DB) AdminOrderRepository {
	return &GormAdminOrderRepository{db: db}
}

func (r *GormAdminOrderRepository) Create(ctx context.Context, order *model.AdminOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *GormAdminOrderRepository) GetByID(ctx context.Context, id string) (*model.AdminOrder, error) {
	var order model.AdminOrder
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormAdminOrderRepository) List(ctx context.Context, limit int) ([]*model.AdminOrder, error) {
	var orders []*model.AdminOrder
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormAdminOrderRepository) Update(ctx context.Context, order *model.AdminOrder) error {
	return r.db.WithContext(ctx).
		Model(&model.AdminOrder{}).
		Where("id = ?", order.ID).
		Updates(map[string]any{
			"customer_id":      order.CustomerID,
			"customer_name":    order.CustomerName,
			"category_id":      order.CategoryID,
			"category_name":    order.CategoryName,
			"product_id":       order.ProductID,
			"product_name":     order.ProductName,
			"hs_code":          order.HSCode,
			"moq":              order.MOQ,
			"discounted_price": order.DiscountedPrice,
			"quantity":         order.Quantity,
			"shipping_charges": order.ShippingCharges,
			"tax_applied":      order.TaxApplied,
			"tax_amount":       order.TaxAmount,
			"total_amount":     order.TotalAmount,
			"delivery_address": order.DeliveryAddress,
			"latitude":         order.Latitude,
			"longitude":        order.Longitude,
		}).Error
}

func (r *GormAdminOrderRepository) UpdateStatus(ctx context.Context, id string, status model.Status) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.AdminOrder{}).
		Where("id = ? AND status NOT IN ?", id, model.TerminalStatuses()).
		Update("status", status)
	return res.RowsAffected, res.Error
}

func (r *GormAdminOrderRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.AdminOrder{}).Error
}

func (r *GormAdminOrderRepository) ListAll(ctx context.Context) ([]*model.AdminOrder, error) {
	var orders []*model.AdminOrder
	if err := r.db.WithContext(ctx).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
