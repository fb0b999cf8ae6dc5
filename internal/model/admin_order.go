package model

import (
	"time"
)

// AdminOrder 后台录入订单（order management）。价格字段由服务端按
// totalAmount = quantity*discountedPrice + shippingCharges + taxAmount(若含税)
// 重新计算，调用方传入的 total 仅作展示输入。
type AdminOrder struct {
	ID              string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CustomerID      string    `json:"customer_id" gorm:"index;type:varchar(36);not null"`
	CustomerName    string    `json:"customer_name"`
	CategoryID      string    `json:"category_id" gorm:"type:varchar(36)"`
	CategoryName    string    `json:"category_name"`
	ProductID       string    `json:"product_id" gorm:"type:varchar(36)"`
	ProductName     string    `json:"product_name"`
	HSCode          string    `json:"hs_code"`
	MOQ             int       `json:"moq"` // 录单时的最小起订量快照
	DiscountedPrice float64   `json:"discounted_price" gorm:"type:decimal(12,2);not null"`
	Quantity        int       `json:"quantity" gorm:"not null"`
	ShippingCharges float64   `json:"shipping_charges" gorm:"type:decimal(12,2)"`
	TaxApplied      bool      `json:"tax_applied"`
	TaxAmount       float64   `json:"tax_amount" gorm:"type:decimal(12,2)"`
	TotalAmount     float64   `json:"total_amount" gorm:"type:decimal(12,2);not null"`
	DeliveryAddress string    `json:"delivery_address"`
	Latitude        *float64  `json:"latitude,omitempty"`
	Longitude       *float64  `json:"longitude,omitempty"`
	Status          Status    `json:"status" gorm:"index;type:varchar(16);not null;default:'Pending'"`
	CreatedAt       time.Time `json:"created_at" gorm:"index;not null"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"not null"`
}

func (AdminOrder) TableName() string {
	return "admin_orders"
}

// ComputeTotal 按定价不变式计算应存储的总额
func (o *AdminOrder) ComputeTotal() float64 {
	total := float64(o.Quantity)*o.DiscountedPrice + o.ShippingCharges
	if o.TaxApplied {
		total += o.TaxAmount
	}
	return total
}
