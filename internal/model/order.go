package model

import (
	"time"
)

// Order 自助下单订单
type Order struct {
	ID            string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CustomerID    string      `json:"customer_id" gorm:"index;type:varchar(36);not null"`
	Items         []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalAmount   float64     `json:"total_amount" gorm:"type:decimal(12,2);not null"`
	Status        Status      `json:"status" gorm:"index;type:varchar(16);not null;default:'Pending'"`
	ShipName      string      `json:"ship_name"`
	ShipStreet    string      `json:"ship_street"`
	ShipCity      string      `json:"ship_city"`
	ShipCountry   string      `json:"ship_country"`
	ShipPostcode  string      `json:"ship_postcode"`
	PaymentMethod string      `json:"payment_method"`
	PaymentStatus string      `json:"payment_status"`
	PaymentRef    string      `json:"payment_ref,omitempty"`
	Currency      string      `json:"currency" gorm:"type:varchar(8);not null;default:'USD'"`
	CreatedAt     time.Time   `json:"created_at" gorm:"index;not null"`
	UpdatedAt     time.Time   `json:"updated_at" gorm:"not null"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem 订单行项目；单价与订单声明的货币一致，单内不混币种
type OrderItem struct {
	ID        uint    `json:"-" gorm:"primaryKey;autoIncrement"`
	OrderID   string  `json:"-" gorm:"index;type:varchar(36);not null"`
	ProductID string  `json:"product_id" gorm:"type:varchar(36);not null"`
	Name      string  `json:"name"`
	Image     string  `json:"image,omitempty"`
	Variant   string  `json:"variant,omitempty"`
	Price     float64 `json:"price" gorm:"type:decimal(12,2);not null"`
	Quantity  int     `json:"quantity" gorm:"not null;default:1"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
