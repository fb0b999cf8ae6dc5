package model

import "time"

// 事件来源：自助订单 / 后台订单
const (
	EventSourceOrder      = "order"
	EventSourceAdminOrder = "order_management"
)

// OrderEvent 状态流转审计记录，由异步 worker 落库
type OrderEvent struct {
	ID         uint      `json:"-" gorm:"primaryKey;autoIncrement"`
	OrderID    string    `json:"order_id" gorm:"index;type:varchar(36);not null"`
	Source     string    `json:"source" gorm:"type:varchar(24);not null"`
	FromStatus Status    `json:"from_status" gorm:"type:varchar(16)"`
	ToStatus   Status    `json:"to_status" gorm:"type:varchar(16);not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"index;not null"`
}

func (OrderEvent) TableName() string {
	return "order_events"
}
