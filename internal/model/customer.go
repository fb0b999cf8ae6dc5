package model

import "time"

// Customer 客户档案；本服务只读，用于订单查询时的快照合并
type Customer struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" gorm:"not null"`
	Email     string    `json:"email" gorm:"index"`
	Contact   string    `json:"contact"`
	CreatedAt time.Time `json:"created_at"`
}

func (Customer) TableName() string {
	return "customers"
}

// CustomerSnapshot 合并进订单响应的客户快照
type CustomerSnapshot struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
}
