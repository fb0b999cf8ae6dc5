package model

import "strings"

// Status 订单状态，两种订单形态共用同一枚举
type Status string

const (
	StatusPending   Status = "Pending"
	StatusConfirmed Status = "Confirmed"
	StatusShipped   Status = "Shipped"
	StatusDelivered Status = "Delivered"
	StatusCancelled Status = "Cancelled"
)

// ParseStatus 大小写不敏感地解析状态；未知状态返回 false
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return StatusPending, true
	case "confirmed":
		return StatusConfirmed, true
	case "shipped":
		return StatusShipped, true
	case "delivered":
		return StatusDelivered, true
	case "cancelled":
		return StatusCancelled, true
	}
	return "", false
}

// IsTerminal 终态判断：Delivered / Cancelled 之后不允许再变更
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// TerminalStatuses 用于存储层的条件更新
func TerminalStatuses() []Status {
	return []Status{StatusDelivered, StatusCancelled}
}

// Bucket 报表统计桶
type Bucket int

const (
	BucketCompleted Bucket = iota
	BucketCancelled
	BucketOngoing
	BucketUpcoming
	BucketUnknown
)

// ClassifyStatus 把任意来源的状态串归入统计桶；历史数据可能带有
// Processing 等本服务不会写入的值，一并按进行中处理。
func ClassifyStatus(raw string) Bucket {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "delivered":
		return BucketCompleted
	case "cancelled":
		return BucketCancelled
	case "shipped", "confirmed", "processing":
		return BucketOngoing
	case "pending":
		return BucketUpcoming
	}
	return BucketUnknown
}
