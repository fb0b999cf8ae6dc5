package repository

import (
	"context"

	"github.com/d60-Lab/agexport-console/internal/model"
)

// OrderRepository 自助订单仓储接口
type OrderRepository interface {
	// Create 创建订单（含行项目）
	Create(ctx context.Context, order *model.Order) error

	// GetByID 根据订单ID查询订单
	GetByID(ctx context.Context, id string) (*model.Order, error)

	// List 按创建时间倒序查询订单列表
	List(ctx context.Context, limit int) ([]*model.Order, error)

	// UpdateStatus 条件更新状态：仅当当前状态不是终态时生效，
	// 返回受影响行数（0 表示订单不存在或已锁定）
	UpdateStatus(ctx context.Context, id string, status model.Status) (int64, error)

	// Delete 无条件删除订单
	Delete(ctx context.Context, id string) error

	// ListAll 全量读取，供聚合引擎每次请求时重扫
	ListAll(ctx context.Context) ([]*model.Order, error)
}

// AdminOrderRepository 后台订单仓储接口
type AdminOrderRepository interface {
	Create(ctx context.Context, order *model.AdminOrder) error
	GetByID(ctx context.Context, id string) (*model.AdminOrder, error)
	List(ctx context.Context, limit int) ([]*model.AdminOrder, error)

	// Update 覆盖可编辑字段（定价字段由服务层重算后传入）
	Update(ctx context.Context, order *model.AdminOrder) error

	// UpdateStatus 语义同 OrderRepository.UpdateStatus
	UpdateStatus(ctx context.Context, id string, status model.Status) (int64, error)

	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]*model.AdminOrder, error)
}
