package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/agexport-console/internal/model"
	"github.com/d60-Lab/agexport-console/internal/repository"
)

// AdminOrderInput 后台录单输入；TotalAmount 即便传入也会被服务端重算覆盖
type AdminOrderInput struct {
	ID              string   `json:"id"`
	CustomerID      string   `json:"customer_id"`
	CategoryID      string   `json:"category_id"`
	CategoryName    string   `json:"category_name"`
	ProductID       string   `json:"product_id"`
	ProductName     string   `json:"product_name"`
	HSCode          string   `json:"hs_code"`
	MOQ             int      `json:"moq"`
	DiscountedPrice float64  `json:"discounted_price"`
	Quantity        int      `json:"quantity"`
	ShippingCharges float64  `json:"shipping_charges"`
	TaxApplied      bool     `json:"tax_applied"`
	TaxAmount       float64  `json:"tax_amount"`
	TotalAmount     float64  `json:"total_amount"`
	DeliveryAddress string   `json:"delivery_address"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
}

// AdminOrderService 后台订单服务
type AdminOrderService interface {
	Create(ctx context.Context, in *AdminOrderInput) (*model.AdminOrder, error)
	Update(ctx context.Context, in *AdminOrderInput) (*model.AdminOrder, error)
	Get(ctx context.Context, id string) (*model.AdminOrder, error)
	List(ctx context.Context, limit int) ([]*model.AdminOrder, error)
	SetStatus(ctx context.Context, id string, target model.Status) (*model.AdminOrder, error)
	Delete(ctx context.Context, id string) error
}

type adminOrderService struct {
	orders    repository.AdminOrderRepository
	customers repository.CustomerRepository
	auditor   *StatusAuditor
	strict    bool
}

func NewAdminOrderService(orders repository.AdminOrderRepository, customers repository.CustomerRepository, auditor *StatusAuditor, strictProgression bool) AdminOrderService {
	return &adminOrderService{orders: orders, customers: customers, auditor: auditor, strict: strictProgression}
}

func (s *adminOrderService) validate(in *AdminOrderInput) error {
	if in.CustomerID == "" {
		return &ValidationError{Field: "customer_id", Msg: "required"}
	}
	if in.Quantity <= 0 {
		return &ValidationError{Field: "quantity", Msg: "must be positive"}
	}
	if in.DiscountedPrice < 0 {
		return &ValidationError{Field: "discounted_price", Msg: "must be non-negative"}
	}
	if in.ShippingCharges < 0 {
		return &ValidationError{Field: "shipping_charges", Msg: "must be non-negative"}
	}
	if in.TaxApplied && in.TaxAmount < 0 {
		return &ValidationError{Field: "tax_amount", Msg: "must be non-negative"}
	}
	return nil
}

func (s *adminOrderService) apply(order *model.AdminOrder, in *AdminOrderInput) {
	order.CustomerID = in.CustomerID
	order.CategoryID = in.CategoryID
	order.CategoryName = in.CategoryName
	order.ProductID = in.ProductID
	order.ProductName = in.ProductName
	order.HSCode = in.HSCode
	order.MOQ = in.MOQ
	order.DiscountedPrice = in.DiscountedPrice
	order.Quantity = in.Quantity
	order.ShippingCharges = in.ShippingCharges
	order.TaxApplied = in.TaxApplied
	order.TaxAmount = in.TaxAmount
	if !in.TaxApplied {
		order.TaxAmount = 0
	}
	order.DeliveryAddress = in.DeliveryAddress
	order.Latitude = in.Latitude
	order.Longitude = in.Longitude
	// 不信任调用方的 total，按不变式重算
	order.TotalAmount = order.ComputeTotal()
}

func (s *adminOrderService) Create(ctx context.Context, in *AdminOrderInput) (*model.AdminOrder, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	order := &model.AdminOrder{
		ID:        uuid.New().String(),
		Status:    model.StatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	s.apply(order, in)
	if c, err := s.customers.GetByID(ctx, in.CustomerID); err == nil {
		order.CustomerName = c.Name
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *adminOrderService) Update(ctx context.Context, in *AdminOrderInput) (*model.AdminOrder, error) {
	if in.ID == "" {
		return nil, &ValidationError{Field: "id", Msg: "required"}
	}
	if err := s.validate(in); err != nil {
		return nil, err
	}
	order, err := s.orders.GetByID(ctx, in.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	s.apply(order, in)
	if c, err := s.customers.GetByID(ctx, in.CustomerID); err == nil {
		order.CustomerName = c.Name
	}
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *adminOrderService) Get(ctx context.Context, id string) (*model.AdminOrder, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *adminOrderService) List(ctx context.Context, limit int) ([]*model.AdminOrder, error) {
	return s.orders.List(ctx, limit)
}

func (s *adminOrderService) SetStatus(ctx context.Context, id string, target model.Status) (*model.AdminOrder, error) {
	current, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if err := validateTransition(current.Status, target, s.strict); err != nil {
		return nil, err
	}
	rows, err := s.orders.UpdateStatus(ctx, id, target)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrStateLocked
	}
	if s.auditor != nil {
		s.auditor.Enqueue(id, model.EventSourceAdminOrder, current.Status, target)
	}
	current.Status = target
	return current, nil
}

func (s *adminOrderService) Delete(ctx context.Context, id string) error {
	return s.orders.Delete(ctx, id)
}
