package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/agexport-console/internal/model"
	"github.com/d60-Lab/agexport-console/internal/repository"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrStateLocked       = errors.New("order status locked")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError 创建/更新时的字段级校验错误
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// CreateOrderItemInput 行项目输入；Price 接受数字或数字字符串，
// 服务端做防御性类型转换
type CreateOrderItemInput struct {
	ProductID string      `json:"product_id"`
	Name      string      `json:"name"`
	Image     string      `json:"image"`
	Variant   string      `json:"variant"`
	Price     interface{} `json:"price"`
	Quantity  int         `json:"quantity"`
}

type ShippingAddressInput struct {
	Name     string `json:"name"`
	Street   string `json:"street"`
	City     string `json:"city"`
	Country  string `json:"country"`
	Postcode string `json:"postcode"`
}

type CreateOrderInput struct {
	CustomerID    string                 `json:"customer_id"`
	Items         []CreateOrderItemInput `json:"items"`
	Shipping      ShippingAddressInput   `json:"shipping"`
	PaymentMethod string                 `json:"payment_method"`
	PaymentRef    string                 `json:"payment_ref"`
	Currency      string                 `json:"currency"`
}

// OrderView 订单 + 读时合并的客户快照
type OrderView struct {
	*model.Order
	Customer *model.CustomerSnapshot `json:"customer,omitempty"`
}

// OrderService 自助订单生命周期服务
type OrderService interface {
	Create(ctx context.Context, in *CreateOrderInput) (*model.Order, error)
	Get(ctx context.Context, id string) (*OrderView, error)
	List(ctx context.Context, limit int) ([]*OrderView, error)
	SetStatus(ctx context.Context, id string, target model.Status) (*model.Order, error)
	Delete(ctx context.Context, id string) error
	ListEvents(ctx context.Context, id string) ([]*model.OrderEvent, error)
}

type orderService struct {
	orders    repository.OrderRepository
	customers repository.CustomerRepository
	events    repository.OrderEventRepository
	auditor   *StatusAuditor
	strict    bool
}

func NewOrderService(orders repository.OrderRepository, customers repository.CustomerRepository, events repository.OrderEventRepository, auditor *StatusAuditor, strictProgression bool) OrderService {
	return &orderService{orders: orders, customers: customers, events: events, auditor: auditor, strict: strictProgression}
}

// coerceAmount 把调用方传来的价格转成 float64；支持 JSON 数字与数字字符串
func coerceAmount(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

func (s *orderService) Create(ctx context.Context, in *CreateOrderInput) (*model.Order, error) {
	if in.CustomerID == "" {
		return nil, &ValidationError{Field: "customer_id", Msg: "required"}
	}
	if len(in.Items) == 0 {
		return nil, &ValidationError{Field: "items", Msg: "at least one item required"}
	}

	currency := in.Currency
	if currency == "" {
		currency = "USD"
	}

	var total float64
	items := make([]model.OrderItem, 0, len(in.Items))
	for i, it := range in.Items {
		if it.ProductID == "" {
			return nil, &ValidationError{Field: fmt.Sprintf("items[%d].product_id", i), Msg: "required"}
		}
		price, ok := coerceAmount(it.Price)
		if !ok || price < 0 {
			return nil, &ValidationError{Field: fmt.Sprintf("items[%d].price", i), Msg: "must be a non-negative number"}
		}
		qty := it.Quantity
		if qty <= 0 {
			qty = 1
		}
		total += price * float64(qty)
		items = append(items, model.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Image:     it.Image,
			Variant:   it.Variant,
			Price:     price,
			Quantity:  qty,
		})
	}

	now := time.Now()
	order := &model.Order{
		ID:            uuid.New().String(),
		CustomerID:    in.CustomerID,
		Items:         items,
		TotalAmount:   total,
		Status:        model.StatusPending,
		ShipName:      in.Shipping.Name,
		ShipStreet:    in.Shipping.Street,
		ShipCity:      in.Shipping.City,
		ShipCountry:   in.Shipping.Country,
		ShipPostcode:  in.Shipping.Postcode,
		PaymentMethod: in.PaymentMethod,
		PaymentStatus: "Unpaid",
		PaymentRef:    in.PaymentRef,
		Currency:      currency,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) Get(ctx context.Context, id string) (*OrderView, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	views, err := s.attachCustomers(ctx, []*model.Order{order})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *orderService) List(ctx context.Context, limit int) ([]*OrderView, error) {
	orders, err := s.orders.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	return s.attachCustomers(ctx, orders)
}

// attachCustomers 读时合并客户快照，客户缺失时订单照常返回
func (s *orderService) attachCustomers(ctx context.Context, orders []*model.Order) ([]*OrderView, error) {
	ids := make([]string, 0, len(orders))
	seen := make(map[string]struct{}, len(orders))
	for _, o := range orders {
		if _, ok := seen[o.CustomerID]; !ok {
			seen[o.CustomerID] = struct{}{}
			ids = append(ids, o.CustomerID)
		}
	}
	customers, err := s.customers.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	views := make([]*OrderView, len(orders))
	for i, o := range orders {
		v := &OrderView{Order: o}
		if c, ok := customers[o.CustomerID]; ok {
			v.Customer = &model.CustomerSnapshot{ID: c.ID, Name: c.Name, Email: c.Email, Contact: c.Contact}
		}
		views[i] = v
	}
	return views, nil
}

// forwardSteps 严格推进模式下允许的下一个前向状态
var forwardSteps = map[model.Status]model.Status{
	model.StatusPending:   model.StatusConfirmed,
	model.StatusConfirmed: model.StatusShipped,
	model.StatusShipped:   model.StatusDelivered,
}

func validateTransition(current, target model.Status, strict bool) error {
	if current.IsTerminal() {
		return ErrStateLocked
	}
	if !strict || target == model.StatusCancelled {
		return nil
	}
	if forwardSteps[current] != target {
		return ErrInvalidTransition
	}
	return nil
}

func (s *orderService) SetStatus(ctx context.Context, id string, target model.Status) (*model.Order, error) {
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

	// 条件更新兜底并发：终态行不会被命中
	rows, err := s.orders.UpdateStatus(ctx, id, target)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrStateLocked
	}

	if s.auditor != nil {
		s.auditor.Enqueue(id, model.EventSourceOrder, current.Status, target)
	}
	current.Status = target
	return current, nil
}

func (s *orderService) Delete(ctx context.Context, id string) error {
	// 删除不做终态保护
	return s.orders.Delete(ctx, id)
}

func (s *orderService) ListEvents(ctx context.Context, id string) ([]*model.OrderEvent, error) {
	return s.events.ListByOrderID(ctx, id)
}
