package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/psds-microservice/repair-service/internal/errs"
	"github.com/psds-microservice/repair-service/internal/kafka"
	"github.com/psds-microservice/repair-service/internal/model"
	"github.com/psds-microservice/repair-service/internal/orderid"
	"github.com/psds-microservice/repair-service/internal/store"
	"go.uber.org/zap"
)

const (
	EventOrderCreated = "order.created"
	EventOrderUpdated = "order.updated"
	EventOrderDeleted = "order.deleted"
)

// OrderStats — сводка по заказам. Выручка: ready -> completed, waiting -> pending.
type OrderStats struct {
	Total            int     `json:"total"`
	Waiting          int     `json:"waiting"`
	Ready            int     `json:"ready"`
	Failed           int     `json:"failed"`
	CompletedRevenue float64 `json:"completed_revenue"`
	PendingRevenue   float64 `json:"pending_revenue"`
}

type OrderService struct {
	store  store.OrderStore
	ids    *orderid.Generator
	events kafka.OrderEventProducer
	log    *zap.Logger
	wg     sync.WaitGroup
}

// NewOrderService: events может быть nil, тогда события не отправляются.
func NewOrderService(st store.OrderStore, ids *orderid.Generator, events kafka.OrderEventProducer, log *zap.Logger) *OrderService {
	return &OrderService{store: st, ids: ids, events: events, log: log}
}

// Create присваивает заказу номер и сохраняет его. Номер не проверяется
// на уникальность: при совпадении вставку отклонит хранилище.
func (s *OrderService) Create(ctx context.Context, o *model.Order) error {
	if o.Status == "" {
		o.Status = model.OrderStatusWaiting
	}
	if !o.Status.Valid() {
		return fmt.Errorf("%w: invalid status %q", errs.ErrInvalidInput, o.Status)
	}
	id, err := s.ids.Next(o.CustomerPhone)
	if err != nil {
		return err
	}
	o.ID = id
	if err := s.store.CreateOrder(ctx, o); err != nil {
		return err
	}
	s.log.Info("order created", zap.String("order_id", o.ID), zap.String("status", string(o.Status)))
	s.publish(EventOrderCreated, o)
	return nil
}

func (s *OrderService) GetByID(ctx context.Context, id string) (*model.Order, error) {
	o, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, orderErr(err)
	}
	return o, nil
}

// List возвращает заказы от новых к старым.
func (s *OrderService) List(ctx context.Context, filter store.OrderFilter) ([]model.Order, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: invalid status %q", errs.ErrInvalidInput, filter.Status)
	}
	return s.store.ListOrders(ctx, filter)
}

// Update применяет частичные изменения. Номер заказа не меняется.
func (s *OrderService) Update(ctx context.Context, id string, changes store.Changes) (*model.Order, error) {
	if len(changes) == 0 {
		return nil, fmt.Errorf("%w: no changes", errs.ErrInvalidInput)
	}
	if _, ok := changes["id"]; ok {
		return nil, fmt.Errorf("%w: order id is immutable", errs.ErrInvalidInput)
	}
	if st, ok := changes["status"].(model.OrderStatus); ok && !st.Valid() {
		return nil, fmt.Errorf("%w: invalid status %q", errs.ErrInvalidInput, st)
	}
	o, err := s.store.UpdateOrder(ctx, id, changes)
	if err != nil {
		return nil, orderErr(err)
	}
	s.publish(EventOrderUpdated, o)
	return o, nil
}

func (s *OrderService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteOrder(ctx, id); err != nil {
		return orderErr(err)
	}
	s.log.Info("order deleted", zap.String("order_id", id))
	s.publish(EventOrderDeleted, &model.Order{ID: id})
	return nil
}

func (s *OrderService) Stats(ctx context.Context) (*OrderStats, error) {
	orders, err := s.store.ListOrders(ctx, store.OrderFilter{})
	if err != nil {
		return nil, err
	}
	var st OrderStats
	for i := range orders {
		o := &orders[i]
		st.Total++
		switch o.Status {
		case model.OrderStatusWaiting:
			st.Waiting++
			st.PendingRevenue += o.PriceOrZero()
		case model.OrderStatusReady:
			st.Ready++
			st.CompletedRevenue += o.PriceOrZero()
		case model.OrderStatusFailed:
			st.Failed++
		}
	}
	return &st, nil
}

func orderErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return errs.ErrOrderNotFound
	}
	return err
}

func orderEventPayload(o *model.Order) map[string]interface{} {
	p := map[string]interface{}{"order_id": o.ID}
	if o.CustomerPhone == "" {
		return p
	}
	p["customer_name"] = o.CustomerName
	p["customer_phone"] = o.CustomerPhone
	p["service_type"] = o.ServiceType
	p["status"] = string(o.Status)
	p["technician"] = o.Technician
	p["price"] = o.PriceOrZero()
	return p
}

// publish: событие должно уйти даже при отмене запроса, но с таймаутом.
func (s *OrderService) publish(event string, o *model.Order) {
	if s.events == nil {
		return
	}
	payload := orderEventPayload(o)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.events.ProduceOrderEvent(ctx, event, payload)
	}()
}

// WaitEvents ждёт отправки событий, начатых до вызова. Вызывается перед
// закрытием продюсера.
func (s *OrderService) WaitEvents() {
	s.wg.Wait()
}
