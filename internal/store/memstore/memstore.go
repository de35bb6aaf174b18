// Package memstore — хранилище в памяти процесса (STORE_DRIVER=memory).
// Используется для локального запуска без базы и в тестах сервисов и обработчиков.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/psds-microservice/repair-service/internal/model"
	"github.com/psds-microservice/repair-service/internal/store"
)

type record[T any] struct {
	seq  uint64
	item T
}

type Store struct {
	mu          sync.RWMutex
	now         func() time.Time
	seq         uint64
	orders      map[string]record[model.Order]
	technicians map[string]record[model.Technician]
	admins      map[string]record[model.Admin]
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return NewWithClock(time.Now)
}

func NewWithClock(now func() time.Time) *Store {
	return &Store{
		now:         now,
		orders:      make(map[string]record[model.Order]),
		technicians: make(map[string]record[model.Technician]),
		admins:      make(map[string]record[model.Admin]),
	}
}

func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close() error             { return nil }

func (s *Store) ValidID(id string) bool {
	return uuid.Validate(id) == nil
}

func (s *Store) nextSeq() uint64 {
	s.seq++
	return s.seq
}

// --- orders ---

func (s *Store) CreateOrder(_ context.Context, o *model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[o.ID]; ok {
		return fmt.Errorf("memstore: duplicate order id %q", o.ID)
	}
	now := s.now()
	o.CreatedAt, o.UpdatedAt = now, now
	s.orders[o.ID] = record[model.Order]{seq: s.nextSeq(), item: *o}
	return nil
}

func (s *Store) GetOrder(_ context.Context, id string) (*model.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	o := r.item
	return &o, nil
}

func (s *Store) ListOrders(_ context.Context, filter store.OrderFilter) ([]model.Order, error) {
	s.mu.RLock()
	rs := make([]record[model.Order], 0, len(s.orders))
	for _, r := range s.orders {
		if filter.Status != "" && r.item.Status != filter.Status {
			continue
		}
		if filter.Technician != "" && r.item.Technician != filter.Technician {
			continue
		}
		rs = append(rs, r)
	}
	s.mu.RUnlock()
	sort.Slice(rs, func(i, j int) bool {
		if !rs[i].item.CreatedAt.Equal(rs[j].item.CreatedAt) {
			return rs[i].item.CreatedAt.After(rs[j].item.CreatedAt)
		}
		return rs[i].seq > rs[j].seq
	})
	out := make([]model.Order, len(rs))
	for i, r := range rs {
		out[i] = r.item
	}
	return out, nil
}

func (s *Store) UpdateOrder(_ context.Context, id string, changes store.Changes) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	o := r.item
	for k, v := range changes {
		if err := applyOrder(&o, k, v); err != nil {
			return nil, err
		}
	}
	o.UpdatedAt = s.now()
	r.item = o
	s.orders[id] = r
	return &o, nil
}

func (s *Store) DeleteOrder(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.orders, id)
	return nil
}

func applyOrder(o *model.Order, key string, v interface{}) error {
	var ok bool
	switch key {
	case "customer_name":
		o.CustomerName, ok = v.(string)
	case "customer_phone":
		o.CustomerPhone, ok = v.(string)
	case "service_type":
		o.ServiceType, ok = v.(string)
	case "price":
		o.Price, ok = v.(*float64)
	case "status":
		o.Status, ok = v.(model.OrderStatus)
	case "description":
		o.Description, ok = v.(string)
	case "failure_reason":
		o.FailureReason, ok = v.(string)
	case "technician":
		o.Technician, ok = v.(string)
	case "scheduled_time":
		o.ScheduledTime, ok = v.(*model.ScheduledTime)
	default:
		return fmt.Errorf("memstore: unknown order field %q", key)
	}
	if !ok {
		return fmt.Errorf("memstore: order field %q: unexpected type %T", key, v)
	}
	return nil
}

// --- technicians ---

func (s *Store) CreateTechnician(_ context.Context, t *model.Technician) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := s.now()
	t.CreatedAt, t.UpdatedAt = now, now
	s.technicians[t.ID] = record[model.Technician]{seq: s.nextSeq(), item: *t}
	return nil
}

func (s *Store) GetTechnician(_ context.Context, id string) (*model.Technician, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.technicians[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	t := r.item
	return &t, nil
}

func (s *Store) ListTechnicians(context.Context) ([]model.Technician, error) {
	s.mu.RLock()
	rs := make([]record[model.Technician], 0, len(s.technicians))
	for _, r := range s.technicians {
		rs = append(rs, r)
	}
	s.mu.RUnlock()
	sort.Slice(rs, func(i, j int) bool {
		if !rs[i].item.CreatedAt.Equal(rs[j].item.CreatedAt) {
			return rs[i].item.CreatedAt.After(rs[j].item.CreatedAt)
		}
		return rs[i].seq > rs[j].seq
	})
	out := make([]model.Technician, len(rs))
	for i, r := range rs {
		out[i] = r.item
	}
	return out, nil
}

func (s *Store) UpdateTechnician(_ context.Context, id string, changes store.Changes) (*model.Technician, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.technicians[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	t := r.item
	for k, v := range changes {
		var ok bool
		switch k {
		case "name":
			t.Name, ok = v.(string)
		case "phone":
			t.Phone, ok = v.(string)
		case "specialty":
			t.Specialty, ok = v.(string)
		case "status":
			t.Status, ok = v.(model.TechnicianStatus)
		default:
			return nil, fmt.Errorf("memstore: unknown technician field %q", k)
		}
		if !ok {
			return nil, fmt.Errorf("memstore: technician field %q: unexpected type %T", k, v)
		}
	}
	t.UpdatedAt = s.now()
	r.item = t
	s.technicians[id] = r
	return &t, nil
}

func (s *Store) DeleteTechnician(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.technicians[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.technicians, id)
	return nil
}

// --- admins ---

func (s *Store) GetAdmin(_ context.Context, id string) (*model.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.admins[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	a := r.item
	return &a, nil
}

func (s *Store) FindOldestAdmin(_ context.Context, filter store.AdminFilter) (*model.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var best *record[model.Admin]
	for _, r := range s.admins {
		if filter.Email != "" && r.item.Email != filter.Email {
			continue
		}
		if filter.Role != "" && r.item.Role != filter.Role {
			continue
		}
		if best == nil || older(r, *best) {
			r := r
			best = &r
		}
	}
	if best == nil {
		return nil, store.ErrNotFound
	}
	a := best.item
	return &a, nil
}

func older(a, b record[model.Admin]) bool {
	if !a.item.CreatedAt.Equal(b.item.CreatedAt) {
		return a.item.CreatedAt.Before(b.item.CreatedAt)
	}
	return a.seq < b.seq
}

func (s *Store) CreateAdmin(_ context.Context, a *model.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := s.now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	s.admins[a.ID] = record[model.Admin]{seq: s.nextSeq(), item: *a}
	return nil
}

func (s *Store) UpdateAdmin(_ context.Context, id string, changes store.Changes) (*model.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.admins[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	a := r.item
	for k, v := range changes {
		var ok bool
		switch k {
		case "email":
			a.Email, ok = v.(string)
		case "password":
			a.Password, ok = v.(string)
		case "name":
			a.Name, ok = v.(string)
		case "phone":
			a.Phone, ok = v.(string)
		case "role":
			a.Role, ok = v.(string)
		case "last_login_at":
			var ts time.Time
			ts, ok = v.(time.Time)
			a.LastLoginAt = &ts
		default:
			return nil, fmt.Errorf("memstore: unknown admin field %q", k)
		}
		if !ok {
			return nil, fmt.Errorf("memstore: admin field %q: unexpected type %T", k, v)
		}
	}
	a.UpdatedAt = s.now()
	r.item = a
	s.admins[id] = r
	return &a, nil
}
