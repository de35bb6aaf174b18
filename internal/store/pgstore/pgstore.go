// Package pgstore — реализация store поверх gorm и postgres.
package pgstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/psds-microservice/repair-service/internal/model"
	"github.com/psds-microservice/repair-service/internal/store"
	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return err
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) ValidID(id string) bool {
	return uuid.Validate(id) == nil
}

func (s *Store) CreateOrder(ctx context.Context, o *model.Order) error {
	return s.db.WithContext(ctx).Create(o).Error
}

func (s *Store) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	var o model.Order
	if err := s.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

func (s *Store) ListOrders(ctx context.Context, filter store.OrderFilter) ([]model.Order, error) {
	var items []model.Order
	tx := s.db.WithContext(ctx).Model(&model.Order{})
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	if filter.Technician != "" {
		tx = tx.Where("technician = ?", filter.Technician)
	}
	if err := tx.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) UpdateOrder(ctx context.Context, id string, changes store.Changes) (*model.Order, error) {
	var o model.Order
	if err := s.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	if err := s.db.WithContext(ctx).Model(&o).Updates(map[string]interface{}(changes)).Error; err != nil {
		return nil, err
	}
	// Updates с map не обновляет все поля структуры, перечитываем.
	return s.GetOrder(ctx, id)
}

func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&model.Order{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) CreateTechnician(ctx context.Context, t *model.Technician) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Create(t).Error
}

func (s *Store) GetTechnician(ctx context.Context, id string) (*model.Technician, error) {
	var t model.Technician
	if err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (s *Store) ListTechnicians(ctx context.Context) ([]model.Technician, error) {
	var items []model.Technician
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) UpdateTechnician(ctx context.Context, id string, changes store.Changes) (*model.Technician, error) {
	var t model.Technician
	if err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	if err := s.db.WithContext(ctx).Model(&t).Updates(map[string]interface{}(changes)).Error; err != nil {
		return nil, err
	}
	return s.GetTechnician(ctx, id)
}

func (s *Store) DeleteTechnician(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&model.Technician{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) GetAdmin(ctx context.Context, id string) (*model.Admin, error) {
	var a model.Admin
	if err := s.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (s *Store) FindOldestAdmin(ctx context.Context, filter store.AdminFilter) (*model.Admin, error) {
	var a model.Admin
	tx := s.db.WithContext(ctx).Model(&model.Admin{})
	if filter.Email != "" {
		tx = tx.Where("email = ?", filter.Email)
	}
	if filter.Role != "" {
		tx = tx.Where("role = ?", filter.Role)
	}
	if err := tx.Order("created_at ASC").Take(&a).Error; err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (s *Store) CreateAdmin(ctx context.Context, a *model.Admin) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Create(a).Error
}

func (s *Store) UpdateAdmin(ctx context.Context, id string, changes store.Changes) (*model.Admin, error) {
	var a model.Admin
	if err := s.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	if err := s.db.WithContext(ctx).Model(&a).Updates(map[string]interface{}(changes)).Error; err != nil {
		return nil, err
	}
	return s.GetAdmin(ctx, id)
}
