// Package store описывает контракт хранилища, общий для postgres, mongo и
// in-memory реализаций. Сервисы зависят только от этих интерфейсов.
package store

import (
	"context"
	"errors"

	"github.com/psds-microservice/repair-service/internal/model"
)

// ErrNotFound возвращается реализациями, когда запись не найдена.
// Сервисы переводят её в доменную ошибку из internal/errs.
var ErrNotFound = errors.New("store: record not found")

// Changes — частичное обновление: ключи совпадают с именами колонок/полей документа.
type Changes map[string]interface{}

// OrderFilter — фильтр списка заказов; пустые поля не участвуют.
type OrderFilter struct {
	Status     model.OrderStatus
	Technician string
}

type OrderStore interface {
	CreateOrder(ctx context.Context, o *model.Order) error
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	// ListOrders возвращает заказы от новых к старым.
	ListOrders(ctx context.Context, filter OrderFilter) ([]model.Order, error)
	UpdateOrder(ctx context.Context, id string, changes Changes) (*model.Order, error)
	DeleteOrder(ctx context.Context, id string) error
}

type TechnicianStore interface {
	CreateTechnician(ctx context.Context, t *model.Technician) error
	GetTechnician(ctx context.Context, id string) (*model.Technician, error)
	ListTechnicians(ctx context.Context) ([]model.Technician, error)
	UpdateTechnician(ctx context.Context, id string, changes Changes) (*model.Technician, error)
	DeleteTechnician(ctx context.Context, id string) error
}

// AdminFilter — точное совпадение по непустым полям.
type AdminFilter struct {
	Email string
	Role  string
}

type AdminStore interface {
	// ValidID сообщает, является ли строка синтаксически допустимым идентификатором хранилища.
	ValidID(id string) bool
	GetAdmin(ctx context.Context, id string) (*model.Admin, error)
	// FindOldestAdmin возвращает самую раннюю по created_at запись, подходящую под фильтр.
	FindOldestAdmin(ctx context.Context, filter AdminFilter) (*model.Admin, error)
	CreateAdmin(ctx context.Context, a *model.Admin) error
	UpdateAdmin(ctx context.Context, id string, changes Changes) (*model.Admin, error)
}

// Store объединяет все коллекции и владеет соединением.
type Store interface {
	OrderStore
	TechnicianStore
	AdminStore
	Ping(ctx context.Context) error
	Close() error
}
