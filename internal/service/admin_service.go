package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/psds-microservice/repair-service/internal/errs"
	"github.com/psds-microservice/repair-service/internal/model"
	"github.com/psds-microservice/repair-service/internal/store"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Учётная запись, создаваемая при первом запуске, если администратора нет.
const (
	DefaultAdminEmail    = "admin@repairshop.local"
	DefaultAdminPassword = "admin123"
	DefaultAdminName     = "Administrator"
	DefaultAdminPhone    = "0000000000"
)

// Hints — подсказки для поиска администратора: ранее полученный id и/или email.
// Обе необязательны.
type Hints struct {
	AdminID string
	Email   string
}

// ProfileUpdate — заменяемые поля профиля; nil означает "не менять".
type ProfileUpdate struct {
	Name  *string
	Email *string
	Phone *string
}

// AdminService работает с единственной (неявной) учётной записью администратора.
type AdminService struct {
	store    store.AdminStore
	log      *zap.Logger
	now      func() time.Time
	hashCost int
}

func NewAdminService(st store.AdminStore, log *zap.Logger) *AdminService {
	return &AdminService{store: st, log: log, now: time.Now, hashCost: bcrypt.DefaultCost}
}

// Resolve находит запись администратора, первая найденная побеждает:
//  1. по id, если он задан и синтаксически допустим для хранилища;
//  2. по точному email;
//  3. старейшая запись с ролью admin;
//  4. старейшая запись вообще.
//
// Ошибки хранилища, кроме "не найдено", возвращаются сразу.
func (s *AdminService) Resolve(ctx context.Context, h Hints) (*model.Admin, error) {
	id := strings.TrimSpace(h.AdminID)
	if id != "" && s.store.ValidID(id) {
		a, err := s.store.GetAdmin(ctx, id)
		if err == nil {
			return a, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}
	filters := make([]store.AdminFilter, 0, 3)
	if email := strings.TrimSpace(h.Email); email != "" {
		filters = append(filters, store.AdminFilter{Email: email})
	}
	filters = append(filters, store.AdminFilter{Role: model.RoleAdmin}, store.AdminFilter{})
	for _, f := range filters {
		a, err := s.store.FindOldestAdmin(ctx, f)
		if err == nil {
			return a, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}
	return nil, errs.ErrAdminNotFound
}

// Bootstrap создаёт администратора по умолчанию, если в хранилище нет ни одной записи.
// Повторный вызов ничего не создаёт.
func (s *AdminService) Bootstrap(ctx context.Context) (*model.Admin, bool, error) {
	a, err := s.Resolve(ctx, Hints{})
	if err == nil {
		return a, false, nil
	}
	if !errors.Is(err, errs.ErrAdminNotFound) {
		return nil, false, fmt.Errorf("resolve admin: %w", err)
	}
	hash, err := hashPassword(DefaultAdminPassword, s.hashCost)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}
	a = &model.Admin{
		Email:    DefaultAdminEmail,
		Password: hash,
		Name:     DefaultAdminName,
		Phone:    DefaultAdminPhone,
		Role:     model.RoleAdmin,
	}
	if err := s.store.CreateAdmin(ctx, a); err != nil {
		return nil, false, fmt.Errorf("create admin: %w", err)
	}
	s.log.Warn("default admin created, change its password",
		zap.String("admin_id", a.ID), zap.String("email", a.Email))
	return a, true, nil
}

// Login проверяет email и пароль; при успехе обновляет last_login_at.
func (s *AdminService) Login(ctx context.Context, email, password string) (*model.Admin, error) {
	if email == "" || password == "" {
		return nil, errs.ErrInvalidCredentials
	}
	a, err := s.store.FindOldestAdmin(ctx, store.AdminFilter{Email: email})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errs.ErrInvalidCredentials
		}
		return nil, err
	}
	ok, legacy := checkPassword(a.Password, password)
	if !ok {
		return nil, errs.ErrInvalidCredentials
	}
	changes := store.Changes{"last_login_at": s.now().UTC()}
	if legacy {
		hash, err := hashPassword(password, s.hashCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		changes["password"] = hash
		s.log.Info("plaintext password rehashed on login", zap.String("admin_id", a.ID))
	}
	return s.update(ctx, a.ID, changes)
}

// ChangePassword заменяет пароль, если текущий совпадает.
func (s *AdminService) ChangePassword(ctx context.Context, h Hints, current, next string) error {
	if next == "" {
		return fmt.Errorf("%w: new password is required", errs.ErrInvalidInput)
	}
	a, err := s.Resolve(ctx, h)
	if err != nil {
		return err
	}
	if ok, _ := checkPassword(a.Password, current); !ok {
		return errs.ErrPasswordMismatch
	}
	hash, err := hashPassword(next, s.hashCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, err = s.update(ctx, a.ID, store.Changes{"password": hash})
	return err
}

func (s *AdminService) UpdateProfile(ctx context.Context, h Hints, p ProfileUpdate) (*model.Admin, error) {
	changes := store.Changes{}
	if p.Name != nil {
		changes["name"] = *p.Name
	}
	if p.Email != nil {
		if *p.Email == "" {
			return nil, fmt.Errorf("%w: email must not be empty", errs.ErrInvalidInput)
		}
		changes["email"] = *p.Email
	}
	if p.Phone != nil {
		changes["phone"] = *p.Phone
	}
	if len(changes) == 0 {
		return nil, fmt.Errorf("%w: no changes", errs.ErrInvalidInput)
	}
	a, err := s.Resolve(ctx, h)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, a.ID, changes)
}

func (s *AdminService) update(ctx context.Context, id string, changes store.Changes) (*model.Admin, error) {
	a, err := s.store.UpdateAdmin(ctx, id, changes)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errs.ErrAdminNotFound
		}
		return nil, err
	}
	return a, nil
}
