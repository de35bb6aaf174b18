package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/psds-microservice/repair-service/internal/errs"
	"github.com/psds-microservice/repair-service/internal/model"
	"github.com/psds-microservice/repair-service/internal/store"
)

type TechnicianService struct {
	store store.TechnicianStore
}

func NewTechnicianService(st store.TechnicianStore) *TechnicianService {
	return &TechnicianService{store: st}
}

func (s *TechnicianService) Create(ctx context.Context, t *model.Technician) error {
	if t.Status == "" {
		t.Status = model.TechnicianStatusAvailable
	}
	if !t.Status.Valid() {
		return fmt.Errorf("%w: invalid status %q", errs.ErrInvalidInput, t.Status)
	}
	return s.store.CreateTechnician(ctx, t)
}

func (s *TechnicianService) GetByID(ctx context.Context, id string) (*model.Technician, error) {
	t, err := s.store.GetTechnician(ctx, id)
	if err != nil {
		return nil, technicianErr(err)
	}
	return t, nil
}

func (s *TechnicianService) List(ctx context.Context) ([]model.Technician, error) {
	return s.store.ListTechnicians(ctx)
}

func (s *TechnicianService) Update(ctx context.Context, id string, changes store.Changes) (*model.Technician, error) {
	if len(changes) == 0 {
		return nil, fmt.Errorf("%w: no changes", errs.ErrInvalidInput)
	}
	if st, ok := changes["status"].(model.TechnicianStatus); ok && !st.Valid() {
		return nil, fmt.Errorf("%w: invalid status %q", errs.ErrInvalidInput, st)
	}
	t, err := s.store.UpdateTechnician(ctx, id, changes)
	if err != nil {
		return nil, technicianErr(err)
	}
	return t, nil
}

func (s *TechnicianService) Delete(ctx context.Context, id string) error {
	return technicianErr(s.store.DeleteTechnician(ctx, id))
}

func technicianErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return errs.ErrTechnicianNotFound
	}
	return err
}
