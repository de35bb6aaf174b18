package handler

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/psds-microservice/repair-service/internal/model"
)

// RegisterValidators регистрирует правила order_status и technician_status
// в валидаторе, которым gin проверяет тела запросов.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation("order_status", func(fl validator.FieldLevel) bool {
		return model.OrderStatus(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	return v.RegisterValidation("technician_status", func(fl validator.FieldLevel) bool {
		return model.TechnicianStatus(fl.Field().String()).Valid()
	})
}
