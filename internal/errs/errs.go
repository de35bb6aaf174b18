// Package errs содержит доменные ошибки сервиса. Обработчики HTTP
// сопоставляют их со статус-кодами через errors.Is.
package errs

import "errors"

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrTechnicianNotFound = errors.New("technician not found")
	ErrAdminNotFound      = errors.New("admin not found")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordMismatch   = errors.New("current password is incorrect")

	// ErrPhoneRequired — без телефона клиента номер заказа не строится.
	ErrPhoneRequired = errors.New("customer phone is required")
	ErrInvalidInput  = errors.New("invalid input")
)
