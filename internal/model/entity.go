package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type OrderStatus string

const (
	OrderStatusWaiting OrderStatus = "waiting"
	OrderStatusReady   OrderStatus = "ready"
	OrderStatusFailed  OrderStatus = "failed"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusWaiting, OrderStatusReady, OrderStatusFailed:
		return true
	}
	return false
}

type TechnicianStatus string

const (
	TechnicianStatusAvailable TechnicianStatus = "available"
	TechnicianStatusBusy      TechnicianStatus = "busy"
	TechnicianStatusLeave     TechnicianStatus = "leave"
)

func (s TechnicianStatus) Valid() bool {
	switch s {
	case TechnicianStatusAvailable, TechnicianStatusBusy, TechnicianStatusLeave:
		return true
	}
	return false
}

// RoleAdmin — роль по умолчанию для записи администратора.
const RoleAdmin = "admin"

// ScheduledTime — запланированное время приёма (часы/минуты).
// В postgres хранится как jsonb, в mongo как вложенный документ.
type ScheduledTime struct {
	Hour   int `json:"hour" bson:"hour" binding:"min=0,max=23"`
	Minute int `json:"minute" bson:"minute" binding:"min=0,max=59"`
}

func (t ScheduledTime) Value() (driver.Value, error) {
	b, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (t *ScheduledTime) Scan(src interface{}) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("scheduled_time: unsupported type %T", src)
	}
	if len(b) == 0 {
		return errors.New("scheduled_time: empty value")
	}
	return json.Unmarshal(b, t)
}

type Order struct {
	ID            string         `gorm:"primaryKey;type:varchar(16)" bson:"_id" json:"id"`
	CustomerName  string         `gorm:"type:varchar(255);not null" bson:"customer_name" json:"customer_name"`
	CustomerPhone string         `gorm:"type:varchar(64);index;not null" bson:"customer_phone" json:"customer_phone"`
	ServiceType   string         `gorm:"type:varchar(128)" bson:"service_type" json:"service_type,omitempty"`
	Price         *float64       `gorm:"type:numeric(12,2)" bson:"price,omitempty" json:"price,omitempty"`
	Status        OrderStatus    `gorm:"type:varchar(16);index;not null" bson:"status" json:"status"`
	Description   string         `gorm:"type:text" bson:"description" json:"description,omitempty"`
	FailureReason string         `gorm:"type:text" bson:"failure_reason,omitempty" json:"failure_reason,omitempty"`
	Technician    string         `gorm:"type:varchar(255);index" bson:"technician,omitempty" json:"technician,omitempty"`
	ScheduledTime *ScheduledTime `gorm:"type:jsonb" bson:"scheduled_time,omitempty" json:"scheduled_time,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// PriceOrZero — цена заказа; отсутствующая цена считается нулём.
func (o *Order) PriceOrZero() float64 {
	if o.Price == nil {
		return 0
	}
	return *o.Price
}

type Technician struct {
	ID        string           `gorm:"primaryKey;type:varchar(36)" bson:"_id" json:"id"`
	Name      string           `gorm:"type:varchar(255);not null" bson:"name" json:"name"`
	Phone     string           `gorm:"type:varchar(64)" bson:"phone" json:"phone,omitempty"`
	Specialty string           `gorm:"type:varchar(128)" bson:"specialty" json:"specialty,omitempty"`
	Status    TechnicianStatus `gorm:"type:varchar(16);index;not null" bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Admin — учётная запись оператора. Пароль никогда не отдаётся клиенту.
type Admin struct {
	ID          string     `gorm:"primaryKey;type:varchar(36)" bson:"_id" json:"id"`
	Email       string     `gorm:"type:varchar(255);index;not null" bson:"email" json:"email"`
	Password    string     `gorm:"type:varchar(255);not null" bson:"password" json:"-"`
	Name        string     `gorm:"type:varchar(255)" bson:"name" json:"name"`
	Phone       string     `gorm:"type:varchar(64)" bson:"phone" json:"phone,omitempty"`
	Role        string     `gorm:"type:varchar(32);index;not null" bson:"role" json:"role"`
	LastLoginAt *time.Time `bson:"last_login_at,omitempty" json:"last_login_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
