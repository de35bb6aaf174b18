package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/repair-service/internal/model"
	"github.com/psds-microservice/repair-service/internal/service"
	"github.com/psds-microservice/repair-service/internal/store"
	"go.uber.org/zap"
)

type OrderHandler struct {
	svc *service.OrderService
	log *zap.Logger
}

func NewOrderHandler(svc *service.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{svc: svc, log: log}
}

type createOrderRequest struct {
	CustomerName  string               `json:"customer_name" binding:"required"`
	CustomerPhone string               `json:"customer_phone" binding:"required"`
	ServiceType   string               `json:"service_type"`
	Price         *float64             `json:"price" binding:"omitempty,gte=0"`
	Status        string               `json:"status" binding:"omitempty,order_status"`
	Description   string               `json:"description"`
	FailureReason string               `json:"failure_reason"`
	Technician    string               `json:"technician"`
	ScheduledTime *model.ScheduledTime `json:"scheduled_time"`
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body: "+err.Error())
		return
	}
	o := &model.Order{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		ServiceType:   req.ServiceType,
		Price:         req.Price,
		Status:        model.OrderStatus(req.Status),
		Description:   req.Description,
		FailureReason: req.FailureReason,
		Technician:    req.Technician,
		ScheduledTime: req.ScheduledTime,
	}
	if err := h.svc.Create(c.Request.Context(), o); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

func (h *OrderHandler) Get(c *gin.Context) {
	o, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) List(c *gin.Context) {
	filter := store.OrderFilter{
		Status:     model.OrderStatus(c.Query("status")),
		Technician: c.Query("technician"),
	}
	items, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if items == nil {
		items = []model.Order{}
	}
	c.JSON(http.StatusOK, items)
}

type updateOrderRequest struct {
	CustomerName  *string              `json:"customer_name,omitempty"`
	CustomerPhone *string              `json:"customer_phone,omitempty"`
	ServiceType   *string              `json:"service_type,omitempty"`
	Price         *float64             `json:"price,omitempty" binding:"omitempty,gte=0"`
	Status        *string              `json:"status,omitempty" binding:"omitempty,order_status"`
	Description   *string              `json:"description,omitempty"`
	FailureReason *string              `json:"failure_reason,omitempty"`
	Technician    *string              `json:"technician,omitempty"`
	ScheduledTime *model.ScheduledTime `json:"scheduled_time,omitempty"`
}

func (r *updateOrderRequest) changes() store.Changes {
	changes := store.Changes{}
	if r.CustomerName != nil {
		changes["customer_name"] = *r.CustomerName
	}
	if r.CustomerPhone != nil {
		changes["customer_phone"] = *r.CustomerPhone
	}
	if r.ServiceType != nil {
		changes["service_type"] = *r.ServiceType
	}
	if r.Price != nil {
		changes["price"] = r.Price
	}
	if r.Status != nil {
		changes["status"] = model.OrderStatus(*r.Status)
	}
	if r.Description != nil {
		changes["description"] = *r.Description
	}
	if r.FailureReason != nil {
		changes["failure_reason"] = *r.FailureReason
	}
	if r.Technician != nil {
		changes["technician"] = *r.Technician
	}
	if r.ScheduledTime != nil {
		changes["scheduled_time"] = r.ScheduledTime
	}
	return changes
}

func (h *OrderHandler) Update(c *gin.Context) {
	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body: "+err.Error())
		return
	}
	changes := req.changes()
	if len(changes) == 0 {
		badRequest(c, "no changes")
		return
	}
	o, err := h.svc.Update(c.Request.Context(), c.Param("id"), changes)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "order deleted"})
}

func (h *OrderHandler) Stats(c *gin.Context) {
	st, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *OrderHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if _, err := h.svc.ExportXLSX(c.Request.Context(), &buf); err != nil {
		respondError(c, h.log, err)
		return
	}
	fileName := fmt.Sprintf("orders_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
