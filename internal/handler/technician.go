package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/repair-service/internal/model"
	"github.com/psds-microservice/repair-service/internal/service"
	"github.com/psds-microservice/repair-service/internal/store"
	"go.uber.org/zap"
)

type TechnicianHandler struct {
	svc *service.TechnicianService
	log *zap.Logger
}

func NewTechnicianHandler(svc *service.TechnicianService, log *zap.Logger) *TechnicianHandler {
	return &TechnicianHandler{svc: svc, log: log}
}

type createTechnicianRequest struct {
	Name      string `json:"name" binding:"required"`
	Phone     string `json:"phone"`
	Specialty string `json:"specialty"`
	Status    string `json:"status" binding:"omitempty,technician_status"`
}

func (h *TechnicianHandler) Create(c *gin.Context) {
	var req createTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body: "+err.Error())
		return
	}
	t := &model.Technician{
		Name:      req.Name,
		Phone:     req.Phone,
		Specialty: req.Specialty,
		Status:    model.TechnicianStatus(req.Status),
	}
	if err := h.svc.Create(c.Request.Context(), t); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *TechnicianHandler) Get(c *gin.Context) {
	t, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TechnicianHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if items == nil {
		items = []model.Technician{}
	}
	c.JSON(http.StatusOK, items)
}

type updateTechnicianRequest struct {
	Name      *string `json:"name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Specialty *string `json:"specialty,omitempty"`
	Status    *string `json:"status,omitempty" binding:"omitempty,technician_status"`
}

func (h *TechnicianHandler) Update(c *gin.Context) {
	var req updateTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body: "+err.Error())
		return
	}
	changes := store.Changes{}
	if req.Name != nil {
		changes["name"] = *req.Name
	}
	if req.Phone != nil {
		changes["phone"] = *req.Phone
	}
	if req.Specialty != nil {
		changes["specialty"] = *req.Specialty
	}
	if req.Status != nil {
		changes["status"] = model.TechnicianStatus(*req.Status)
	}
	if len(changes) == 0 {
		badRequest(c, "no changes")
		return
	}
	t, err := h.svc.Update(c.Request.Context(), c.Param("id"), changes)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TechnicianHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "technician deleted"})
}
