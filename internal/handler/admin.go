package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/repair-service/internal/service"
	"go.uber.org/zap"
)

// AdminHandler: вместо сессии клиент передаёт подсказки (adminId, email),
// по которым сервис находит единственную запись администратора.
type AdminHandler struct {
	svc *service.AdminService
	log *zap.Logger
}

func NewAdminHandler(svc *service.AdminService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, log: log}
}

// queryHints читает подсказки из query; значения из тела запроса их перекрывают.
func queryHints(c *gin.Context, bodyID, bodyEmail string) service.Hints {
	h := service.Hints{AdminID: c.Query("adminId"), Email: c.Query("email")}
	if bodyID != "" {
		h.AdminID = bodyID
	}
	if bodyEmail != "" {
		h.Email = bodyEmail
	}
	return h
}

func (h *AdminHandler) Profile(c *gin.Context) {
	a, err := h.svc.Resolve(c.Request.Context(), queryHints(c, "", ""))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and password are required")
		return
	}
	a, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "login successful", "admin": a})
}

type changePasswordRequest struct {
	AdminID         string `json:"admin_id"`
	Email           string `json:"email"`
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

func (h *AdminHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "current_password and new_password are required")
		return
	}
	hints := queryHints(c, req.AdminID, req.Email)
	if err := h.svc.ChangePassword(c.Request.Context(), hints, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

type updateProfileRequest struct {
	AdminID      string  `json:"admin_id"`
	CurrentEmail string  `json:"current_email"`
	Name         *string `json:"name,omitempty"`
	Email        *string `json:"email,omitempty" binding:"omitempty,email"`
	Phone        *string `json:"phone,omitempty"`
}

func (h *AdminHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body: "+err.Error())
		return
	}
	hints := queryHints(c, req.AdminID, req.CurrentEmail)
	a, err := h.svc.UpdateProfile(c.Request.Context(), hints, service.ProfileUpdate{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, a)
}
