package handler

import (
	"net/http"

	"vitrine_backend/internal/auth/service"
	"vitrine_backend/internal/auth/transport"
	"vitrine_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest = "invalid request"
	msgInvalidID      = "invalid id"
	msgUnauthorized   = "unauthorized"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterAuthRoutes mounts sign-in behind the public rate limit and the session profile.
func (h *Handler) RegisterAuthRoutes(rg *gin.RouterGroup, authRequired, publicLimit gin.HandlerFunc) {
	rg.POST("/sign-in", publicLimit, h.SignIn)
	rg.GET("/me", authRequired, h.GetMe)
}

// RegisterUserRoutes mounts user administration. Every route requires an admin.
func (h *Handler) RegisterUserRoutes(rg *gin.RouterGroup, admin gin.HandlerFunc) {
	rg.Use(admin)
	rg.GET("", h.ListUsers)
	rg.GET("/:id", h.GetUser)
	rg.POST("", h.CreateUser)
	rg.PUT("/:id", h.UpdateUser)
	rg.DELETE("/:id", h.DeleteUser)
}

func (h *Handler) SignIn(c *gin.Context) {
	var req transport.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.SignIn(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) GetMe(c *gin.Context) {
	identity := httpkit.GetIdentity(c)
	if !identity.IsAuthenticated() {
		httpkit.Error(c, http.StatusUnauthorized, msgUnauthorized, nil)
		return
	}

	result, err := h.svc.Me(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) ListUsers(c *gin.Context) {
	result, err := h.svc.ListUsers(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	result, err := h.svc.GetUser(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req transport.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.CreateUser(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.UpdateUser(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	if httpkit.HandleError(c, h.svc.DeleteUser(c.Request.Context(), httpkit.GetIdentity(c).UserID(), id)) {
		return
	}
	httpkit.Deleted(c)
}
