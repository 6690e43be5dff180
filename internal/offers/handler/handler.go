package handler

import (
	"net/http"

	"vitrine_backend/internal/offers/service"
	"vitrine_backend/internal/offers/transport"
	"vitrine_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest = "invalid request"
	msgInvalidID      = "invalid id"
)

// Handler handles HTTP requests for service offers and offer options.
type Handler struct {
	svc *service.Service
}

// New creates a new offers handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterOfferRoutes registers offer routes. Reads are public, writes need an admin session.
func (h *Handler) RegisterOfferRoutes(rg *gin.RouterGroup, admin gin.HandlerFunc) {
	rg.GET("", h.ListOffers)
	rg.GET("/:slug", h.GetOfferBySlug)
	rg.POST("", admin, h.CreateOffer)
	rg.PUT("/:slug", admin, h.UpdateOffer)
	rg.DELETE("/:slug", admin, h.DeleteOffer)
}

// RegisterOptionRoutes registers offer option routes.
func (h *Handler) RegisterOptionRoutes(rg *gin.RouterGroup, admin gin.HandlerFunc) {
	rg.GET("", h.ListOptions)
	rg.GET("/:id", h.GetOption)
	rg.POST("", admin, h.CreateOption)
	rg.PUT("/:id", admin, h.UpdateOption)
	rg.DELETE("/:id", admin, h.DeleteOption)
}

func (h *Handler) ListOffers(c *gin.Context) {
	result, err := h.svc.ListOffers(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetOfferBySlug serves the public detail page. Admin screens address offers by id
// on the same path, so a parseable uuid is looked up by id first.
func (h *Handler) GetOfferBySlug(c *gin.Context) {
	param := c.Param("slug")
	if id, err := uuid.Parse(param); err == nil {
		result, err := h.svc.GetOffer(c.Request.Context(), id)
		if httpkit.HandleError(c, err) {
			return
		}
		httpkit.OK(c, result)
		return
	}

	result, err := h.svc.GetOfferBySlug(c.Request.Context(), param)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) CreateOffer(c *gin.Context) {
	var req transport.OfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.CreateOffer(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

func (h *Handler) UpdateOffer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("slug"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.OfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.UpdateOffer(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) DeleteOffer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("slug"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	if httpkit.HandleError(c, h.svc.DeleteOffer(c.Request.Context(), id)) {
		return
	}
	httpkit.Deleted(c)
}

func (h *Handler) ListOptions(c *gin.Context) {
	result, err := h.svc.ListOptions(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) GetOption(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	result, err := h.svc.GetOption(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) CreateOption(c *gin.Context) {
	var req transport.OptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.CreateOption(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

func (h *Handler) UpdateOption(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.OptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.UpdateOption(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) DeleteOption(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	if httpkit.HandleError(c, h.svc.DeleteOption(c.Request.Context(), id)) {
		return
	}
	httpkit.Deleted(c)
}
