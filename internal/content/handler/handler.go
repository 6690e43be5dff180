package handler

import (
	"net/http"

	"vitrine_backend/internal/content/service"
	"vitrine_backend/internal/content/transport"
	"vitrine_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest = "invalid request"
	msgInvalidID      = "invalid id"
)

// Handler handles HTTP requests for partners, FAQ entries and customer cases.
type Handler struct {
	svc *service.Service
}

// New creates a new content handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterPartnerRoutes(rg *gin.RouterGroup, admin gin.HandlerFunc) {
	rg.GET("", h.ListPartners)
	rg.GET("/:id", h.GetPartner)
	rg.POST("", admin, h.CreatePartner)
	rg.PUT("/:id", admin, h.UpdatePartner)
	rg.DELETE("/:id", admin, h.DeletePartner)
	rg.POST("/:id/logo/presign", admin, h.PresignPartnerLogo)
	rg.PUT("/:id/logo", admin, h.SetPartnerLogo)
}

// RegisterFAQRoutes mounts the FAQ routes. Listing is public; admins also see drafts.
func (h *Handler) RegisterFAQRoutes(rg *gin.RouterGroup, optional, admin gin.HandlerFunc) {
	rg.GET("", optional, h.ListFAQ)
	rg.GET("/:id", admin, h.GetFAQ)
	rg.POST("", admin, h.CreateFAQ)
	rg.PUT("/:id", admin, h.UpdateFAQ)
	rg.DELETE("/:id", admin, h.DeleteFAQ)
}

// RegisterCaseRoutes mounts the customer case routes. GET /:slug also accepts an id.
func (h *Handler) RegisterCaseRoutes(rg *gin.RouterGroup, optional, admin gin.HandlerFunc) {
	rg.GET("", optional, h.ListCases)
	rg.GET("/:slug", optional, h.GetCase)
	rg.POST("", admin, h.CreateCase)
	rg.PUT("/:slug", admin, h.UpdateCase)
	rg.DELETE("/:slug", admin, h.DeleteCase)
	rg.POST("/:slug/image/presign", admin, h.PresignCaseImage)
	rg.PUT("/:slug/image", admin, h.SetCaseImage)
}

func (h *Handler) ListPartners(c *gin.Context) {
	result, err := h.svc.ListPartners(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) GetPartner(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	result, err := h.svc.GetPartner(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) CreatePartner(c *gin.Context) {
	var req transport.PartnerRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.svc.CreatePartner(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

func (h *Handler) UpdatePartner(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req transport.PartnerRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.svc.UpdatePartner(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) DeletePartner(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if httpkit.HandleError(c, h.svc.DeletePartner(c.Request.Context(), id)) {
		return
	}
	httpkit.Deleted(c)
}

func (h *Handler) PresignPartnerLogo(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req transport.PresignRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.svc.PresignPartnerLogo(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) SetPartnerLogo(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req transport.SetImageRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.svc.SetPartnerLogo(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) ListFAQ(c *gin.Context) {
	result, err := h.svc.ListFAQ(c.Request.Context(), httpkit.GetIdentity(c).IsAdmin())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) GetFAQ(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	result, err := h.svc.GetFAQ(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) CreateFAQ(c *gin.Context) {
	var req transport.FAQRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.svc.CreateFAQ(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

func (h *Handler) UpdateFAQ(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req transport.FAQRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.svc.UpdateFAQ(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) DeleteFAQ(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if httpkit.HandleError(c, h.svc.DeleteFAQ(c.Request.Context(), id)) {
		return
	}
	httpkit.Deleted(c)
}

func (h *Handler) ListCases(c *gin.Context) {
	result, err := h.svc.ListCases(c.Request.Context(), httpkit.GetIdentity(c).IsAdmin())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) GetCase(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		result transport.CaseResponse
		err    error
	)
	if id, parseErr := uuid.Parse(c.Param("slug")); parseErr == nil && httpkit.GetIdentity(c).IsAdmin() {
		result, err = h.svc.GetCase(ctx, id)
	} else {
		result, err = h.svc.GetCaseBySlug(ctx, c.Param("slug"), httpkit.GetIdentity(c).IsAdmin())
	}
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) CreateCase(c *gin.Context) {
	var req transport.CaseRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.svc.CreateCase(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

func (h *Handler) UpdateCase(c *gin.Context) {
	id, ok := parseID(c, "slug")
	if !ok {
		return
	}
	var req transport.CaseRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.svc.UpdateCase(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) DeleteCase(c *gin.Context) {
	id, ok := parseID(c, "slug")
	if !ok {
		return
	}
	if httpkit.HandleError(c, h.svc.DeleteCase(c.Request.Context(), id)) {
		return
	}
	httpkit.Deleted(c)
}

func (h *Handler) PresignCaseImage(c *gin.Context) {
	id, ok := parseID(c, "slug")
	if !ok {
		return
	}
	var req transport.PresignRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.svc.PresignCaseImage(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) SetCaseImage(c *gin.Context) {
	id, ok := parseID(c, "slug")
	if !ok {
		return
	}
	var req transport.SetImageRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.svc.SetCaseImage(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	return true
}
