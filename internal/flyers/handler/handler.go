// Package handler exposes flyer HTTP endpoints.
package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"renoquote_backend/internal/flyers/service"
	"renoquote_backend/internal/flyers/transport"
	"renoquote_backend/platform/httpkit"
	"renoquote_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid flyer id"
)

// Handler handles HTTP requests for flyers.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new flyers handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// CreateFlyer registers a flyer with its priced items.
// POST /api/v1/flyers
func (h *Handler) CreateFlyer(c *gin.Context) {
	var req transport.CreateFlyerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	userID, ok := httpkit.MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.svc.CreateFlyer(c.Request.Context(), userID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// GetFlyer retrieves a flyer with its items.
// GET /api/v1/flyers/:id
func (h *Handler) GetFlyer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	result, err := h.svc.GetFlyer(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListFlyers lists flyers. Pass ?active=true to exclude expired ones.
// GET /api/v1/flyers
func (h *Handler) ListFlyers(c *gin.Context) {
	activeOnly := strings.EqualFold(c.Query("active"), "true")

	result, err := h.svc.ListFlyers(c.Request.Context(), activeOnly)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DeleteFlyer removes a flyer.
// DELETE /api/v1/flyers/:id
func (h *Handler) DeleteFlyer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	if httpkit.HandleError(c, h.svc.DeleteFlyer(c.Request.Context(), id)) {
		return
	}
	httpkit.NoContent(c)
}

// MatchLineItem ranks active flyer items against one scope line.
// POST /api/v1/flyers/match
func (h *Handler) MatchLineItem(c *gin.Context) {
	var req transport.MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.MatchLineItem(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ImportScan uploads a flyer scan image and attaches it to a flyer.
// POST /api/v1/flyers/:id/scan
func (h *Handler) ImportScan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	userID, ok := httpkit.MustGetUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "missing file upload", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "failed to open upload", nil)
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	result, err := h.svc.ImportScan(c.Request.Context(), userID, id, fileHeader.Filename, contentType, file, fileHeader.Size)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}
