// Package handler exposes estimate HTTP endpoints.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"renoquote_backend/internal/estimates/service"
	"renoquote_backend/internal/estimates/transport"
	"renoquote_backend/platform/httpkit"
	"renoquote_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid estimate id"
)

// Handler handles HTTP requests for estimates.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new estimates handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Preview computes an estimate without persisting it.
// POST /api/v1/estimates/preview
func (h *Handler) Preview(c *gin.Context) {
	req, userID, ok := h.bindComputeRequest(c)
	if !ok {
		return
	}

	result, err := h.svc.Compute(c.Request.Context(), userID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Create computes and persists an estimate.
// POST /api/v1/estimates
func (h *Handler) Create(c *gin.Context) {
	req, userID, ok := h.bindComputeRequest(c)
	if !ok {
		return
	}

	result, err := h.svc.Create(c.Request.Context(), userID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// Get retrieves a stored estimate.
// GET /api/v1/estimates/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	userID, ok := httpkit.MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.svc.Get(c.Request.Context(), userID, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// List lists the caller's estimates.
// GET /api/v1/estimates
func (h *Handler) List(c *gin.Context) {
	userID, ok := httpkit.MustGetUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	result, err := h.svc.List(c.Request.Context(), userID, page, pageSize)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Delete removes a stored estimate.
// DELETE /api/v1/estimates/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	userID, ok := httpkit.MustGetUserID(c)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), userID, id)) {
		return
	}
	httpkit.NoContent(c)
}

// ScenarioRange produces a low/medium/high what-if total.
// POST /api/v1/estimates/range
func (h *Handler) ScenarioRange(c *gin.Context) {
	var req transport.ScenarioRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	httpkit.OK(c, h.svc.ScenarioRange(req))
}

// InferKey reports the pricing key for a task/material/unit combination.
// GET /api/v1/estimates/pricing-key
func (h *Handler) InferKey(c *gin.Context) {
	task := c.Query("task")
	if task == "" {
		httpkit.Error(c, http.StatusBadRequest, "task is required", nil)
		return
	}
	httpkit.OK(c, h.svc.InferKey(task, c.Query("material"), c.Query("unit")))
}

// ResolveMaterial resolves a free-text material against the baseline table.
// GET /api/v1/estimates/material
func (h *Handler) ResolveMaterial(c *gin.Context) {
	httpkit.OK(c, h.svc.ResolveMaterialText(c.Query("material")))
}

// Share generates the public share link for an estimate.
// POST /api/v1/estimates/:id/share
func (h *Handler) Share(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	userID, ok := httpkit.MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.svc.Share(c.Request.Context(), userID, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetShared retrieves the public view of a shared estimate.
// GET /api/v1/public/estimates/:token
func (h *Handler) GetShared(c *gin.Context) {
	result, err := h.svc.GetShared(c.Request.Context(), c.Param("token"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// SharedQRCode renders the share link as a PNG QR code.
// GET /api/v1/public/estimates/:token/qr
func (h *Handler) SharedQRCode(c *gin.Context) {
	png, err := h.svc.ShareQRCode(c.Request.Context(), c.Param("token"))
	if httpkit.HandleError(c, err) {
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (h *Handler) bindComputeRequest(c *gin.Context) (transport.ComputeEstimateRequest, uuid.UUID, bool) {
	var req transport.ComputeEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return req, uuid.Nil, false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return req, uuid.Nil, false
	}
	userID, ok := httpkit.MustGetUserID(c)
	if !ok {
		return req, uuid.Nil, false
	}
	return req, userID, true
}
