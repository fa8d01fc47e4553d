// Package handler exposes pricebook HTTP endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"renoquote_backend/internal/pricebook/service"
	"renoquote_backend/internal/pricebook/transport"
	"renoquote_backend/platform/httpkit"
	"renoquote_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid override id"
)

// Handler handles HTTP requests for the pricebook.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new pricebook handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// CreateOverride registers a rate override.
// POST /api/v1/pricebook/overrides
func (h *Handler) CreateOverride(c *gin.Context) {
	var req transport.CreateOverrideRequest
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

	result, err := h.svc.CreateOverride(c.Request.Context(), userID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// UpdateOverride changes the rate or unit of an override.
// PUT /api/v1/pricebook/overrides/:id
func (h *Handler) UpdateOverride(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.UpdateOverrideRequest
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

	result, err := h.svc.UpdateOverride(c.Request.Context(), userID, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DeleteOverride removes an override.
// DELETE /api/v1/pricebook/overrides/:id
func (h *Handler) DeleteOverride(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	userID, ok := httpkit.MustGetUserID(c)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.DeleteOverride(c.Request.Context(), userID, id)) {
		return
	}
	httpkit.NoContent(c)
}

// GetOverride retrieves a single override.
// GET /api/v1/pricebook/overrides/:id
func (h *Handler) GetOverride(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	userID, ok := httpkit.MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.svc.GetOverride(c.Request.Context(), userID, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListOverrides lists overrides in precedence order.
// GET /api/v1/pricebook/overrides
func (h *Handler) ListOverrides(c *gin.Context) {
	userID, ok := httpkit.MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.svc.ListOverrides(c.Request.Context(), userID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListJurisdictions lists supported pricing regions.
// GET /api/v1/pricebook/jurisdictions
func (h *Handler) ListJurisdictions(c *gin.Context) {
	httpkit.OK(c, gin.H{"items": h.svc.ListJurisdictions()})
}
