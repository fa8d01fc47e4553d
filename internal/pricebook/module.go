// Package pricebook provides the contractor rate override bounded context.
package pricebook

import (
	"renoquote_backend/internal/http"
	"renoquote_backend/internal/pricebook/handler"
	"renoquote_backend/internal/pricebook/repository"
	"renoquote_backend/internal/pricebook/service"
	"renoquote_backend/platform/logger"
	"renoquote_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the pricebook bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the pricebook module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "pricebook"
}

// Service returns the service layer for use by other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts pricebook routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	group := ctx.Protected.Group("/pricebook")
	group.GET("/jurisdictions", m.handler.ListJurisdictions)
	group.GET("/overrides", m.handler.ListOverrides)
	group.GET("/overrides/:id", m.handler.GetOverride)
	group.POST("/overrides", m.handler.CreateOverride)
	group.PUT("/overrides/:id", m.handler.UpdateOverride)
	group.DELETE("/overrides/:id", m.handler.DeleteOverride)
}

// Compile-time check that Module implements http.Module
var _ http.Module = (*Module)(nil)
