// Package flyers provides the retail flyer bounded context.
package flyers

import (
	"renoquote_backend/internal/adapters/storage"
	"renoquote_backend/internal/events"
	"renoquote_backend/internal/flyers/handler"
	"renoquote_backend/internal/flyers/repository"
	"renoquote_backend/internal/flyers/service"
	"renoquote_backend/internal/http"
	"renoquote_backend/platform/logger"
	"renoquote_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the flyers bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the flyers module.
func NewModule(pool *pgxpool.Pool, storageSvc storage.StorageService, bucket string, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, storageSvc, bucket, bus, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "flyers"
}

// Service returns the service layer for use by the scheduler worker.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts flyer routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	group := ctx.Protected.Group("/flyers")
	group.GET("", m.handler.ListFlyers)
	group.GET("/:id", m.handler.GetFlyer)
	group.POST("", m.handler.CreateFlyer)
	group.POST("/match", m.handler.MatchLineItem)
	group.POST("/:id/scan", m.handler.ImportScan)
	group.DELETE("/:id", m.handler.DeleteFlyer)
}

// Compile-time check that Module implements http.Module
var _ http.Module = (*Module)(nil)
