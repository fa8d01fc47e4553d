// Package estimates provides the estimate pricing bounded context.
package estimates

import (
	"renoquote_backend/internal/estimates/handler"
	"renoquote_backend/internal/estimates/repository"
	"renoquote_backend/internal/estimates/service"
	"renoquote_backend/internal/events"
	"renoquote_backend/internal/http"
	"renoquote_backend/platform/logger"
	"renoquote_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the estimates bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the estimates module. The override
// provider is typically the pricebook service.
func NewModule(pool *pgxpool.Pool, overrides service.OverrideProvider, bus events.Bus, val *validator.Validator, log *logger.Logger, baseURL string) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, overrides, bus, log, baseURL)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "estimates"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts estimate routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	group := ctx.Protected.Group("/estimates")
	group.GET("", m.handler.List)
	group.GET("/pricing-key", m.handler.InferKey)
	group.GET("/material", m.handler.ResolveMaterial)
	group.GET("/:id", m.handler.Get)
	group.POST("", m.handler.Create)
	group.POST("/preview", m.handler.Preview)
	group.POST("/range", m.handler.ScenarioRange)
	group.POST("/:id/share", m.handler.Share)
	group.DELETE("/:id", m.handler.Delete)

	public := ctx.Public.Group("/estimates")
	public.GET("/:token", m.handler.GetShared)
	public.GET("/:token/qr", m.handler.SharedQRCode)
}

// Compile-time check that Module implements http.Module
var _ http.Module = (*Module)(nil)
