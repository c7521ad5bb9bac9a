// Package bulletin provides the employment-based immigration bounded context:
// Visa Bulletin priority-date charts and DOL processing figures.
package bulletin

import (
	apphttp "github.com/roledad/visa-wait-time/internal/http"

	"github.com/roledad/visa-wait-time/internal/bulletin/handler"
	"github.com/roledad/visa-wait-time/internal/bulletin/service"
	"github.com/roledad/visa-wait-time/platform/config"
	"github.com/roledad/visa-wait-time/platform/logger"
	"github.com/roledad/visa-wait-time/platform/validator"
)

// Module is the bulletin bounded context module. Its routes are always
// registered; when the snapshot file is absent they answer 503.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule loads the bulletin snapshot and wires the context together.
// A missing snapshot file is not an error; a malformed one is.
func NewModule(cfg config.BulletinConfig, val *validator.Validator, log *logger.Logger) (*Module, error) {
	svc, err := service.Load(cfg, log)
	if err != nil {
		return nil, err
	}

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}, nil
}

// Name returns the module name for logging.
func (m *Module) Name() string { return "bulletin" }

// Service returns the bulletin service for other modules.
func (m *Module) Service() *service.Service { return m.service }

// RegisterRoutes registers the bulletin endpoints.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/bulletin")
	group.GET("", m.handler.HandleSnapshot)
	group.GET("/priority-dates", m.handler.HandlePriorityDates)
	group.GET("/processing", m.handler.HandleProcessing)
}

var _ apphttp.Module = (*Module)(nil)
