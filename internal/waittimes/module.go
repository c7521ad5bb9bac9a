// Package waittimes provides the visa wait-time bounded context module.
package waittimes

import (
	"context"

	"github.com/roledad/visa-wait-time/internal/waittimes/handler"
	"github.com/roledad/visa-wait-time/internal/waittimes/service"

	apphttp "github.com/roledad/visa-wait-time/internal/http"
	"github.com/roledad/visa-wait-time/platform/config"
	"github.com/roledad/visa-wait-time/platform/logger"
	"github.com/roledad/visa-wait-time/platform/validator"
)

// Module is the wait-time bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule loads the dataset and wires the module. A load failure is
// fatal to the caller: the process must not serve without the dataset.
func NewModule(ctx context.Context, cfg config.DatasetConfig, val *validator.Validator, log *logger.Logger) (*Module, error) {
	svc, err := service.Load(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "waittimes"
}

// Service returns the service layer for external use (health checks).
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts wait-time routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/visa")
	group.GET("/categories", m.handler.HandleCategories)
	group.GET("/summary", m.handler.HandleSummary)
	group.GET("/map", m.handler.HandleMap)
	group.GET("/records", m.handler.HandleRecords)
	group.GET("/export", m.handler.HandleExport)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
