// Package web serves the embedded dashboard page. The page is a static
// shell; everything it renders comes from the JSON API.
package web

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"

	apphttp "github.com/roledad/visa-wait-time/internal/http"
)

//go:embed static/index.html
var indexHTML []byte

//go:embed static/app.js
var appJS []byte

//go:embed static/style.css
var styleCSS []byte

// Module serves the dashboard assets.
type Module struct{}

// NewModule creates the web module. It has no dependencies; the page
// talks to the API over HTTP like any other client.
func NewModule() *Module {
	return &Module{}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "web"
}

// RegisterRoutes mounts the page on the engine root, outside the API
// group so it is not rate limited.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Engine.GET("/", m.handleIndex)
	ctx.Engine.GET("/static/app.js", asset("application/javascript; charset=utf-8", appJS))
	ctx.Engine.GET("/static/style.css", asset("text/css; charset=utf-8", styleCSS))
}

func (m *Module) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

func asset(contentType string, body []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "public, max-age=3600")
		c.Data(http.StatusOK, contentType, body)
	}
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
