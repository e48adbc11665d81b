// Package httpapi is the JSON API: register, login, session resume and
// logout, and the study history endpoints.
package httpapi

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/dmitrijs2005/nihongo/internal/logging"
)

type RouterOptions struct {
	ServiceName        string
	TracingEnabled     bool
	CORSAllowedOrigins []string
}

// NewRouter mounts every route at the root and again under /api.
func NewRouter(h *Handler, log logging.Logger, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if opts.TracingEnabled {
		r.Use(otelgin.Middleware(opts.ServiceName))
	}
	r.Use(RequestID(), RequestLogger(log), CORS(opts.CORSAllowedOrigins))

	r.GET("/healthz", h.Health)

	register(r.Group(""), h)
	register(r.Group("/api"), h)

	return r
}

func register(g *gin.RouterGroup, h *Handler) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.GET("/session", h.Session)
	g.POST("/logout", h.Logout)
	g.GET("/history", h.ListHistory)
	g.POST("/history", h.RecordHistory)
	g.POST("/history/export", h.ExportHistory)
}
