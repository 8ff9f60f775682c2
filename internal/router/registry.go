package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/digital-legacy/pkg/response"
)

type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	Logger      *logrus.Logger
	middlewares []gin.HandlerFunc
	modules     []Module
}

func NewRegistry(engine *gin.Engine, logger *logrus.Logger) *Registry {
	api := engine.Group("/api")
	return &Registry{Engine: engine, API: api, Logger: logger}
}

func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mod Module) {
	r.modules = append(r.modules, mod)
}

// RegisterAll mounts every module under /api plus a liveness route listing them.
func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	names := make([]string, 0, len(r.modules))
	for _, m := range r.modules {
		m.Register(r.API)
		names = append(names, m.Name())
		if r.Logger != nil {
			r.Logger.WithField("module", m.Name()).Debug("module registered")
		}
	}
	r.API.GET("/healthz", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok", "modules": names}, "healthy", nil)
	})
}
