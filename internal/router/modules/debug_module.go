package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/digital-legacy/internal/container"
	"github.com/oksasatya/digital-legacy/internal/interface/middleware"
)

type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

func (m *DebugModule) Name() string { return "debug" }

// Register serves expvar (execution counters included) to private networks only.
func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), nil)
	rg.GET("/debug/vars", middleware.OnlyIf(middleware.AllowPrivateIP()), rl, gin.WrapH(expvar.Handler()))
}
