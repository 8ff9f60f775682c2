package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/digital-legacy/internal/container"
	handlers "github.com/oksasatya/digital-legacy/internal/interface/http"
	"github.com/oksasatya/digital-legacy/internal/interface/middleware"
	"github.com/oksasatya/digital-legacy/pkg/helpers"
)

// PlanModule exposes the plan views, self-test execution and the public executor portal.
type PlanModule struct {
	Plan     *handlers.PlanHandler
	Executor *handlers.ExecutorHandler
	JWT      *helpers.JWTManager
}

func NewPlanModule(plan *handlers.PlanHandler, executor *handlers.ExecutorHandler, jwt *helpers.JWTManager) *PlanModule {
	return &PlanModule{Plan: plan, Executor: executor, JWT: jwt}
}

func (m *PlanModule) Name() string { return "plan" }

func (m *PlanModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	executorLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	rg.POST("/executor", executorLimiter, m.Executor.Execute)

	auth := rg.Group("/plan")
	auth.Use(middleware.Auth(rdb, m.JWT))
	auth.Use(middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("", m.Plan.View)
		auth.POST("/execute", m.Plan.Execute)
		auth.GET("/result", m.Plan.Result)
		auth.GET("/logs/search", m.Plan.SearchLogs)
	}
}
