package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/digital-legacy/internal/container"
	handlers "github.com/oksasatya/digital-legacy/internal/interface/http"
	"github.com/oksasatya/digital-legacy/internal/interface/middleware"
	"github.com/oksasatya/digital-legacy/pkg/helpers"
)

// RegistryModule exposes the account and trusted contact registries.
type RegistryModule struct {
	Accounts *handlers.AccountHandler
	Contacts *handlers.ContactHandler
	JWT      *helpers.JWTManager
}

func NewRegistryModule(accounts *handlers.AccountHandler, contacts *handlers.ContactHandler, jwt *helpers.JWTManager) *RegistryModule {
	return &RegistryModule{Accounts: accounts, Contacts: contacts, JWT: jwt}
}

func (m *RegistryModule) Name() string { return "registry" }

func (m *RegistryModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	auth := rg.Group("/")
	auth.Use(middleware.Auth(rdb, m.JWT))
	auth.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/accounts", m.Accounts.List)
		auth.POST("/accounts", m.Accounts.Create)
		auth.GET("/accounts/:id", m.Accounts.Get)
		auth.PUT("/accounts/:id", m.Accounts.Update)
		auth.DELETE("/accounts/:id", m.Accounts.Delete)

		auth.GET("/contacts", m.Contacts.List)
		auth.POST("/contacts", m.Contacts.Create)
		auth.GET("/contacts/:id", m.Contacts.Get)
		auth.PUT("/contacts/:id", m.Contacts.Update)
		auth.DELETE("/contacts/:id", m.Contacts.Delete)
	}
}
