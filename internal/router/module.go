package router

import "github.com/gin-gonic/gin"

// Module describes a feature module that can register its routes on a RouterGroup.
// Name shows up in the startup log and in /api/healthz.
type Module interface {
	Name() string
	Register(rg *gin.RouterGroup)
}
