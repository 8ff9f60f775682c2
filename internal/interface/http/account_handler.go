package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/digital-legacy/internal/application"
	"github.com/oksasatya/digital-legacy/internal/domain/entity"
	"github.com/oksasatya/digital-legacy/internal/interface/middleware"
	"github.com/oksasatya/digital-legacy/pkg/response"
	"github.com/oksasatya/digital-legacy/pkg/validation"
)

type AccountHandler struct {
	Svc    *application.AccountService
	Logger *logrus.Logger
}

func NewAccountHandler(svc *application.AccountService, logger *logrus.Logger) *AccountHandler {
	return &AccountHandler{Svc: svc, Logger: logger}
}

// accountRequest mirrors the account form: category_manual is used when
// category_select is "other".
type accountRequest struct {
	ServiceName    string `json:"service_name" binding:"required"`
	CategorySelect string `json:"category_select" binding:"required"`
	CategoryManual string `json:"category_manual" binding:"required_if=CategorySelect other"`
	Identifier     string `json:"identifier" binding:"required"`
	Action         string `json:"action" binding:"required,action"`
	Notes          string `json:"notes"`
}

func (r accountRequest) input() application.AccountInput {
	return application.AccountInput{
		ServiceName: r.ServiceName,
		Category:    application.ResolveCategory(r.CategorySelect, r.CategoryManual),
		Identifier:  r.Identifier,
		Action:      r.Action,
		Notes:       r.Notes,
	}
}

func accountJSON(a entity.Account) gin.H {
	return gin.H{
		"id":           a.ID,
		"service_name": a.ServiceName,
		"category":     a.Category,
		"identifier":   a.Identifier,
		"action":       a.Action,
		"notes":        a.Notes,
		"status":       a.Status,
		"created_at":   a.CreatedAt,
		"updated_at":   a.UpdatedAt,
	}
}

func accountsJSON(list []entity.Account) []gin.H {
	out := make([]gin.H, 0, len(list))
	for _, a := range list {
		out = append(out, accountJSON(a))
	}
	return out
}

func (h *AccountHandler) List(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, accountsJSON(list), "accounts", map[string]any{"count": len(list)})
}

func (h *AccountHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	a, err := h.Svc.Get(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, accountJSON(*a), "account", nil)
}

func (h *AccountHandler) Create(c *gin.Context) {
	var req accountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	a, err := h.Svc.Create(c.Request.Context(), middleware.UserID(c), req.input())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, accountJSON(*a), "account added", nil)
}

func (h *AccountHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req accountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	a, err := h.Svc.Update(c.Request.Context(), middleware.UserID(c), id, req.input())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, accountJSON(*a), "account updated", nil)
}

func (h *AccountHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "account deleted", nil)
}
