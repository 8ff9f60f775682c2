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

type ContactHandler struct {
	Svc    *application.ContactService
	Logger *logrus.Logger
}

func NewContactHandler(svc *application.ContactService, logger *logrus.Logger) *ContactHandler {
	return &ContactHandler{Svc: svc, Logger: logger}
}

type contactRequest struct {
	Name         string `json:"name" binding:"required"`
	Relationship string `json:"relationship"`
	Email        string `json:"email" binding:"required,email"`
	IsPrimary    bool   `json:"is_primary"`
}

func (r contactRequest) input() application.ContactInput {
	return application.ContactInput{Name: r.Name, Relationship: r.Relationship, Email: r.Email, IsPrimary: r.IsPrimary}
}

func contactJSON(ct entity.TrustedContact) gin.H {
	return gin.H{
		"id":           ct.ID,
		"name":         ct.Name,
		"relationship": ct.Relationship,
		"email":        ct.Email,
		"is_primary":   ct.IsPrimary,
		"created_at":   ct.CreatedAt,
		"updated_at":   ct.UpdatedAt,
	}
}

func contactsJSON(list []entity.TrustedContact) []gin.H {
	out := make([]gin.H, 0, len(list))
	for _, ct := range list {
		out = append(out, contactJSON(ct))
	}
	return out
}

func (h *ContactHandler) List(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, contactsJSON(list), "contacts", map[string]any{"count": len(list)})
}

func (h *ContactHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	ct, err := h.Svc.Get(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, contactJSON(*ct), "contact", nil)
}

func (h *ContactHandler) Create(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	ct, err := h.Svc.Create(c.Request.Context(), middleware.UserID(c), req.input())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, contactJSON(*ct), "contact added", nil)
}

func (h *ContactHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	ct, err := h.Svc.Update(c.Request.Context(), middleware.UserID(c), id, req.input())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, contactJSON(*ct), "contact updated", nil)
}

func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "contact deleted", nil)
}
