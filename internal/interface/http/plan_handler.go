package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/digital-legacy/internal/application"
	"github.com/oksasatya/digital-legacy/internal/domain/entity"
	"github.com/oksasatya/digital-legacy/internal/interface/middleware"
	"github.com/oksasatya/digital-legacy/pkg/response"
)

type PlanHandler struct {
	Svc    *application.PlanService
	Logger *logrus.Logger
}

func NewPlanHandler(svc *application.PlanService, logger *logrus.Logger) *PlanHandler {
	return &PlanHandler{Svc: svc, Logger: logger}
}

func logJSON(l entity.ExecutionLog) gin.H {
	return gin.H{
		"id":           l.ID,
		"account_id":   l.AccountID,
		"action_taken": l.ActionTaken,
		"timestamp":    l.Timestamp,
	}
}

func logsJSON(list []entity.ExecutionLog) []gin.H {
	out := make([]gin.H, 0, len(list))
	for _, l := range list {
		out = append(out, logJSON(l))
	}
	return out
}

func (h *PlanHandler) View(c *gin.Context) {
	view, err := h.Svc.ViewPlan(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"accounts": accountsJSON(view.Accounts),
		"contacts": contactsJSON(view.Contacts),
	}, "plan", nil)
}

// Execute runs the caller's own plan. The caller is marked deceased afterwards.
func (h *PlanHandler) Execute(c *gin.Context) {
	logs, err := h.Svc.ExecuteForCaller(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, logsJSON(logs), "plan executed", map[string]any{"count": len(logs)})
}

func (h *PlanHandler) Result(c *gin.Context) {
	res, err := h.Svc.Result(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"logs":     logsJSON(res.Logs),
		"accounts": accountsJSON(res.Accounts),
	}, "execution result", nil)
}

func (h *PlanHandler) SearchLogs(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "q is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.SearchLogs(c.Request.Context(), middleware.UserID(c), q, size)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
}
