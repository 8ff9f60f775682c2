package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/digital-legacy/internal/application"
	"github.com/oksasatya/digital-legacy/pkg/response"
)

type ExecutorHandler struct {
	Svc    *application.ExecutorService
	Logger *logrus.Logger
}

func NewExecutorHandler(svc *application.ExecutorService, logger *logrus.Logger) *ExecutorHandler {
	return &ExecutorHandler{Svc: svc, Logger: logger}
}

// executorRequest is bound without binding tags so that empty fields reach
// the service and come back as its missing-input error.
type executorRequest struct {
	ContactEmail  string `json:"contact_email" form:"contact_email"`
	DeceasedEmail string `json:"deceased_email" form:"deceased_email"`
	Message       string `json:"message" form:"message"`
}

// Execute is the executor portal. It is public: membership in the deceased
// user's contact list is the only check.
func (h *ExecutorHandler) Execute(c *gin.Context) {
	var req executorRequest
	if err := c.ShouldBind(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", nil)
		return
	}
	res, err := h.Svc.AuthorizeAndExecute(c.Request.Context(), application.ExecutorRequest{
		ContactEmail:  req.ContactEmail,
		DeceasedEmail: req.DeceasedEmail,
		Message:       req.Message,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"deceased": gin.H{"name": res.Deceased.Name, "email": res.Deceased.Email},
		"executor": gin.H{"name": res.Contact.Name, "email": res.Contact.Email},
		"accounts": accountsJSON(res.Accounts),
		"logs":     logsJSON(res.Logs),
		"message":  res.Message,
	}, "plan executed", nil)
}
