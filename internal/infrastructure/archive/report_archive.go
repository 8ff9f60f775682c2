package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strconv"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/digital-legacy/internal/application"
	"github.com/oksasatya/digital-legacy/pkg/helpers"
)

// UploadFunc stores r at objectPath and returns its URI.
type UploadFunc func(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)

// ReportArchive writes a JSON record of each execution to object storage.
type ReportArchive struct {
	Upload UploadFunc
	Prefix string
	Logger *logrus.Logger
}

// NewGCSReportArchive uploads reports into bucket.
func NewGCSReportArchive(client *storage.Client, bucket string, logger *logrus.Logger) *ReportArchive {
	return &ReportArchive{
		Upload: func(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
			return helpers.UploadObject(ctx, client, bucket, objectPath, r, helpers.UploadOptions{
				ContentType: contentType,
				Metadata:    map[string]string{"kind": "execution-report"},
				CreateOnly:  true,
			})
		},
		Prefix: "execution-reports",
		Logger: logger,
	}
}

func (a *ReportArchive) Name() string { return "gcs_report" }

type reportAccount struct {
	ID          int64  `json:"id"`
	ServiceName string `json:"service_name"`
	Category    string `json:"category"`
	Action      string `json:"action"`
	Status      string `json:"status"`
}

type reportLog struct {
	ID          int64     `json:"id"`
	AccountID   *int64    `json:"account_id,omitempty"`
	ActionTaken string    `json:"action_taken"`
	Timestamp   time.Time `json:"timestamp"`
}

type report struct {
	UserID     int64           `json:"user_id"`
	UserEmail  string          `json:"user_email"`
	Trigger    string          `json:"trigger"`
	ExecutedBy string          `json:"executed_by,omitempty"`
	ExecutedAt time.Time       `json:"executed_at"`
	Accounts   []reportAccount `json:"accounts"`
	Logs       []reportLog     `json:"logs"`
}

// ObjectPath is <prefix>/<user_id>/<unix>-<uuid>.json.
func (a *ReportArchive) ObjectPath(userID int64, at time.Time) string {
	name := strconv.FormatInt(at.UTC().Unix(), 10) + "-" + uuid.NewString() + ".json"
	return path.Join(a.Prefix, strconv.FormatInt(userID, 10), name)
}

func (a *ReportArchive) AfterExecute(ctx context.Context, r application.ExecutionReport) error {
	if a.Upload == nil {
		return nil
	}
	rep := report{
		UserID:     r.User.ID,
		UserEmail:  r.User.Email,
		Trigger:    string(r.Trigger),
		ExecutedBy: r.ExecutedBy,
		ExecutedAt: r.ExecutedAt.UTC(),
		Accounts:   make([]reportAccount, 0, len(r.Accounts)),
		Logs:       make([]reportLog, 0, len(r.Logs)),
	}
	for _, acc := range r.Accounts {
		rep.Accounts = append(rep.Accounts, reportAccount{
			ID: acc.ID, ServiceName: acc.ServiceName, Category: acc.Category,
			Action: string(acc.Action), Status: string(acc.Status),
		})
	}
	for _, l := range r.Logs {
		rep.Logs = append(rep.Logs, reportLog{ID: l.ID, AccountID: l.AccountID, ActionTaken: l.ActionTaken, Timestamp: l.Timestamp.UTC()})
	}

	b, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	objectPath := a.ObjectPath(r.User.ID, r.ExecutedAt)
	uri, err := a.Upload(ctx, objectPath, "application/json", bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("upload report %s: %w", objectPath, err)
	}
	if a.Logger != nil {
		a.Logger.WithFields(logrus.Fields{"user_id": r.User.ID, "object": uri}).Info("execution report archived")
	}
	return nil
}

var _ application.ExecutionHook = (*ReportArchive)(nil)
