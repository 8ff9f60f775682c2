package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/digital-legacy/internal/application"
	"github.com/oksasatya/digital-legacy/internal/domain/entity"
	"github.com/oksasatya/digital-legacy/pkg/helpers"
)

const requestTimeout = 3 * time.Second

// LogIndex mirrors execution log entries into Elasticsearch for free-text search.
// The database stays the source of truth.
type LogIndex struct {
	ES     *elasticsearch.Client
	Index  string
	Logger *logrus.Logger
}

func NewLogIndex(es *elasticsearch.Client, index string, logger *logrus.Logger) *LogIndex {
	return &LogIndex{ES: es, Index: index, Logger: logger}
}

func (l *LogIndex) Name() string { return "elasticsearch" }

// logMapping keeps user_id exact for the per-user filter and action_taken analysed for search.
var logMapping = []byte(`{
  "mappings": {
    "properties": {
      "id":           {"type": "long"},
      "user_id":      {"type": "long"},
      "account_id":   {"type": "long"},
      "action_taken": {"type": "text"},
      "timestamp":    {"type": "date"},
      "trigger":      {"type": "keyword"},
      "executed_by":  {"type": "keyword"}
    }
  }
}`)

// EnsureIndex creates the log index with its mapping on first start.
func (l *LogIndex) EnsureIndex(ctx context.Context) error {
	if l.ES == nil || l.Index == "" {
		return nil
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	return helpers.EnsureIndex(c, l.ES, l.Index, logMapping)
}

func logDocument(e entity.ExecutionLog, r application.ExecutionReport) map[string]any {
	doc := map[string]any{
		"id":           e.ID,
		"user_id":      e.UserID,
		"action_taken": e.ActionTaken,
		"timestamp":    e.Timestamp.UTC().Format(time.RFC3339Nano),
		"trigger":      string(r.Trigger),
	}
	if e.AccountID != nil {
		doc["account_id"] = *e.AccountID
	}
	if r.ExecutedBy != "" {
		doc["executed_by"] = r.ExecutedBy
	}
	return doc
}

func (l *LogIndex) AfterExecute(ctx context.Context, r application.ExecutionReport) error {
	if l.ES == nil || l.Index == "" {
		return nil
	}
	var errs []error
	for _, e := range r.Logs {
		if err := l.indexLog(ctx, logDocument(e, r), strconv.FormatInt(e.ID, 10)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (l *LogIndex) indexLog(ctx context.Context, doc map[string]any, id string) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: l.Index, DocumentID: id, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, l.ES)
	if err != nil {
		return fmt.Errorf("index log %s: %w", id, err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		if l.Logger != nil {
			l.Logger.WithField("status", res.Status()).WithField("log_id", id).Warn("es index response error")
		}
		return fmt.Errorf("index log %s: %s", id, res.Status())
	}
	return nil
}

// SearchLogs matches q against action_taken within one user's entries, newest first.
func (l *LogIndex) SearchLogs(ctx context.Context, userID int64, q string, size int) ([]map[string]any, error) {
	if l.ES == nil || l.Index == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": []any{
					map[string]any{"match": map[string]any{"action_taken": q}},
				},
				"filter": []any{
					map[string]any{"term": map[string]any{"user_id": userID}},
				},
			},
		},
		"sort": []any{map[string]any{"timestamp": "desc"}},
		"size": size,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("encode search query: %w", err)
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := l.ES.Search(l.ES.Search.WithContext(c), l.ES.Search.WithIndex(l.Index), l.ES.Search.WithBody(bytes.NewReader(b)))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("search logs: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

var (
	_ application.ExecutionHook = (*LogIndex)(nil)
	_ application.LogSearcher   = (*LogIndex)(nil)
)
