package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/digital-legacy/internal/application"
	"github.com/oksasatya/digital-legacy/internal/domain/entity"
	"github.com/oksasatya/digital-legacy/internal/infrastructure/lock"
	"github.com/oksasatya/digital-legacy/internal/infrastructure/sqlite"
	handlers "github.com/oksasatya/digital-legacy/internal/interface/http"
	"github.com/oksasatya/digital-legacy/internal/interface/middleware"
	"github.com/oksasatya/digital-legacy/internal/testutil"
	"github.com/oksasatya/digital-legacy/pkg/helpers"
	"github.com/oksasatya/digital-legacy/pkg/validation"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validation.Init()
	os.Exit(m.Run())
}

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

type server struct {
	router *gin.Engine
	store  *sqlite.Store
	jwt    *helpers.JWTManager
}

// newServer mounts every handler the way the router modules do, with Redis disabled.
func newServer(t *testing.T) *server {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(bytes.NewBuffer(nil))
	store := testutil.NewTestStore(t)
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Hour, 24*time.Hour)

	plan := application.NewPlanService(store, lock.NewKeyedMutex(), testutil.TickingClock(time.Second), logger)
	users := handlers.NewUserHandler(application.NewUserService(store, jwt, nil, logger), logger, "", false)
	accounts := handlers.NewAccountHandler(application.NewAccountService(store, logger), logger)
	contacts := handlers.NewContactHandler(application.NewContactService(store, nil, logger), logger)
	plans := handlers.NewPlanHandler(plan, logger)
	executor := handlers.NewExecutorHandler(application.NewExecutorService(store, plan, logger), logger)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/register", users.Register)
	api.POST("/login", users.Login)
	api.POST("/executor", executor.Execute)

	auth := api.Group("/")
	auth.Use(middleware.Auth(nil, jwt))
	auth.GET("/profile", users.GetProfile)
	auth.GET("/dashboard", users.Dashboard)
	auth.GET("/accounts", accounts.List)
	auth.POST("/accounts", accounts.Create)
	auth.GET("/accounts/:id", accounts.Get)
	auth.PUT("/accounts/:id", accounts.Update)
	auth.DELETE("/accounts/:id", accounts.Delete)
	auth.POST("/contacts", contacts.Create)
	auth.GET("/contacts", contacts.List)
	auth.GET("/plan", plans.View)
	auth.POST("/plan/execute", plans.Execute)
	auth.GET("/plan/result", plans.Result)
	auth.GET("/plan/logs/search", plans.SearchLogs)

	return &server{router: r, store: store, jwt: jwt}
}

// tokenFor issues an access cookie for userID without going through login.
func (s *server) tokenFor(t *testing.T, userID int64) *http.Cookie {
	t.Helper()
	tok, _, err := s.jwt.GenerateAccessToken(userID, "test-session")
	require.NoError(t, err)
	return &http.Cookie{Name: "access_token", Value: tok}
}

func (s *server) do(t *testing.T, method, path string, body any, cookie *http.Cookie) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func TestRegisterAndLogin(t *testing.T) {
	s := newServer(t)

	w, env := s.do(t, http.MethodPost, "/api/register", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "password123",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)

	w, _ = s.do(t, http.MethodPost, "/api/register", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "password123",
	}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/login", map[string]string{
		"email": "ada@example.com", "password": "wrong-password",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/login", map[string]string{
		"email": "ada@example.com", "password": "password123",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var access *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "access_token" {
			access = c
		}
	}
	require.NotNil(t, access)

	w, env = s.do(t, http.MethodGet, "/api/profile", nil, &http.Cookie{Name: access.Name, Value: access.Value})
	require.Equal(t, http.StatusOK, w.Code)
	var profile map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "ada@example.com", profile["email"])
	assert.Equal(t, false, profile["is_deceased"])
}

func TestRegister_ValidationDetails(t *testing.T) {
	s := newServer(t)
	w, env := s.do(t, http.MethodPost, "/api/register", map[string]string{
		"name": "Ada", "email": "not-an-email", "password": "short",
	}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, string(env.Error), "email")
	assert.Contains(t, string(env.Error), "password")
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	s := newServer(t)
	w, _ := s.do(t, http.MethodGet, "/api/accounts", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/accounts", nil, &http.Cookie{Name: "access_token", Value: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAccounts_CRUD(t *testing.T) {
	s := newServer(t)
	u := testutil.SeedUser(t, s.store, "Ada", "ada@example.com")
	cookie := s.tokenFor(t, u.ID)

	w, env := s.do(t, http.MethodPost, "/api/accounts", map[string]string{
		"service_name":    "Old Forum",
		"category_select": "other",
		"category_manual": "Hobby",
		"identifier":      "ada99",
		"action":          "archive",
	}, cookie)
	require.Equal(t, http.StatusCreated, w.Code)
	var created map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "Hobby", created["category"])
	assert.Equal(t, "active", created["status"])
	id := strconv.FormatInt(int64(created["id"].(float64)), 10)

	w, env = s.do(t, http.MethodPut, "/api/accounts/"+id, map[string]string{
		"service_name":    "Old Forum",
		"category_select": "Social Media",
		"identifier":      "ada99",
		"action":          "delete",
	}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var updated map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Social Media", updated["category"])
	assert.Equal(t, "delete", updated["action"])

	w, _ = s.do(t, http.MethodDelete, "/api/accounts/"+id, nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/accounts/"+id, nil, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAccounts_RejectsBadInput(t *testing.T) {
	s := newServer(t)
	u := testutil.SeedUser(t, s.store, "Ada", "ada@example.com")
	cookie := s.tokenFor(t, u.ID)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"unknown action", map[string]string{"service_name": "Gmail", "category_select": "Email", "identifier": "a", "action": "shred"}},
		{"other without manual category", map[string]string{"service_name": "Gmail", "category_select": "other", "identifier": "a", "action": "delete"}},
		{"missing service", map[string]string{"category_select": "Email", "identifier": "a", "action": "delete"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := s.do(t, http.MethodPost, "/api/accounts", tt.body, cookie)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.False(t, env.Success)
		})
	}

	w, _ := s.do(t, http.MethodGet, "/api/accounts/abc", nil, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAccounts_OtherUsersAccountIsForbidden(t *testing.T) {
	s := newServer(t)
	owner := testutil.SeedUser(t, s.store, "Ada", "ada@example.com")
	other := testutil.SeedUser(t, s.store, "Bob", "bob@example.com")
	acc := testutil.SeedAccount(t, s.store, owner.ID, "Gmail", entity.ActionDelete)

	path := "/api/accounts/" + strconv.FormatInt(acc.ID, 10)
	w, _ := s.do(t, http.MethodDelete, path, nil, s.tokenFor(t, other.ID))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(t, http.MethodGet, path, nil, s.tokenFor(t, owner.ID))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPlan_ExecuteAndResult(t *testing.T) {
	s := newServer(t)
	u := testutil.SeedUser(t, s.store, "Ada", "ada@example.com")
	testutil.SeedAccount(t, s.store, u.ID, "Gmail", entity.ActionDelete)
	testutil.SeedAccount(t, s.store, u.ID, "Facebook", entity.ActionMemorialize)
	cookie := s.tokenFor(t, u.ID)

	w, env := s.do(t, http.MethodPost, "/api/plan/execute", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var logs []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &logs))
	require.Len(t, logs, 2)
	assert.Equal(t, "Gmail: Marked for deletion", logs[0]["action_taken"])

	w, env = s.do(t, http.MethodGet, "/api/plan/result", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var result struct {
		Logs     []map[string]any `json:"logs"`
		Accounts []map[string]any `json:"accounts"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.Len(t, result.Logs, 2)
	// most recent first
	assert.Equal(t, "Facebook: Marked for memorialization", result.Logs[0]["action_taken"])
	assert.Equal(t, "marked_for_deletion", result.Accounts[0]["status"])
	assert.Equal(t, "memorialized", result.Accounts[1]["status"])

	w, env = s.do(t, http.MethodGet, "/api/dashboard", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"is_deceased":true`)
}

func TestPlan_SearchLogs(t *testing.T) {
	s := newServer(t)
	u := testutil.SeedUser(t, s.store, "Ada", "ada@example.com")
	cookie := s.tokenFor(t, u.ID)

	w, _ := s.do(t, http.MethodGet, "/api/plan/logs/search", nil, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// no index configured: empty result rather than an error
	w, env := s.do(t, http.MethodGet, "/api/plan/logs/search?q=gmail", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestExecutorPortal(t *testing.T) {
	s := newServer(t)
	u := testutil.SeedUser(t, s.store, "Ada", "ada@example.com")
	testutil.SeedAccount(t, s.store, u.ID, "Dropbox", entity.ActionArchive)
	testutil.SeedContact(t, s.store, u.ID, "Carol", "carol@example.com", true)

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"empty body", nil, http.StatusBadRequest},
		{"missing deceased", map[string]string{"contact_email": "carol@example.com"}, http.StatusBadRequest},
		{"unknown user", map[string]string{"contact_email": "carol@example.com", "deceased_email": "nobody@example.com"}, http.StatusNotFound},
		{"not a contact", map[string]string{"contact_email": "mallory@example.com", "deceased_email": "ada@example.com"}, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := s.do(t, http.MethodPost, "/api/executor", tt.body, nil)
			assert.Equal(t, tt.status, w.Code)
			assert.False(t, env.Success)
		})
	}

	logs, err := s.store.Repos().Logs.ListByUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Empty(t, logs, "rejected requests must not execute the plan")

	w, env := s.do(t, http.MethodPost, "/api/executor", map[string]string{
		"contact_email":  " carol@example.com ",
		"deceased_email": "ada@example.com",
		"message":        "per her wishes",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Deceased map[string]string `json:"deceased"`
		Executor map[string]string `json:"executor"`
		Accounts []map[string]any  `json:"accounts"`
		Logs     []map[string]any  `json:"logs"`
		Message  string            `json:"message"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, "Ada", res.Deceased["name"])
	assert.Equal(t, "carol@example.com", res.Executor["email"])
	assert.Equal(t, "archived", res.Accounts[0]["status"])
	require.Len(t, res.Logs, 1)
	assert.Equal(t, "Dropbox: Marked for archiving", res.Logs[0]["action_taken"])
	assert.Equal(t, "per her wishes", res.Message)
}
