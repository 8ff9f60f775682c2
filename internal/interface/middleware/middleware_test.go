package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/digital-legacy/pkg/helpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuth_WithoutRedis(t *testing.T) {
	jwt := helpers.NewJWTManager("a", "r", time.Minute, time.Hour)
	r := gin.New()
	r.GET("/me", Auth(nil, jwt), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": UserID(c)})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, _, err := jwt.GenerateAccessToken(42, "sid-1")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uid":42}`, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "garbage"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOnlyIf_PrivateIP(t *testing.T) {
	r := gin.New()
	r.Use(RealIP(false))
	r.GET("/debug", OnlyIf(AllowPrivateIP()), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/debug", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/debug", nil)
	req.RemoteAddr = "8.8.8.8:5555"
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "6f1c2a9e-3f5e-4d8e-9a1b-2c3d4e5f6a7b")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "6f1c2a9e-3f5e-4d8e-9a1b-2c3d4e5f6a7b", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "not-a-uuid")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "not-a-uuid", w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get("X-Request-ID"))
}

func TestRateLimit_NilRedisPassesThrough(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimit(nil, 1, time.Minute, KeyByIP(), nil), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRealIP_ForwardedHeaders(t *testing.T) {
	tests := []struct {
		name       string
		trustProxy bool
		header     string
		want       string
	}{
		{"untrusted header ignored", false, "10.0.0.1", "8.8.8.8"},
		{"trusted left-most hop", true, "10.0.0.1, 172.16.0.1", "10.0.0.1"},
		{"trusted but malformed", true, "not-an-ip", "8.8.8.8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(RealIP(tt.trustProxy))
			r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(CtxRealIPKey)) })

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "8.8.8.8:5555"
			req.Header.Set("X-Forwarded-For", tt.header)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Body.String())
		})
	}
}
