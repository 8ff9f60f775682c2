package helpers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/digital-legacy/pkg/mailer"
)

func TestNewLogger_Level(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, NewLogger("app", "development", "").GetLevel())
	assert.Equal(t, logrus.InfoLevel, NewLogger("app", "production", "").GetLevel())
	assert.Equal(t, logrus.WarnLevel, NewLogger("app", "production", "warn").GetLevel())
	assert.Equal(t, logrus.InfoLevel, NewLogger("app", "production", "loud").GetLevel())
}

func TestRequestEntry(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	r := gin.New()
	r.GET("/plan", func(c *gin.Context) {
		c.Set("request_id", "req-1")
		c.Set("real_ip", "10.0.0.9")
		RequestEntry(logger, c).Error("boom")
		c.Status(http.StatusNoContent)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/plan", nil))

	out := buf.String()
	assert.Contains(t, out, `"request_id":"req-1"`)
	assert.Contains(t, out, `"ip":"10.0.0.9"`)
	assert.Contains(t, out, `"path":"/plan"`)
}

func TestPassword(t *testing.T) {
	PasswordCost = bcrypt.MinCost
	t.Cleanup(func() { PasswordCost = bcrypt.DefaultCost })

	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "password123"))
	assert.False(t, CheckPassword(hash, "password124"))

	_, err = HashPassword(strings.Repeat("x", 73))
	assert.ErrorIs(t, err, bcrypt.ErrPasswordTooLong)

	BurnPasswordCheck("anything")
}

func TestJWT_RoundTrip(t *testing.T) {
	m := NewJWTManager("a-secret", "r-secret", time.Minute, time.Hour)
	tok, _, err := m.GenerateAccessToken(42, "sid-1")
	require.NoError(t, err)

	claims, err := m.ParseAccessToken(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "sid-1", claims.SessionID)

	_, err = m.ParseRefreshToken(tok)
	assert.Error(t, err, "access token must not verify with the refresh secret")
}

func TestJSONPublishing(t *testing.T) {
	msg, err := jsonPublishing(mailer.EmailJob{To: "carol@example.com", Template: "plan_executed"}, "digital-legacy")
	require.NoError(t, err)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, "email.plan_executed", msg.Type)
	assert.Equal(t, "digital-legacy", msg.AppId)
	assert.NotEmpty(t, msg.MessageId)
	assert.Contains(t, string(msg.Body), `"to":"carol@example.com"`)

	msg, err = jsonPublishing(map[string]string{"k": "v"}, "")
	require.NoError(t, err)
	assert.Empty(t, msg.Type)
}
