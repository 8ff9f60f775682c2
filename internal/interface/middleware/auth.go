package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/digital-legacy/pkg/helpers"
	"github.com/oksasatya/digital-legacy/pkg/response"
)

// CtxUserIDKey holds the authenticated user's int64 id.
const CtxUserIDKey = "userID"

// Auth validates the access token and, when Redis is configured, ensures the
// token's session is still the active one. It sets userID, userName and
// userEmail in the Gin context on success.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil || token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid access token", err.Error())
			c.Abort()
			return
		}

		if rdb != nil {
			key := "user:session:" + strconv.FormatInt(claims.UserID, 10)
			data, err := rdb.HGetAll(c.Request.Context(), key).Result()
			if err != nil || len(data) == 0 || data["sid"] != claims.SessionID {
				response.Error[any](c, http.StatusUnauthorized, "session not found", nil)
				c.Abort()
				return
			}
			c.Set("userName", data["name"])
			c.Set("userEmail", data["email"])
		}

		c.Set(CtxUserIDKey, claims.UserID)
		c.Next()
	}
}

// UserID returns the id set by Auth, or 0 when the request is anonymous.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(CtxUserIDKey)
}
