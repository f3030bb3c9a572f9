package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mizow1/satelite-column11/internal/model"
)

const userContextKey = "currentUser"

type TokenResolver interface {
	GetByAPIToken(token string) (*model.User, error)
}

// AuthRequired resolves the bearer API token to a user. Unknown or missing
// tokens get a bare 401; the handler chain can assume currentUser is set.
func AuthRequired(users TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		user, err := users.GetByAPIToken(token)
		if err != nil {
			slog.Error("error resolving api token", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// CronAuthRequired gates scheduler endpoints with a shared secret distinct
// from user authentication.
func CronAuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" || bearerToken(c) != secret {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

func currentUser(c *gin.Context) *model.User {
	user, _ := c.MustGet(userContextKey).(*model.User)
	return user
}
