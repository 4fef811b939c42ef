package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/timmy/learnx/internal/domain"
	"github.com/timmy/learnx/internal/logger"
)

// ProjectKeyHeader is the header clients put the project key in.
const ProjectKeyHeader = "apikey"

// ProjectKey rejects requests that do not present the project key.
// The key is accepted from the apikey header, an Authorization bearer token,
// or the apikey query parameter (browsers cannot set headers on websockets).
func ProjectKey(key string) gin.HandlerFunc {
	want := []byte(key)
	return func(c *gin.Context) {
		got := RequestProjectKey(c.Request)
		if got == "" || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
			logger.CtxWarn(c.Request.Context(), "Rejected request without valid project key: path=%s", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusUnauthorized, domain.ErrorResponse{Error: "invalid or missing project key"})
			return
		}
		c.Next()
	}
}

// RequestProjectKey returns the project key a request carries, or "".
func RequestProjectKey(r *http.Request) string {
	if key := r.Header.Get(ProjectKeyHeader); key != "" {
		return key
	}
	if auth := r.Header.Get("Authorization"); len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return r.URL.Query().Get(ProjectKeyHeader)
}
