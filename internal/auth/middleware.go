package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Middleware resolves the bearer token, if any, and stores the principal on
// the request context. Requests without a token continue anonymously; a token
// that fails verification is rejected with 401. Browsers cannot set headers on
// websocket upgrades, so a "token" query parameter is accepted as well.
func Middleware(resolver Resolver, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			c.Next()
			return
		}

		principal, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			log.Debug("token rejected", zap.String("path", c.FullPath()), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), principal))
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
