package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/kanso-report/internal/core/services"
)

const (
	authorizationHeader = "Authorization"
	authorizationType   = "Bearer"
	ContextSubjectKey   = "subject"

	// tokenQueryParam lets <img> and download links for the heat map and the
	// PDF authenticate without setting headers.
	tokenQueryParam = "token"
)

// AuthMiddleware accepts a bearer token from the Authorization header or,
// failing that, from the "token" query parameter. Rejections are logged with
// the request path and client address.
func AuthMiddleware(tokenService *services.TokenService, log logrus.FieldLogger) gin.HandlerFunc {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return func(c *gin.Context) {
		token, reason := bearerToken(c)
		if token == "" {
			reject(c, log, reason, nil)
			return
		}

		subject, err := tokenService.ValidateToken(token)
		if err != nil {
			reject(c, log, "invalid or expired token", err)
			return
		}

		c.Set(ContextSubjectKey, subject)

		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, string) {
	authHeader := c.GetHeader(authorizationHeader)
	if authHeader == "" {
		if token := c.Query(tokenQueryParam); token != "" {
			return token, ""
		}
		return "", "authorization header required"
	}

	fields := strings.Fields(authHeader)
	if len(fields) < 2 || fields[0] != authorizationType {
		return "", "invalid authorization header format"
	}
	return fields[1], ""
}

func reject(c *gin.Context, log logrus.FieldLogger, reason string, err error) {
	entry := log.WithFields(logrus.Fields{
		"path":   c.Request.URL.Path,
		"client": c.ClientIP(),
		"reason": reason,
	})
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Warn("report api request rejected")

	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": reason})
}

func GetSubject(c *gin.Context) (string, bool) {
	v, exists := c.Get(ContextSubjectKey)
	if !exists {
		return "", false
	}
	subject, ok := v.(string)
	return subject, ok
}
