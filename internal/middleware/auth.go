package middleware

import (
	"net/http"
	"strings"

	"notiq/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// identityKey is the gin context key carrying the authenticated email.
const identityKey = "authEmail"

// Auth returns middleware that validates a bearer JWT issued by the user
// service. The dispatch pipeline trusts the identity once authenticated
// and does not re-validate it downstream.
func Auth(jwtSecret string) gin.HandlerFunc {
	secret := []byte(jwtSecret)

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			common.Error(c, http.StatusUnauthorized, "missing Authorization header")
			c.Abort()
			return
		}

		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			common.Error(c, http.StatusUnauthorized, "invalid authentication scheme")
			c.Abort()
			return
		}

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid || claims.Subject == "" {
			common.Error(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(identityKey, claims.Subject)
		c.Next()
	}
}

// AuthenticatedEmail returns the email set by the Auth middleware, if any.
func AuthenticatedEmail(c *gin.Context) (string, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return "", false
	}
	email, ok := v.(string)
	return email, ok
}
