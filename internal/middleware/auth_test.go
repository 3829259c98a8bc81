package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-signing-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, secret string, claims jwt.RegisteredClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func runAuth(authHeader string) (*httptest.ResponseRecorder, *gin.Context) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/notifications/status/x", nil)
	if authHeader != "" {
		c.Request.Header.Set("Authorization", authHeader)
	}
	Auth(testSecret)(c)
	return w, c
}

func TestAuth_ValidToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.RegisteredClaims{
		Subject:   "ada@example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	w, c := runAuth("Bearer " + token)

	assert.False(t, c.IsAborted())
	assert.Equal(t, http.StatusOK, w.Code)

	email, ok := AuthenticatedEmail(c)
	require.True(t, ok)
	assert.Equal(t, "ada@example.com", email)
}

func TestAuth_MissingHeader(t *testing.T) {
	w, c := runAuth("")
	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_WrongScheme(t *testing.T) {
	w, c := runAuth("Basic abc123")
	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_ExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.RegisteredClaims{
		Subject:   "ada@example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})

	w, c := runAuth("Bearer " + token)
	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_WrongKey(t *testing.T) {
	token := signToken(t, "some-other-secret", jwt.RegisteredClaims{
		Subject:   "ada@example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	w, c := runAuth("Bearer " + token)
	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
