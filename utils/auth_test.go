package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(testSecret, time.Hour, "user-1", "Tech@Example.com", "Technician")
	require.NoError(t, err)

	claims, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.ID)
	assert.Equal(t, "tech@example.com", claims.Email)
	assert.Equal(t, "technician", claims.Role)
}

func TestParseTokenRejectsBadTokens(t *testing.T) {
	expired, err := GenerateToken(testSecret, -time.Minute, "user-1", "a@b.com", "admin")
	require.NoError(t, err)
	_, err = ParseToken(testSecret, expired)
	assert.Error(t, err)

	valid, err := GenerateToken(testSecret, time.Hour, "user-1", "a@b.com", "admin")
	require.NoError(t, err)
	_, err = ParseToken("other-secret", valid)
	assert.Error(t, err)

	_, err = GenerateToken("", time.Hour, "user-1", "a@b.com", "admin")
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("s3cret!", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func newAuthRouter() *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthMiddleware(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": c.GetString(ContextEmail), "role": c.GetString(ContextRole)})
	})
	r.GET("/admin", AuthMiddleware(testSecret), RequireRoles("Admin", "superadmin"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	r := newAuthRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := GenerateToken(testSecret, time.Hour, "user-1", "Admin@Example.com", "ADMIN")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"email":"admin@example.com","role":"admin"}`, w.Body.String())
}

func TestRequireRoles(t *testing.T) {
	r := newAuthRouter()

	for role, want := range map[string]int{
		"admin":      http.StatusNoContent,
		"SuperAdmin": http.StatusNoContent,
		"technician": http.StatusForbidden,
	} {
		token, err := GenerateToken(testSecret, time.Hour, "user-1", "x@example.com", role)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, role)
	}
}

func TestValidatePhone(t *testing.T) {
	assert.True(t, ValidatePhone("+91 98765-43210"))
	assert.False(t, ValidatePhone("(022) 1234 5678"))
	assert.False(t, ValidatePhone("abc"))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-01")
	require.NoError(t, err)
	assert.Equal(t, 2025, d.Year())

	_, err = ParseDate("2025-03-01T10:00:00Z")
	assert.NoError(t, err)

	_, err = ParseDate("01/03/2025")
	assert.Error(t, err)
}
