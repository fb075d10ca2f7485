package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"footwork_backend/internal/auth"
	"footwork_backend/internal/config"
	"footwork_backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TTL = 60
	config.AppConfig = cfg

	router := gin.New()
	protected := router.Group("/protected")
	protected.Use(AuthMiddleware())
	{
		protected.GET("/any", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c)})
		})
	}

	adminOnly := router.Group("/admin")
	adminOnly.Use(AuthMiddleware(), RequireRoles(models.UserRoleAdmin))
	{
		adminOnly.GET("/ping", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
	}

	candidateOrAdmin := router.Group("/mixed")
	candidateOrAdmin.Use(AuthMiddleware(), RequireRoles(models.UserRoleCandidate, models.UserRoleAdmin))
	{
		candidateOrAdmin.GET("/ping", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
	}

	return router
}

func doRequest(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	router := setupAuthTest(t)
	w := doRequest(router, "/protected/any", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareGarbageToken(t *testing.T) {
	router := setupAuthTest(t)
	w := doRequest(router, "/protected/any", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	router := setupAuthTest(t)
	token, err := auth.GenerateToken("u-1", string(models.UserRoleCandidate))
	require.NoError(t, err)

	w := doRequest(router, "/protected/any", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u-1")
}

func TestRequireRolesRejectsWrongRole(t *testing.T) {
	router := setupAuthTest(t)
	token, err := auth.GenerateToken("u-1", string(models.UserRoleCandidate))
	require.NoError(t, err)

	w := doRequest(router, "/admin/ping", token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRolesAllowsListedRoles(t *testing.T) {
	router := setupAuthTest(t)

	adminToken, err := auth.GenerateToken("a-1", string(models.UserRoleAdmin))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, doRequest(router, "/admin/ping", adminToken).Code)

	candidateToken, err := auth.GenerateToken("u-1", string(models.UserRoleCandidate))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, doRequest(router, "/mixed/ping", candidateToken).Code)

	teamToken, err := auth.GenerateToken("t-1", string(models.UserRoleTeam))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, doRequest(router, "/mixed/ping", teamToken).Code)
}
