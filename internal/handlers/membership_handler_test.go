package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"footwork_backend/internal/auth"
	"footwork_backend/internal/config"
	"footwork_backend/internal/models"
	"footwork_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseRoutesAreThrottled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TTL = 60
	config.AppConfig = cfg

	// a limiter that always rejects; services are never reached
	throttled := func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
	}
	h := NewMembershipHandler(NewBaseHandler(validator.New()), nil, nil, throttled)

	router := gin.New()
	h.RegisterRoutes(router.Group("/api/v1"))

	token, err := auth.GenerateToken("u-1", string(models.UserRoleCandidate))
	require.NoError(t, err)

	for _, path := range []string{
		"/api/v1/memberships/checkout",
		"/api/v1/memberships/confirm",
		"/api/v1/memberships/upgrade",
	} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader("{}"))
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusTooManyRequests, w.Code, path)
	}
}
