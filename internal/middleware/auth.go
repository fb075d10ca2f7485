package middleware

import (
	"net/http"
	"strings"

	"footwork_backend/internal/auth"
	"footwork_backend/internal/logger"
	"footwork_backend/internal/models"
	"footwork_backend/internal/repositories"
	"footwork_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthMiddleware validates the bearer token and stores the caller's identity
// in the gin context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing or invalid"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := auth.ParseToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("role", claims.Role)

		ctx := logger.WithUserID(c.Request.Context(), claims.UserID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRoles rejects callers whose role is not in the allowed set.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]bool)
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		role, ok := callerRole(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: no role"})
			return
		}
		if !roleSet[role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: insufficient role"})
			return
		}
		c.Next()
	}
}

// RequireApprovedTeam allows only team accounts that an admin has approved.
// The flag lives in the database, not the token, so approval takes effect
// without re-login.
func RequireApprovedTeam(userRepo repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := callerRole(c)
		if !ok || role != models.UserRoleTeam {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: team account required"})
			return
		}

		db, exists := c.Get(string(contextkeys.DBContextKey))
		gormDB, dbOK := db.(*gorm.DB)
		if !exists || !dbOK {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Database not available"})
			return
		}

		user, err := userRepo.FindByID(gormDB, GetUserID(c))
		if err != nil || !user.IsApproved {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Team account is pending approval"})
			return
		}
		c.Next()
	}
}

func callerRole(c *gin.Context) (models.UserRole, bool) {
	roleVal, exists := c.Get("role")
	if !exists {
		return "", false
	}
	if role, ok := roleVal.(models.UserRole); ok {
		return role, true
	}
	if roleStr, ok := roleVal.(string); ok {
		return models.UserRole(roleStr), true
	}
	return "", false
}

// GetUserID extracts the authenticated user id from the gin context.
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get("userID")
	if !exists {
		return ""
	}
	id, ok := userID.(string)
	if !ok {
		return ""
	}
	return id
}
