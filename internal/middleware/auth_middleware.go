package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"facility_crm_backend/internal/models"
	"facility_crm_backend/internal/services"
	"facility_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID  = "userID"
	ContextRole    = "userRole"
	ContextProfile = "profile"
)

// APIKeyMiddleware rejects requests whose "apikey" header does not match key.
func APIKeyMiddleware(key string) gin.HandlerFunc {
	expected := []byte(key)
	return func(c *gin.Context) {
		got := []byte(c.GetHeader("apikey"))
		if len(got) == 0 || subtle.ConstantTimeCompare(got, expected) != 1 {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Missing or invalid API key", ""))
			return
		}
		c.Next()
	}
}

// AuthMiddleware creates a Gin middleware for JWT authentication. The token
// subject is looked up in the profiles table on every request.
func AuthMiddleware(secret []byte, profiles services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authorization header required", ""))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid authorization header format. Use Bearer <token>", ""))
			return
		}

		claims, err := utils.ValidateToken(parts[1], secret)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid or expired token", err.Error()))
			return
		}

		profile, err := profiles.GetProfile(c.Request.Context(), claims.Subject)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrProfileNotFound), errors.Is(err, services.ErrForbidden):
				utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "No access profile for this account", ""))
			default:
				utils.LogError(err, "Failed to load profile for user "+claims.Subject)
				utils.RespondWithError(c, utils.NewAPIError(http.StatusServiceUnavailable, utils.ErrCodeUnavailable, "Could not verify access, try again", ""))
			}
			return
		}

		// Set user information in the context for downstream handlers
		c.Set(ContextUserID, profile.ID)
		c.Set(ContextRole, profile.Role)
		c.Set(ContextProfile, profile)

		c.Next()
	}
}

// RoleAuthMiddleware creates a Gin middleware for role-based authorization.
// It checks if the profile role is one of the allowed roles.
func RoleAuthMiddleware(allowedRoles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get(ContextRole)
		if !exists {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "User role not found. Ensure AuthMiddleware runs first.", ""))
			return
		}

		role, _ := userRole.(models.Role)
		for _, r := range allowedRoles {
			if role == r {
				c.Next()
				return
			}
		}

		names := make([]string, len(allowedRoles))
		for i, r := range allowedRoles {
			names[i] = string(r)
		}
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden,
			"You do not have permission to access this resource", "required roles: "+strings.Join(names, ", ")))
	}
}

// CurrentProfile returns the profile AuthMiddleware attached to the request.
func CurrentProfile(c *gin.Context) (*models.UserProfile, bool) {
	v, ok := c.Get(ContextProfile)
	if !ok {
		return nil, false
	}
	profile, ok := v.(*models.UserProfile)
	return profile, ok
}
