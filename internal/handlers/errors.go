package handlers

import (
	"context"
	"errors"
	"net/http"

	"facility_crm_backend/internal/middleware"
	"facility_crm_backend/internal/repositories"
	"facility_crm_backend/internal/services"
	"facility_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps a service error to the API error envelope by its kind.
// action completes "Failed to ..." in the message shown for unexpected errors.
func respondServiceError(c *gin.Context, err error, action string) {
	switch services.KindOf(err) {
	case services.KindNotFound:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Resource not found.", err.Error()))
	case services.KindValidation:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
	case services.KindConflict:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Resource already exists.", err.Error()))
	case services.KindAuthorization:
		if errors.Is(err, services.ErrUnauthenticated) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authentication required.", ""))
			return
		}
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "You do not have access to this resource.", ""))
	default:
		utils.LogError(err, "Failed to "+action)
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, repositories.ErrDatabaseError) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusServiceUnavailable, utils.ErrCodeUnavailable, "Failed to "+action+", try again.", "Temporary error"))
			return
		}
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to "+action+".", "Internal error"))
	}
}

// bindJSON binds the request body, responding with 400 on failure.
func bindJSON(c *gin.Context, req interface{}, handlerName string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.LogWarn(err, handlerName+": Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return false
	}
	return true
}

// currentUserID returns the authenticated user's ID, if any.
func currentUserID(c *gin.Context) *string {
	if profile, ok := middleware.CurrentProfile(c); ok {
		id := profile.ID
		return &id
	}
	return nil
}
