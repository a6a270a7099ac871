package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/magnus-copo/investor-api/internal/database"
	apierrors "github.com/magnus-copo/investor-api/internal/errors"
	"github.com/magnus-copo/investor-api/internal/models"
)

// RequireModificationAccess checks if the user has access to a
// modification request via membership in its project.
func RequireModificationAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestIDStr := c.Param("id")
		requestID, err := strconv.ParseUint(requestIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid modification request ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var request models.ModificationRequest
		if err := database.GetDB().First(&request, requestID).Error; err != nil {
			apierrors.NotFound(c, "Modification request not found")
			c.Abort()
			return
		}

		var project models.Project
		if err := database.GetDB().
			Preload("Members").
			First(&project, request.ProjectID).Error; err != nil {
			apierrors.NotFound(c, "Modification request not found")
			c.Abort()
			return
		}

		if !project.IsMember(userID) {
			apierrors.NotFound(c, "Modification request not found")
			c.Abort()
			return
		}

		c.Set("modification_request", request)
		c.Set("project", project)
		c.Next()
	}
}
