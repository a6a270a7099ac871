package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/magnus-copo/investor-api/internal/database"
	apierrors "github.com/magnus-copo/investor-api/internal/errors"
	"github.com/magnus-copo/investor-api/internal/models"
)

// RequireProjectAccess checks if the user participates in the project,
// creator included. The loaded project (members preloaded) is stored in
// the context for handlers.
func RequireProjectAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		projectIDStr := c.Param("id")
		projectID, err := strconv.ParseUint(projectIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var project models.Project
		if err := database.GetDB().
			Preload("Members").
			Preload("Members.User").
			First(&project, projectID).Error; err != nil {
			apierrors.NotFound(c, "Project not found")
			c.Abort()
			return
		}

		if !project.IsMember(userID) {
			// Return 404 instead of 403 to avoid leaking project existence
			apierrors.NotFound(c, "Project not found")
			c.Abort()
			return
		}

		c.Set("project", project)
		c.Next()
	}
}

// RequireProjectAdmin checks if the user administers the project loaded
// by RequireProjectAccess.
func RequireProjectAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		projectInterface, exists := c.Get("project")
		if !exists {
			apierrors.Forbidden(c, "Project access required")
			c.Abort()
			return
		}

		project, ok := projectInterface.(models.Project)
		if !ok {
			apierrors.InternalError(c, "Invalid project data")
			c.Abort()
			return
		}

		userID, _ := GetUserID(c)
		if !project.IsAdmin(userID) {
			apierrors.Forbidden(c, "Only project admins can perform this action")
			c.Abort()
			return
		}

		c.Next()
	}
}
