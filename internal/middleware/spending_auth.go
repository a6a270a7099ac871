package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/magnus-copo/investor-api/internal/database"
	apierrors "github.com/magnus-copo/investor-api/internal/errors"
	"github.com/magnus-copo/investor-api/internal/models"
)

// RequireSpendingAccess checks if the user has access to a spending
// record: they must participate in the record's project.
func RequireSpendingAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		recordIDStr := c.Param("id")
		recordID, err := strconv.ParseUint(recordIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid spending record ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var record models.SpendingRecord
		if err := database.GetDB().First(&record, recordID).Error; err != nil {
			apierrors.NotFound(c, "Spending record not found")
			c.Abort()
			return
		}

		var project models.Project
		if err := database.GetDB().
			Preload("Members").
			First(&project, record.ProjectID).Error; err != nil {
			apierrors.NotFound(c, "Spending record not found")
			c.Abort()
			return
		}

		if !project.IsMember(userID) {
			// Return 404 instead of 403 to avoid leaking record existence
			apierrors.NotFound(c, "Spending record not found")
			c.Abort()
			return
		}

		c.Set("spending_record", record)
		c.Set("project", project)
		c.Next()
	}
}
