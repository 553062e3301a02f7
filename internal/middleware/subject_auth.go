package middleware

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"studytracker/internal/constants"
	apierrors "studytracker/internal/errors"
	"studytracker/internal/services"
)

// RequireSubjectAccess checks that the caller is a member (owner or
// subscriber) of the subject in the URL. A missing subject is 404; an
// existing subject the caller has no relation to is 403. The resolved
// access level is stored in context for downstream handlers.
func RequireSubjectAccess(subjects *services.SubjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		subjectIDStr := c.Param("id")
		subjectID, err := strconv.ParseUint(subjectIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid subject ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		access, err := subjects.ResolveAccess(subjectID, userID)
		if err != nil {
			if errors.Is(err, services.ErrSubjectNotFound) {
				apierrors.NotFound(c, "Subject not found")
			} else {
				apierrors.InternalError(c, err.Error())
			}
			c.Abort()
			return
		}

		if !access.IsMember() {
			apierrors.Forbidden(c, "You are not a member of this subject")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyAccess, access)
		c.Next()
	}
}

// GetSubjectAccess retrieves the access level stored by RequireSubjectAccess.
func GetSubjectAccess(c *gin.Context) (services.AccessLevel, bool) {
	value, exists := c.Get(constants.ContextKeyAccess)
	if !exists {
		return services.AccessNone, false
	}

	access, ok := value.(services.AccessLevel)
	if !ok {
		return services.AccessNone, false
	}
	return access, true
}
