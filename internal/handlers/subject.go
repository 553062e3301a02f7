package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"studytracker/internal/dto"
	apierrors "studytracker/internal/errors"
	"studytracker/internal/middleware"
	"studytracker/internal/services"
)

// SubjectHandler coordinates subject and subscription HTTP handlers.
type SubjectHandler struct {
	subjectService *services.SubjectService
}

// NewSubjectHandler creates a new SubjectHandler.
func NewSubjectHandler(subjectService *services.SubjectService) *SubjectHandler {
	return &SubjectHandler{
		subjectService: subjectService,
	}
}

// CreateSubject creates a new subject owned by the caller.
func (h *SubjectHandler) CreateSubject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateSubjectRequest struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
	}

	var req CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	subject, err := h.subjectService.CreateSubject(services.CreateSubjectInput{
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     userID,
	})
	if err != nil {
		respondSubjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToSubjectDTO(*subject, true))
}

// ListSubjects returns the subjects the caller owns or subscribes to.
func (h *SubjectHandler) ListSubjects(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	subjects, err := h.subjectService.ListSubjectsForUser(userID)
	if err != nil {
		respondSubjectError(c, err)
		return
	}

	dtos := make([]dto.SubjectDTO, len(subjects))
	for i, subject := range subjects {
		dtos[i] = dto.ToSubjectDTO(subject, subject.OwnerID == userID)
	}

	c.JSON(http.StatusOK, gin.H{"subjects": dtos})
}

// GetSubject returns one subject the caller is a member of.
func (h *SubjectHandler) GetSubject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	subjectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	subject, err := h.subjectService.GetSubjectForUser(subjectID, userID)
	if err != nil {
		respondSubjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSubjectDTO(*subject, subject.OwnerID == userID))
}

// DeleteSubject deletes a subject the caller owns, cascading to its tasks,
// statuses and subscriptions.
func (h *SubjectHandler) DeleteSubject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	subjectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.subjectService.DeleteSubject(subjectID, userID); err != nil {
		respondSubjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subject deleted successfully"})
}

// Subscribe redeems an invitation code for the subject in the URL.
func (h *SubjectHandler) Subscribe(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	subjectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type SubscribeRequest struct {
		InvitationCode string `json:"invitation_code" binding:"required"`
	}

	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.subjectService.Subscribe(subjectID, userID, req.InvitationCode); err != nil {
		respondSubjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Subscribed"})
}

func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

func respondSubjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSubjectNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotSubjectMember):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInvalidInvitationCode):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrInvalidSubjectTitle):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, err.Error())
	}
}
