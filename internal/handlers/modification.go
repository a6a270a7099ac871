package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/magnus-copo/investor-api/internal/dto"
	apierrors "github.com/magnus-copo/investor-api/internal/errors"
	"github.com/magnus-copo/investor-api/internal/middleware"
	"github.com/magnus-copo/investor-api/internal/models"
	"github.com/magnus-copo/investor-api/internal/services"
)

// ModificationHandler coordinates modification workflow HTTP handlers.
type ModificationHandler struct {
	modService *services.ModificationService
}

// NewModificationHandler creates a new ModificationHandler.
func NewModificationHandler(modService *services.ModificationService) *ModificationHandler {
	return &ModificationHandler{
		modService: modService,
	}
}

// ListModifications returns a project's modification requests.
func (h *ModificationHandler) ListModifications(c *gin.Context) {
	projectInterface, _ := c.Get("project")
	project := projectInterface.(models.Project)

	userID, _ := middleware.GetUserID(c)

	requests, err := h.modService.ListModifications(project.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch modification requests")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"modifications": dto.ToModificationRequestDTOs(requests, userID),
	})
}

// ProposeModification creates a modification request on the project.
func (h *ModificationHandler) ProposeModification(c *gin.Context) {
	projectInterface, _ := c.Get("project")
	project := projectInterface.(models.Project)

	userID, _ := middleware.GetUserID(c)

	type ProposeModificationRequest struct {
		Type             models.ModificationType `json:"type" binding:"required"`
		Title            string                  `json:"title" binding:"required"`
		Description      string                  `json:"description"`
		Deadline         time.Time               `json:"deadline" binding:"required"`
		NewDeadline      *time.Time              `json:"new_deadline"`
		NewMinInvestment *decimal.Decimal        `json:"new_min_investment"`
		NewMaxInvestment *decimal.Decimal        `json:"new_max_investment"`
	}

	var req ProposeModificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	request, err := h.modService.Propose(services.ProposeModificationInput{
		ProjectID:        project.ID,
		ProposerID:       userID,
		Type:             req.Type,
		Title:            req.Title,
		Description:      req.Description,
		Deadline:         req.Deadline,
		NewDeadline:      req.NewDeadline,
		NewMinInvestment: req.NewMinInvestment,
		NewMaxInvestment: req.NewMaxInvestment,
	})
	if err != nil {
		respondModificationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToModificationRequestDTO(*request, userID))
}

// GetModification returns one modification request with vote history.
func (h *ModificationHandler) GetModification(c *gin.Context) {
	requestInterface, _ := c.Get("modification_request")
	request := requestInterface.(models.ModificationRequest)

	userID, _ := middleware.GetUserID(c)

	loaded, err := h.modService.GetModification(request.ID)
	if err != nil {
		respondModificationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToModificationRequestDTO(*loaded, userID))
}

// CastVote records the caller's vote on the modification request.
func (h *ModificationHandler) CastVote(c *gin.Context) {
	requestInterface, _ := c.Get("modification_request")
	request := requestInterface.(models.ModificationRequest)

	userID, _ := middleware.GetUserID(c)

	type CastVoteRequest struct {
		Decision models.VoteDecision `json:"decision" binding:"required"`
	}

	var req CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if req.Decision != models.VoteDecisionApprove && req.Decision != models.VoteDecisionReject {
		apierrors.BadRequest(c, "Decision must be approve or reject")
		return
	}

	updated, err := h.modService.CastVote(request.ID, userID, req.Decision)
	if err != nil {
		respondModificationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToModificationRequestDTO(*updated, userID))
}

func respondModificationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrInvalidModificationType),
		errors.Is(err, services.ErrMissingImpactPayload),
		errors.Is(err, services.ErrDeadlineInPast):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrNotProjectMember):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrModificationNotFound),
		errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrAlreadyVoted):
		apierrors.ConflictWithCode(c, apierrors.ErrCodeAlreadyVoted, err.Error())
	case errors.Is(err, services.ErrModificationClosed):
		apierrors.ConflictWithCode(c, apierrors.ErrCodeInvalidState, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
