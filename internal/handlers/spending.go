package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/magnus-copo/investor-api/internal/dto"
	apierrors "github.com/magnus-copo/investor-api/internal/errors"
	"github.com/magnus-copo/investor-api/internal/middleware"
	"github.com/magnus-copo/investor-api/internal/models"
	"github.com/magnus-copo/investor-api/internal/services"
	"github.com/magnus-copo/investor-api/internal/utils"
)

// SpendingHandler coordinates spending ledger HTTP handlers.
type SpendingHandler struct {
	spendingService *services.SpendingService
}

// NewSpendingHandler creates a new SpendingHandler.
func NewSpendingHandler(spendingService *services.SpendingService) *SpendingHandler {
	return &SpendingHandler{
		spendingService: spendingService,
	}
}

// ListSpendings returns a project's spending records, optionally
// filtered by status: the pending list or the approved/rejected ledger.
func (h *SpendingHandler) ListSpendings(c *gin.Context) {
	projectInterface, _ := c.Get("project")
	project := projectInterface.(models.Project)

	var status *models.SpendingStatus
	if statusStr := c.Query("status"); statusStr != "" {
		s := models.SpendingStatus(statusStr)
		switch s {
		case models.SpendingStatusPending, models.SpendingStatusApproved, models.SpendingStatusRejected:
			status = &s
		default:
			apierrors.BadRequest(c, "Invalid status filter")
			return
		}
	}

	params := utils.GetPaginationParams(c)

	records, total, err := h.spendingService.ListSpendings(services.ListSpendingsInput{
		ProjectID: project.ID,
		Status:    status,
		Page:      params.Page,
		PageSize:  params.Limit,
	})
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch spending records")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"spendings": dto.ToSpendingRecordDTOs(records),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// ProposeSpending proposes a new expenditure on the project.
func (h *SpendingHandler) ProposeSpending(c *gin.Context) {
	projectInterface, _ := c.Get("project")
	project := projectInterface.(models.Project)

	userID, _ := middleware.GetUserID(c)

	type ProposeSpendingRequest struct {
		Amount      decimal.Decimal         `json:"amount"`
		Description string                  `json:"description"`
		Category    models.SpendingCategory `json:"category" binding:"required"`
		VendorName  string                  `json:"vendor_name"`
		ProductName string                  `json:"product_name"`
		Quantity    int                     `json:"quantity"`
	}

	var req ProposeSpendingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	record, err := h.spendingService.Propose(services.ProposeSpendingInput{
		ProjectID:   project.ID,
		ProposerID:  userID,
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		VendorName:  req.VendorName,
		ProductName: req.ProductName,
		Quantity:    req.Quantity,
	})
	if err != nil {
		respondSpendingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToSpendingRecordDTO(*record))
}

// GetSpending returns one spending record with its vote history.
func (h *SpendingHandler) GetSpending(c *gin.Context) {
	recordInterface, _ := c.Get("spending_record")
	record := recordInterface.(models.SpendingRecord)

	loaded, err := h.spendingService.GetSpending(record.ID)
	if err != nil {
		respondSpendingError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSpendingRecordDTO(*loaded))
}

// ApproveSpending records the caller's approval vote.
func (h *SpendingHandler) ApproveSpending(c *gin.Context) {
	recordInterface, _ := c.Get("spending_record")
	record := recordInterface.(models.SpendingRecord)

	userID, _ := middleware.GetUserID(c)

	updated, err := h.spendingService.Approve(record.ID, userID)
	if err != nil {
		respondSpendingError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSpendingRecordDTO(*updated))
}

// RejectSpending vetoes the spending record.
func (h *SpendingHandler) RejectSpending(c *gin.Context) {
	recordInterface, _ := c.Get("spending_record")
	record := recordInterface.(models.SpendingRecord)

	userID, _ := middleware.GetUserID(c)

	updated, err := h.spendingService.Reject(record.ID, userID)
	if err != nil {
		respondSpendingError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSpendingRecordDTO(*updated))
}

// AttachNote attaches a free-text note to the record.
func (h *SpendingHandler) AttachNote(c *gin.Context) {
	recordInterface, _ := c.Get("spending_record")
	record := recordInterface.(models.SpendingRecord)

	type AttachNoteRequest struct {
		Note string `json:"note" binding:"required"`
	}

	var req AttachNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.spendingService.AttachNote(record.ID, req.Note)
	if err != nil {
		respondSpendingError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSpendingRecordDTO(*updated))
}

func respondSpendingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidAmount):
		apierrors.BadRequestWithCode(c, apierrors.ErrCodeInvalidAmount, err.Error())
	case errors.Is(err, services.ErrDescriptionRequired),
		errors.Is(err, services.ErrMissingCategoryDetails):
		apierrors.BadRequestWithCode(c, apierrors.ErrCodeMissingField, err.Error())
	case errors.Is(err, services.ErrInvalidCategory):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrNotProjectMember):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrSpendingNotFound),
		errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrSpendingNotPending):
		apierrors.ConflictWithCode(c, apierrors.ErrCodeInvalidState, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
