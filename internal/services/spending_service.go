package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/magnus-copo/investor-api/internal/models"
	"github.com/magnus-copo/investor-api/internal/notify"
	"github.com/magnus-copo/investor-api/internal/repository"
	"github.com/magnus-copo/investor-api/internal/utils"
)

var (
	ErrInvalidAmount          = errors.New("amount must be greater than zero")
	ErrDescriptionRequired    = errors.New("description is required")
	ErrInvalidCategory        = errors.New("category must be service or product")
	ErrMissingCategoryDetails = errors.New("missing required category details")
	ErrNotProjectMember       = errors.New("user is not a member of the project")
	ErrSpendingNotFound       = errors.New("spending record not found")
	ErrSpendingNotPending     = errors.New("spending record is not pending")
)

// SpendingService is the spending approval engine. It is the sole
// mutator of a record's status: pending -> approved on unanimous
// approval, pending -> rejected on a single veto, no transitions out of
// terminal states.
type SpendingService struct {
	spendingRepo repository.SpendingRepository
	projectRepo  repository.ProjectRepository
	notifier     notify.Notifier
}

// NewSpendingService creates a new SpendingService.
func NewSpendingService(spendingRepo repository.SpendingRepository, projectRepo repository.ProjectRepository, notifier notify.Notifier) *SpendingService {
	return &SpendingService{
		spendingRepo: spendingRepo,
		projectRepo:  projectRepo,
		notifier:     notifier,
	}
}

// ProposeSpendingInput holds parameters for proposing a spending.
type ProposeSpendingInput struct {
	ProjectID   uint64
	ProposerID  uint64
	Amount      decimal.Decimal
	Description string
	Category    models.SpendingCategory
	VendorName  string
	ProductName string
	Quantity    int
}

// Propose validates and creates a spending record. The proposer's
// approval is recorded at creation; single-voter projects auto-approve
// immediately.
func (s *SpendingService) Propose(input ProposeSpendingInput) (*models.SpendingRecord, error) {
	if !input.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, ErrDescriptionRequired
	}

	switch input.Category {
	case models.SpendingCategoryService:
		if strings.TrimSpace(input.VendorName) == "" {
			return nil, ErrMissingCategoryDetails
		}
	case models.SpendingCategoryProduct:
		if strings.TrimSpace(input.ProductName) == "" || input.Quantity <= 0 {
			return nil, ErrMissingCategoryDetails
		}
	default:
		return nil, ErrInvalidCategory
	}

	project, err := s.projectRepo.FindByID(input.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if !project.IsMember(input.ProposerID) {
		return nil, ErrNotProjectMember
	}

	referenceCode, err := utils.GenerateReferenceCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate reference code: %w", err)
	}

	// Quorum target is snapshotted now; members added later are not
	// retroactively required to vote.
	voters := project.VoterIDs()
	totalMembers := len(voters)

	record := &models.SpendingRecord{
		ProjectID:     input.ProjectID,
		ReferenceCode: referenceCode,
		Amount:        input.Amount,
		Description:   input.Description,
		Category:      input.Category,
		VendorName:    input.VendorName,
		ProductName:   input.ProductName,
		Quantity:      input.Quantity,
		AddedBy:       input.ProposerID,
		Status:        models.SpendingStatusPending,
		TotalMembers:  totalMembers,
	}

	if totalMembers <= 1 {
		// Single-member fast path: the proposer's own approval is
		// the whole quorum.
		record.Status = models.SpendingStatusApproved
	}

	votes := []models.SpendingVote{{
		UserID:  input.ProposerID,
		Status:  models.SpendingVoteApproved,
		VotedAt: time.Now(),
	}}

	if err := s.spendingRepo.Create(record, votes); err != nil {
		return nil, fmt.Errorf("failed to create spending record: %w", err)
	}

	if record.Status == models.SpendingStatusApproved {
		s.notifier.NotifySpendingApproved(notify.SpendingApprovedEvent{
			ProjectID:     project.ID,
			ProjectName:   project.Name,
			SpendingID:    record.ID,
			ReferenceCode: record.ReferenceCode,
			Amount:        record.Amount,
		})
	} else {
		var proposerName string
		for _, m := range project.Members {
			if m.UserID == input.ProposerID {
				proposerName = m.User.Name
				break
			}
		}
		s.notifier.NotifySpendingProposed(notify.SpendingProposedEvent{
			ProjectID:     project.ID,
			ProjectName:   project.Name,
			SpendingID:    record.ID,
			ReferenceCode: record.ReferenceCode,
			Amount:        record.Amount,
			Description:   record.Description,
			ProposerName:  proposerName,
			PendingVoters: totalMembers - 1,
		})
	}

	return record, nil
}

// GetSpending returns a spending record with votes and proposer.
func (s *SpendingService) GetSpending(recordID uint64) (*models.SpendingRecord, error) {
	record, err := s.spendingRepo.FindByID(recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSpendingNotFound
		}
		return nil, fmt.Errorf("failed to find spending record: %w", err)
	}
	return record, nil
}

// ListSpendingsInput holds filters for listing a project's spendings.
type ListSpendingsInput struct {
	ProjectID uint64
	Status    *models.SpendingStatus
	Page      int
	PageSize  int
}

// ListSpendings returns a project's spending records, optionally
// filtered by status (the pending list or one of the ledgers).
func (s *SpendingService) ListSpendings(input ListSpendingsInput) ([]models.SpendingRecord, int64, error) {
	records, total, err := s.spendingRepo.List(repository.SpendingFilter{
		ProjectID: input.ProjectID,
		Status:    input.Status,
		Page:      input.Page,
		PageSize:  input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list spending records: %w", err)
	}
	return records, total, nil
}

// Approve records a member's approval vote. Approving twice is a no-op.
// The record transitions to approved only once every snapshotted member
// has approved.
func (s *SpendingService) Approve(recordID, voterID uint64) (*models.SpendingRecord, error) {
	record, err := s.GetSpending(recordID)
	if err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindByID(record.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	if !project.IsMember(voterID) {
		return nil, ErrNotProjectMember
	}

	updated, transitioned, err := s.spendingRepo.RecordApproval(recordID, voterID)
	if err != nil {
		if errors.Is(err, repository.ErrSpendingNotPending) {
			return nil, ErrSpendingNotPending
		}
		return nil, fmt.Errorf("failed to record approval: %w", err)
	}

	if transitioned {
		s.notifier.NotifySpendingApproved(notify.SpendingApprovedEvent{
			ProjectID:     project.ID,
			ProjectName:   project.Name,
			SpendingID:    updated.ID,
			ReferenceCode: updated.ReferenceCode,
			Amount:        updated.Amount,
		})
	}

	return updated, nil
}

// Reject vetoes a pending spending record. A single rejection is
// sufficient regardless of prior approvals.
func (s *SpendingService) Reject(recordID, voterID uint64) (*models.SpendingRecord, error) {
	record, err := s.GetSpending(recordID)
	if err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindByID(record.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	if !project.IsMember(voterID) {
		return nil, ErrNotProjectMember
	}

	updated, err := s.spendingRepo.RecordRejection(recordID, voterID)
	if err != nil {
		if errors.Is(err, repository.ErrSpendingNotPending) {
			return nil, ErrSpendingNotPending
		}
		return nil, fmt.Errorf("failed to record rejection: %w", err)
	}

	var rejectorName string
	for _, m := range project.Members {
		if m.UserID == voterID {
			rejectorName = m.User.Name
			break
		}
	}
	s.notifier.NotifySpendingRejected(notify.SpendingRejectedEvent{
		ProjectID:     project.ID,
		SpendingID:    updated.ID,
		ReferenceCode: updated.ReferenceCode,
		RejectorName:  rejectorName,
	})

	return updated, nil
}

// AttachNote attaches a free-text note to a record. Allowed on terminal
// records; notes never affect status.
func (s *SpendingService) AttachNote(recordID uint64, note string) (*models.SpendingRecord, error) {
	if err := s.spendingRepo.UpdateNote(recordID, note); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSpendingNotFound
		}
		return nil, fmt.Errorf("failed to attach note: %w", err)
	}

	return s.GetSpending(recordID)
}
