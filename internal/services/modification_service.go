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
)

var (
	ErrModificationNotFound    = errors.New("modification request not found")
	ErrModificationClosed      = errors.New("modification request is closed")
	ErrAlreadyVoted            = errors.New("user has already voted on this modification")
	ErrTitleRequired           = errors.New("title is required")
	ErrInvalidModificationType = errors.New("modification type must be timeline or investment")
	ErrMissingImpactPayload    = errors.New("missing impact payload for modification type")
	ErrDeadlineInPast          = errors.New("voting deadline must be in the future")
)

// ModificationService governs project-level structural changes that
// need sign-off from every voter before taking effect.
type ModificationService struct {
	modRepo     repository.ModificationRepository
	projectRepo repository.ProjectRepository
	notifier    notify.Notifier
}

// NewModificationService creates a new ModificationService.
func NewModificationService(modRepo repository.ModificationRepository, projectRepo repository.ProjectRepository, notifier notify.Notifier) *ModificationService {
	return &ModificationService{
		modRepo:     modRepo,
		projectRepo: projectRepo,
		notifier:    notifier,
	}
}

// ProposeModificationInput holds parameters for proposing a change.
type ProposeModificationInput struct {
	ProjectID   uint64
	ProposerID  uint64
	Type        models.ModificationType
	Title       string
	Description string
	Deadline    time.Time

	// Type-specific payload
	NewDeadline      *time.Time
	NewMinInvestment *decimal.Decimal
	NewMaxInvestment *decimal.Decimal
}

// Propose creates a modification request. Every current voter must cast
// a vote; the proposer does not vote implicitly.
func (s *ModificationService) Propose(input ProposeModificationInput) (*models.ModificationRequest, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	if !input.Deadline.After(time.Now()) {
		return nil, ErrDeadlineInPast
	}

	switch input.Type {
	case models.ModificationTypeTimeline:
		if input.NewDeadline == nil {
			return nil, ErrMissingImpactPayload
		}
	case models.ModificationTypeInvestment:
		if input.NewMinInvestment == nil && input.NewMaxInvestment == nil {
			return nil, ErrMissingImpactPayload
		}
	default:
		return nil, ErrInvalidModificationType
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

	totalVoters := len(project.VoterIDs())

	request := &models.ModificationRequest{
		ProjectID:        input.ProjectID,
		Type:             input.Type,
		Title:            input.Title,
		Description:      input.Description,
		NewDeadline:      input.NewDeadline,
		NewMinInvestment: input.NewMinInvestment,
		NewMaxInvestment: input.NewMaxInvestment,
		Deadline:         input.Deadline,
		Status:           models.ModificationStatusPending,
		ApprovedCount:    0,
		RejectedCount:    0,
		PendingCount:     totalVoters,
		TotalVoters:      totalVoters,
		ProposedBy:       input.ProposerID,
	}

	if err := s.modRepo.Create(request); err != nil {
		return nil, fmt.Errorf("failed to create modification request: %w", err)
	}

	s.notifier.NotifyModificationProposed(notify.ModificationProposedEvent{
		ProjectID:      project.ID,
		ProjectName:    project.Name,
		ModificationID: request.ID,
		Type:           string(request.Type),
		Title:          request.Title,
		TotalVoters:    totalVoters,
	})

	return request, nil
}

// GetModification returns a modification request with its votes.
func (s *ModificationService) GetModification(requestID uint64) (*models.ModificationRequest, error) {
	request, err := s.modRepo.FindByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrModificationNotFound
		}
		return nil, fmt.Errorf("failed to find modification request: %w", err)
	}
	return request, nil
}

// ListModifications returns a project's modification requests.
func (s *ModificationService) ListModifications(projectID uint64) ([]models.ModificationRequest, error) {
	requests, err := s.modRepo.ListByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list modification requests: %w", err)
	}
	return requests, nil
}

// CastVote records one member's vote on a modification request. One
// vote per member, no revote. A rejection does not veto; the request
// resolves only when every voter has voted, and is approved only with
// zero rejections. An approved request applies its payload to the
// project.
func (s *ModificationService) CastVote(requestID, voterID uint64, decision models.VoteDecision) (*models.ModificationRequest, error) {
	request, err := s.GetModification(requestID)
	if err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindByID(request.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	if !project.IsMember(voterID) {
		return nil, ErrNotProjectMember
	}

	updated, transitioned, err := s.modRepo.CastVote(requestID, voterID, decision)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrVoteExists):
			return nil, ErrAlreadyVoted
		case errors.Is(err, repository.ErrModificationClosed):
			return nil, ErrModificationClosed
		default:
			return nil, fmt.Errorf("failed to cast vote: %w", err)
		}
	}

	if transitioned {
		if updated.Status == models.ModificationStatusApproved {
			if err := s.applyModification(project, updated); err != nil {
				return nil, err
			}
		}

		s.notifier.NotifyModificationDecided(notify.ModificationDecidedEvent{
			ProjectID:      project.ID,
			ModificationID: updated.ID,
			Title:          updated.Title,
			Status:         string(updated.Status),
		})
	}

	return updated, nil
}

// applyModification writes an approved request's payload onto the
// project.
func (s *ModificationService) applyModification(project *models.Project, request *models.ModificationRequest) error {
	switch request.Type {
	case models.ModificationTypeTimeline:
		project.Deadline = request.NewDeadline
	case models.ModificationTypeInvestment:
		if request.NewMinInvestment != nil {
			project.MinInvestment = *request.NewMinInvestment
		}
		if request.NewMaxInvestment != nil {
			project.MaxInvestment = *request.NewMaxInvestment
		}
	}

	if err := s.projectRepo.Update(project); err != nil {
		return fmt.Errorf("failed to apply modification: %w", err)
	}
	return nil
}
