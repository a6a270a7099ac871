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
	ErrProjectNotFound        = errors.New("project not found")
	ErrInvalidProjectName     = errors.New("project name cannot be empty")
	ErrInvalidInvestmentRange = errors.New("minimum investment cannot exceed maximum investment")
	ErrNotProjectAdmin        = errors.New("only project admins can perform this action")
	ErrAlreadyProjectMember   = errors.New("user is already a member of this project")
	ErrProjectMemberNotFound  = errors.New("project member not found")
	ErrCannotRemoveCreator    = errors.New("the project creator cannot be removed")
	ErrCreatorCannotLeave     = errors.New("the project creator cannot leave the project")
)

// ProjectService provides business logic for projects and membership.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	notifier    notify.Notifier
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository, notifier notify.Notifier) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		notifier:    notifier,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name          string
	Description   string
	MinInvestment decimal.Decimal
	MaxInvestment decimal.Decimal
	Deadline      *time.Time
	CreatorID     uint64
}

// CreateProject creates a project; the creator becomes its first admin
// member.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidProjectName
	}
	if input.MaxInvestment.IsPositive() && input.MinInvestment.GreaterThan(input.MaxInvestment) {
		return nil, ErrInvalidInvestmentRange
	}

	project := &models.Project{
		Name:          input.Name,
		Description:   input.Description,
		CreatedBy:     input.CreatorID,
		MinInvestment: input.MinInvestment,
		MaxInvestment: input.MaxInvestment,
		Deadline:      input.Deadline,
	}

	member := &models.ProjectMember{
		UserID:   input.CreatorID,
		Role:     models.MemberRoleAdmin,
		JoinedAt: time.Now(),
	}

	if err := s.projectRepo.CreateWithCreator(project, member); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// ListProjectsForUser returns the memberships of a user, project
// preloaded.
func (s *ProjectService) ListProjectsForUser(userID uint64) ([]models.ProjectMember, error) {
	memberships, err := s.projectRepo.ListMembersByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return memberships, nil
}

// GetProject returns a project with its members.
func (s *ProjectService) GetProject(projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// UpdateProjectInput holds updatable project fields.
type UpdateProjectInput struct {
	Name        *string
	Description *string
}

// UpdateProject updates basic project fields. Timeline and investment
// range changes go through the modification workflow instead.
func (s *ProjectService) UpdateProject(projectID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.GetProject(projectID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrInvalidProjectName
		}
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject removes a project and everything attached to it.
func (s *ProjectService) DeleteProject(projectID uint64) error {
	if _, err := s.GetProject(projectID); err != nil {
		return err
	}

	if err := s.projectRepo.Delete(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}

// AddMemberInput holds parameters for adding a member.
type AddMemberInput struct {
	ProjectID uint64
	ActorID   uint64
	UserID    uint64
	Role      models.MemberRole
}

// AddMember adds a user to a project. Admin only.
func (s *ProjectService) AddMember(input AddMemberInput) (*models.ProjectMember, error) {
	project, err := s.GetProject(input.ProjectID)
	if err != nil {
		return nil, err
	}

	if !project.IsAdmin(input.ActorID) {
		return nil, ErrNotProjectAdmin
	}

	user, err := s.userRepo.FindByID(input.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if _, err := s.projectRepo.FindMember(input.ProjectID, input.UserID); err == nil {
		return nil, ErrAlreadyProjectMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	role := input.Role
	if role == "" {
		role = models.MemberRoleInvestor
	}

	member := &models.ProjectMember{
		ProjectID: input.ProjectID,
		UserID:    input.UserID,
		Role:      role,
		JoinedAt:  time.Now(),
	}

	if err := s.projectRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	s.notifier.NotifyMemberAdded(notify.MemberAddedEvent{
		ProjectID:   project.ID,
		ProjectName: project.Name,
		UserID:      user.ID,
		UserName:    user.Name,
		Role:        string(role),
	})

	return member, nil
}

// RemoveMember removes a member from a project. Admin only; the creator
// can never be removed. Removal does not touch in-flight spending
// quorums, which were snapshotted at proposal time.
func (s *ProjectService) RemoveMember(projectID, actorID, targetID uint64) error {
	project, err := s.GetProject(projectID)
	if err != nil {
		return err
	}

	if !project.IsAdmin(actorID) {
		return ErrNotProjectAdmin
	}
	if targetID == project.CreatedBy {
		return ErrCannotRemoveCreator
	}

	if _, err := s.projectRepo.FindMember(projectID, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectMemberNotFound
		}
		return fmt.Errorf("failed to find project member: %w", err)
	}

	if err := s.projectRepo.RemoveMember(projectID, targetID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	s.notifier.NotifyMemberRemoved(notify.MemberRemovedEvent{
		ProjectID: projectID,
		UserID:    targetID,
	})

	return nil
}

// Leave removes the caller's own membership. The creator cannot leave.
func (s *ProjectService) Leave(projectID, userID uint64) error {
	project, err := s.GetProject(projectID)
	if err != nil {
		return err
	}

	if userID == project.CreatedBy {
		return ErrCreatorCannotLeave
	}

	if _, err := s.projectRepo.FindMember(projectID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectMemberNotFound
		}
		return fmt.Errorf("failed to find project member: %w", err)
	}

	if err := s.projectRepo.RemoveMember(projectID, userID); err != nil {
		return fmt.Errorf("failed to leave project: %w", err)
	}

	s.notifier.NotifyMemberRemoved(notify.MemberRemovedEvent{
		ProjectID: projectID,
		UserID:    userID,
	})

	return nil
}

// PromoteMember elevates a member to project admin. Admin only. The
// elevation is scoped to the project; the user's global role is never
// mutated.
func (s *ProjectService) PromoteMember(projectID, actorID, targetID uint64) error {
	project, err := s.GetProject(projectID)
	if err != nil {
		return err
	}

	if !project.IsAdmin(actorID) {
		return ErrNotProjectAdmin
	}

	if _, err := s.projectRepo.FindMember(projectID, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectMemberNotFound
		}
		return fmt.Errorf("failed to find project member: %w", err)
	}

	if err := s.projectRepo.UpdateMemberRole(projectID, targetID, models.MemberRoleAdmin); err != nil {
		return fmt.Errorf("failed to promote member: %w", err)
	}

	return nil
}
