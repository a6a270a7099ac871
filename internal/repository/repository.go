package repository

import (
	"github.com/magnus-copo/investor-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}

// ProjectRepository defines the interface for project and membership
// data access
type ProjectRepository interface {
	// CreateWithCreator creates a project and the creator's admin
	// membership within a single transaction
	CreateWithCreator(project *models.Project, member *models.ProjectMember) error

	// FindByID finds a project by ID with members preloaded
	FindByID(id uint64) (*models.Project, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete deletes a project and all related data
	Delete(id uint64) error

	// AddMember adds a member to a project
	AddMember(member *models.ProjectMember) error

	// RemoveMember removes a member from a project
	RemoveMember(projectID, userID uint64) error

	// FindMember finds a specific project member
	FindMember(projectID, userID uint64) (*models.ProjectMember, error)

	// UpdateMemberRole changes a member's project role
	UpdateMemberRole(projectID, userID uint64, role models.MemberRole) error

	// ListMembersByUserID lists all projects a user is a member of
	ListMembersByUserID(userID uint64) ([]models.ProjectMember, error)
}

// SpendingFilter holds filtering options for listing spending records
type SpendingFilter struct {
	ProjectID uint64
	Status    *models.SpendingStatus
	Page      int
	PageSize  int
}

// SpendingRepository defines the interface for spending ledger access.
// Status transitions happen only through the transactional vote methods
// so that two concurrent "last approver" requests cannot both finalize
// the record.
type SpendingRepository interface {
	// Create creates a spending record together with its initial votes
	Create(record *models.SpendingRecord, votes []models.SpendingVote) error

	// FindByID finds a spending record with votes and proposer preloaded
	FindByID(id uint64) (*models.SpendingRecord, error)

	// List retrieves spending records with filtering and pagination
	List(filter SpendingFilter) ([]models.SpendingRecord, int64, error)

	// RecordApproval appends an approval vote and, when the approval
	// count reaches the record's member snapshot, finalizes the record
	// as approved. The returned flag is true only for the call that
	// performed the transition, so callers notify exactly once.
	RecordApproval(recordID, voterID uint64) (*models.SpendingRecord, bool, error)

	// RecordRejection appends a rejection vote and finalizes the record
	// as rejected
	RecordRejection(recordID, voterID uint64) (*models.SpendingRecord, error)

	// UpdateNote attaches or replaces the free-text note
	UpdateNote(recordID uint64, note string) error
}

// ModificationRepository defines the interface for modification request
// access. CastVote is the only counter mutator and runs under a row
// lock to keep the counter invariant.
type ModificationRepository interface {
	// Create creates a modification request
	Create(request *models.ModificationRequest) error

	// FindByID finds a modification request with votes preloaded
	FindByID(id uint64) (*models.ModificationRequest, error)

	// ListByProject lists modification requests for a project
	ListByProject(projectID uint64) ([]models.ModificationRequest, error)

	// CastVote records a vote, updates the counters, and resolves the
	// request once the pending counter reaches zero. The returned flag
	// is true only for the call that resolved the request.
	CastVote(requestID, voterID uint64, decision models.VoteDecision) (*models.ModificationRequest, bool, error)
}
