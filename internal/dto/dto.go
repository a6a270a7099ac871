package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/magnus-copo/investor-api/internal/models"
	"github.com/magnus-copo/investor-api/internal/permissions"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID    uint64           `json:"id"`
	Name  string           `json:"name"`
	Email string           `json:"email"`
	Role  permissions.Role `json:"role"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID            uint64          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	CreatedBy     uint64          `json:"created_by"`
	MinInvestment decimal.Decimal `json:"min_investment"`
	MaxInvestment decimal.Decimal `json:"max_investment"`
	Deadline      *time.Time      `json:"deadline"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ProjectMemberDTO represents a member in a project
type ProjectMemberDTO struct {
	User     UserDTO           `json:"user"`
	Role     models.MemberRole `json:"role"`
	JoinedAt time.Time         `json:"joined_at"`
}

// ProjectWithRoleDTO represents a project with the caller's member role
type ProjectWithRoleDTO struct {
	ProjectDTO
	Role models.MemberRole `json:"role"`
}

// ProjectDetailDTO represents detailed project information
type ProjectDetailDTO struct {
	ProjectDTO
	Members       []ProjectMemberDTO       `json:"members"`
	EffectiveRole permissions.Role         `json:"effective_role"`
	Permissions   []permissions.Permission `json:"permissions"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ID:            project.ID,
		Name:          project.Name,
		Description:   project.Description,
		CreatedBy:     project.CreatedBy,
		MinInvestment: project.MinInvestment,
		MaxInvestment: project.MaxInvestment,
		Deadline:      project.Deadline,
		CreatedAt:     project.CreatedAt,
	}
}

// ToProjectMemberDTO converts a member to DTO
func ToProjectMemberDTO(member models.ProjectMember) ProjectMemberDTO {
	return ProjectMemberDTO{
		User:     ToUserDTO(member.User),
		Role:     member.Role,
		JoinedAt: member.JoinedAt,
	}
}

// ToProjectWithRoleDTO converts a membership to a project DTO with role
func ToProjectWithRoleDTO(member models.ProjectMember) ProjectWithRoleDTO {
	return ProjectWithRoleDTO{
		ProjectDTO: ToProjectDTO(member.Project),
		Role:       member.Role,
	}
}

// ToProjectDetailDTO converts a project with members to a detailed DTO.
// The effective role is the caller's project-scoped role, which may be
// elevated relative to their global role.
func ToProjectDetailDTO(project models.Project, caller *models.User) ProjectDetailDTO {
	memberDTOs := make([]ProjectMemberDTO, len(project.Members))
	for i, member := range project.Members {
		memberDTOs[i] = ToProjectMemberDTO(member)
	}

	effectiveRole := project.EffectiveRole(caller)

	return ProjectDetailDTO{
		ProjectDTO:    ToProjectDTO(project),
		Members:       memberDTOs,
		EffectiveRole: effectiveRole,
		Permissions:   permissions.AllPermissions(effectiveRole),
	}
}
