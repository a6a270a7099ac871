package repository

import (
	"gorm.io/gorm"

	"github.com/magnus-copo/investor-api/internal/models"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// CreateWithCreator creates the project and the creator's admin
// membership atomically
func (r *GormProjectRepository) CreateWithCreator(project *models.Project, member *models.ProjectMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}

		member.ProjectID = project.ID
		return tx.Create(member).Error
	})
}

// FindByID finds a project by ID with members preloaded
func (r *GormProjectRepository) FindByID(id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.
		Preload("Members").
		Preload("Members.User").
		First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete deletes a project and all related data in a transaction
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var spendingIDs []uint64
		if err := tx.Model(&models.SpendingRecord{}).
			Where("project_id = ?", id).
			Pluck("id", &spendingIDs).Error; err != nil {
			return err
		}

		if len(spendingIDs) > 0 {
			if err := tx.Where("spending_record_id IN ?", spendingIDs).
				Delete(&models.SpendingVote{}).Error; err != nil {
				return err
			}
			if err := tx.Where("project_id = ?", id).
				Delete(&models.SpendingRecord{}).Error; err != nil {
				return err
			}
		}

		var modificationIDs []uint64
		if err := tx.Model(&models.ModificationRequest{}).
			Where("project_id = ?", id).
			Pluck("id", &modificationIDs).Error; err != nil {
			return err
		}

		if len(modificationIDs) > 0 {
			if err := tx.Where("modification_request_id IN ?", modificationIDs).
				Delete(&models.ModificationVote{}).Error; err != nil {
				return err
			}
			if err := tx.Where("project_id = ?", id).
				Delete(&models.ModificationRequest{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("project_id = ?", id).
			Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, id).Error
	})
}

// AddMember adds a member to a project
func (r *GormProjectRepository) AddMember(member *models.ProjectMember) error {
	return r.db.Create(member).Error
}

// RemoveMember removes a member from a project
func (r *GormProjectRepository) RemoveMember(projectID, userID uint64) error {
	return r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectMember{}).Error
}

// FindMember finds a specific project member
func (r *GormProjectRepository) FindMember(projectID, userID uint64) (*models.ProjectMember, error) {
	var member models.ProjectMember
	if err := r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// UpdateMemberRole changes a member's project role
func (r *GormProjectRepository) UpdateMemberRole(projectID, userID uint64, role models.MemberRole) error {
	return r.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Update("role", role).Error
}

// ListMembersByUserID lists all projects a user is a member of
func (r *GormProjectRepository) ListMembersByUserID(userID uint64) ([]models.ProjectMember, error) {
	var memberships []models.ProjectMember
	if err := r.db.Preload("Project").
		Where("user_id = ?", userID).
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}
