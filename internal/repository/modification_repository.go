package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/magnus-copo/investor-api/internal/models"
)

var (
	// ErrModificationClosed is returned when a vote targets a request
	// that already reached a terminal state.
	ErrModificationClosed = errors.New("modification repository: request is closed")
	// ErrVoteExists is returned when a voter attempts a second vote on
	// the same request.
	ErrVoteExists = errors.New("modification repository: vote already recorded")
)

// GormModificationRepository is a GORM implementation of ModificationRepository
type GormModificationRepository struct {
	db *gorm.DB
}

// NewModificationRepository creates a new ModificationRepository
func NewModificationRepository(db *gorm.DB) ModificationRepository {
	return &GormModificationRepository{db: db}
}

// Create creates a modification request
func (r *GormModificationRepository) Create(request *models.ModificationRequest) error {
	return r.db.Create(request).Error
}

// FindByID finds a modification request with votes preloaded
func (r *GormModificationRepository) FindByID(id uint64) (*models.ModificationRequest, error) {
	return findModification(r.db, id)
}

func findModification(db *gorm.DB, id uint64) (*models.ModificationRequest, error) {
	var request models.ModificationRequest
	if err := db.
		Preload("Proposer").
		Preload("Votes", func(db *gorm.DB) *gorm.DB {
			return db.Order("voted_at ASC")
		}).
		Preload("Votes.User").
		First(&request, id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// ListByProject lists modification requests for a project
func (r *GormModificationRepository) ListByProject(projectID uint64) ([]models.ModificationRequest, error) {
	var requests []models.ModificationRequest
	if err := r.db.
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Preload("Votes", func(db *gorm.DB) *gorm.DB {
			return db.Order("voted_at ASC")
		}).
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// CastVote records one member's vote. One vote per member; a rejection
// never vetoes the request, it only moves the pending counter. When the
// pending counter reaches zero the request resolves: approved if no
// rejections were cast, rejected otherwise.
func (r *GormModificationRepository) CastVote(requestID, voterID uint64, decision models.VoteDecision) (*models.ModificationRequest, bool, error) {
	transitioned := false

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var request models.ModificationRequest
		if err := tx.First(&request, requestID).Error; err != nil {
			return err
		}
		if request.Status != models.ModificationStatusPending {
			return ErrModificationClosed
		}

		vote := models.ModificationVote{
			ModificationRequestID: requestID,
			UserID:                voterID,
			Decision:              decision,
			VotedAt:               time.Now(),
		}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "modification_request_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(&vote)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrVoteExists
		}

		counter := "approved_count"
		if decision == models.VoteDecisionReject {
			counter = "rejected_count"
		}

		// The guarded update keeps approved+rejected+pending == total
		// even under concurrent votes.
		update := tx.Model(&models.ModificationRequest{}).
			Where("id = ? AND status = ? AND pending_count > 0", requestID, models.ModificationStatusPending).
			Updates(map[string]interface{}{
				counter:         gorm.Expr(counter+" + 1"),
				"pending_count": gorm.Expr("pending_count - 1"),
			})
		if update.Error != nil {
			return update.Error
		}
		if update.RowsAffected == 0 {
			return ErrModificationClosed
		}

		var updated models.ModificationRequest
		if err := tx.First(&updated, requestID).Error; err != nil {
			return err
		}

		if updated.PendingCount == 0 {
			status := models.ModificationStatusApproved
			if updated.RejectedCount > 0 {
				status = models.ModificationStatusRejected
			}

			resolve := tx.Model(&models.ModificationRequest{}).
				Where("id = ? AND status = ?", requestID, models.ModificationStatusPending).
				Update("status", status)
			if resolve.Error != nil {
				return resolve.Error
			}
			transitioned = resolve.RowsAffected > 0
		}

		return nil
	})
	if err != nil {
		return nil, false, err
	}

	request, err := findModification(r.db, requestID)
	if err != nil {
		return nil, false, err
	}
	return request, transitioned, nil
}
