package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/magnus-copo/investor-api/internal/database"
	"github.com/magnus-copo/investor-api/internal/models"
	"github.com/magnus-copo/investor-api/internal/utils"
)

var (
	// ErrSpendingNotPending is returned when a vote targets a record
	// that already reached a terminal state.
	ErrSpendingNotPending = errors.New("spending repository: record is not pending")
)

// GormSpendingRepository is a GORM implementation of SpendingRepository
type GormSpendingRepository struct {
	db *gorm.DB
}

// NewSpendingRepository creates a new SpendingRepository
func NewSpendingRepository(db *gorm.DB) SpendingRepository {
	return &GormSpendingRepository{db: db}
}

// Create creates a spending record together with its initial votes
func (r *GormSpendingRepository) Create(record *models.SpendingRecord, votes []models.SpendingVote) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			return err
		}

		for i := range votes {
			votes[i].SpendingRecordID = record.ID
		}
		if len(votes) > 0 {
			if err := tx.Create(&votes).Error; err != nil {
				return err
			}
		}

		record.Votes = votes
		return nil
	})
}

// FindByID finds a spending record with votes and proposer preloaded
func (r *GormSpendingRepository) FindByID(id uint64) (*models.SpendingRecord, error) {
	return findSpending(r.db, id)
}

func findSpending(db *gorm.DB, id uint64) (*models.SpendingRecord, error) {
	var record models.SpendingRecord
	if err := db.
		Preload("Proposer").
		Preload("Votes", func(db *gorm.DB) *gorm.DB {
			return db.Order("voted_at ASC")
		}).
		Preload("Votes.User").
		First(&record, id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// List retrieves spending records with filtering and pagination
func (r *GormSpendingRepository) List(filter SpendingFilter) ([]models.SpendingRecord, int64, error) {
	var records []models.SpendingRecord

	query := r.db.Model(&models.SpendingRecord{}).
		Where("spending_records.project_id = ?", filter.ProjectID)

	if filter.Status != nil {
		query = query.Where("spending_records.status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("spending_records.created_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Page:   filter.Page,
			Limit:  filter.PageSize,
			Offset: (filter.Page - 1) * filter.PageSize,
		}))
	}

	if err := listQuery.
		Preload("Proposer").
		Preload("Votes", func(db *gorm.DB) *gorm.DB {
			return db.Order("voted_at ASC")
		}).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// RecordApproval appends an approval vote and finalizes the record when
// the quorum snapshot is reached. The vote insert is idempotent per
// voter and the status transition is a conditional update, so two
// concurrent last approvers cannot both finalize the record.
func (r *GormSpendingRepository) RecordApproval(recordID, voterID uint64) (*models.SpendingRecord, bool, error) {
	transitioned := false

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var record models.SpendingRecord
		if err := tx.First(&record, recordID).Error; err != nil {
			return err
		}
		if record.Status != models.SpendingStatusPending {
			return ErrSpendingNotPending
		}

		vote := models.SpendingVote{
			SpendingRecordID: recordID,
			UserID:           voterID,
			Status:           models.SpendingVoteApproved,
			VotedAt:          time.Now(),
		}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "spending_record_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(&vote)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Same voter approving twice is a no-op, not a
			// duplicate count.
			return nil
		}

		var approvals int64
		if err := tx.Model(&models.SpendingVote{}).
			Where("spending_record_id = ? AND status = ?", recordID, models.SpendingVoteApproved).
			Count(&approvals).Error; err != nil {
			return err
		}

		if approvals >= int64(record.TotalMembers) {
			update := tx.Model(&models.SpendingRecord{}).
				Where("id = ? AND status = ?", recordID, models.SpendingStatusPending).
				Update("status", models.SpendingStatusApproved)
			if update.Error != nil {
				return update.Error
			}
			transitioned = update.RowsAffected > 0
		}

		return nil
	})
	if err != nil {
		return nil, false, err
	}

	record, err := findSpending(r.db, recordID)
	if err != nil {
		return nil, false, err
	}
	return record, transitioned, nil
}

// RecordRejection appends a rejection vote and finalizes the record as
// rejected. Rejection is a unilateral veto.
func (r *GormSpendingRepository) RecordRejection(recordID, voterID uint64) (*models.SpendingRecord, error) {
	now := time.Now()

	err := r.db.Transaction(func(tx *gorm.DB) error {
		update := tx.Model(&models.SpendingRecord{}).
			Where("id = ? AND status = ?", recordID, models.SpendingStatusPending).
			Updates(map[string]interface{}{
				"status":      models.SpendingStatusRejected,
				"rejected_by": voterID,
				"rejected_at": now,
			})
		if update.Error != nil {
			return update.Error
		}
		if update.RowsAffected == 0 {
			// Either the record does not exist or it is already
			// terminal.
			var record models.SpendingRecord
			if err := tx.First(&record, recordID).Error; err != nil {
				return err
			}
			return ErrSpendingNotPending
		}

		vote := models.SpendingVote{
			SpendingRecordID: recordID,
			UserID:           voterID,
			Status:           models.SpendingVoteRejected,
			VotedAt:          now,
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "spending_record_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"status":   models.SpendingVoteRejected,
				"voted_at": now,
			}),
		}).Create(&vote).Error
	})
	if err != nil {
		return nil, err
	}

	return findSpending(r.db, recordID)
}

// UpdateNote attaches or replaces the free-text note. Allowed on any
// record regardless of status.
func (r *GormSpendingRepository) UpdateNote(recordID uint64, note string) error {
	res := r.db.Model(&models.SpendingRecord{}).
		Where("id = ?", recordID).
		Update("note", note)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
