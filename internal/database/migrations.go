package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes beyond what AutoMigrate
// creates. Postgres only; mysql deployments rely on the tag-declared
// indexes.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		{"spending_records", "idx_spendings_project_status", "project_id, status"},
		{"spending_records", "idx_spendings_added_by", "added_by"},
		{"spending_records", "idx_spendings_created_at", "created_at"},

		{"spending_votes", "idx_spending_votes_record_id", "spending_record_id"},
		{"spending_votes", "idx_spending_votes_user_id", "user_id"},

		{"project_members", "idx_project_members_project_id", "project_id"},
		{"project_members", "idx_project_members_user_id", "user_id"},

		{"modification_requests", "idx_modifications_project_status", "project_id, status"},
		{"modification_votes", "idx_modification_votes_request_id", "modification_request_id"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
