package models

import "time"

type SpendingVoteStatus string

const (
	SpendingVoteApproved SpendingVoteStatus = "approved"
	SpendingVoteRejected SpendingVoteStatus = "rejected"
)

// SpendingVote is one member's vote on a spending record. Votes are
// listed in voted_at order so approval history reads chronologically.
type SpendingVote struct {
	SpendingRecordID uint64             `gorm:"primarykey" json:"spending_record_id"`
	UserID           uint64             `gorm:"primarykey" json:"user_id"`
	Status           SpendingVoteStatus `gorm:"type:varchar(20);not null" json:"status"`
	VotedAt          time.Time          `json:"voted_at"`

	// Relations
	SpendingRecord SpendingRecord `gorm:"foreignKey:SpendingRecordID" json:"-"`
	User           User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
