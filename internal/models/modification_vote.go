package models

import "time"

type VoteDecision string

const (
	VoteDecisionApprove VoteDecision = "approve"
	VoteDecisionReject  VoteDecision = "reject"
)

type ModificationVote struct {
	ModificationRequestID uint64       `gorm:"primarykey" json:"modification_request_id"`
	UserID                uint64       `gorm:"primarykey" json:"user_id"`
	Decision              VoteDecision `gorm:"type:varchar(20);not null" json:"decision"`
	VotedAt               time.Time    `json:"voted_at"`

	// Relations
	ModificationRequest ModificationRequest `gorm:"foreignKey:ModificationRequestID" json:"-"`
	User                User                `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
