package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ModificationType string

const (
	ModificationTypeTimeline   ModificationType = "timeline"
	ModificationTypeInvestment ModificationType = "investment"
)

type ModificationStatus string

const (
	ModificationStatusPending  ModificationStatus = "pending"
	ModificationStatusApproved ModificationStatus = "approved"
	ModificationStatusRejected ModificationStatus = "rejected"
)

// ModificationRequest is a project-level change (timeline extension or
// investment-range change) that needs sign-off from every voter before
// taking effect. Unlike spendings, a single rejection does not veto the
// request; it stays open until everyone has voted.
//
// Invariant: ApprovedCount + RejectedCount + PendingCount == TotalVoters.
type ModificationRequest struct {
	ID          uint64           `gorm:"primarykey" json:"id"`
	ProjectID   uint64           `gorm:"not null;index" json:"project_id"`
	Type        ModificationType `gorm:"type:varchar(20);not null" json:"type"`
	Title       string           `gorm:"type:varchar(255);not null" json:"title"`
	Description string           `gorm:"type:text" json:"description"`

	// Impact payload; which fields are set depends on Type.
	NewDeadline      *time.Time       `json:"new_deadline,omitempty"`
	NewMinInvestment *decimal.Decimal `gorm:"type:decimal(14,2)" json:"new_min_investment,omitempty"`
	NewMaxInvestment *decimal.Decimal `gorm:"type:decimal(14,2)" json:"new_max_investment,omitempty"`

	// Deadline is the voting deadline; used only for urgency display,
	// never for automatic expiry.
	Deadline time.Time `gorm:"not null" json:"deadline"`

	Status        ModificationStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ApprovedCount int                `gorm:"not null" json:"approved_count"`
	RejectedCount int                `gorm:"not null" json:"rejected_count"`
	PendingCount  int                `gorm:"not null" json:"pending_count"`
	TotalVoters   int                `gorm:"not null" json:"total_voters"`

	ProposedBy uint64         `gorm:"not null" json:"proposed_by"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Project  Project            `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Proposer User               `gorm:"foreignKey:ProposedBy" json:"proposer,omitempty"`
	Votes    []ModificationVote `gorm:"foreignKey:ModificationRequestID" json:"votes,omitempty"`
}

// VoteOf returns the user's vote, or nil if they have not voted yet.
// Requires Votes to be loaded.
func (m *ModificationRequest) VoteOf(userID uint64) *ModificationVote {
	for i := range m.Votes {
		if m.Votes[i].UserID == userID {
			return &m.Votes[i]
		}
	}
	return nil
}

// DaysRemaining returns whole days until the voting deadline, negative
// once past it.
func (m *ModificationRequest) DaysRemaining(now time.Time) int {
	return int(m.Deadline.Sub(now).Hours() / 24)
}
