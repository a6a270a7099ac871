package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SpendingStatus string

const (
	SpendingStatusPending  SpendingStatus = "pending"
	SpendingStatusApproved SpendingStatus = "approved"
	SpendingStatusRejected SpendingStatus = "rejected"
)

type SpendingCategory string

const (
	SpendingCategoryService SpendingCategory = "service"
	SpendingCategoryProduct SpendingCategory = "product"
)

// SpendingRecord is one proposed expenditure. Records are append-only:
// once Status leaves pending the record is terminal and only Note may
// change afterwards.
type SpendingRecord struct {
	ID            uint64           `gorm:"primarykey" json:"id"`
	ProjectID     uint64           `gorm:"not null;index" json:"project_id"`
	ReferenceCode string           `gorm:"type:varchar(50);uniqueIndex;not null" json:"reference_code"`
	Amount        decimal.Decimal  `gorm:"type:decimal(14,2);not null" json:"amount"`
	Description   string           `gorm:"type:text;not null" json:"description"`
	Category      SpendingCategory `gorm:"type:varchar(20);not null" json:"category"`

	// Category-specific details: service spendings carry a vendor,
	// product spendings carry a product name and quantity.
	VendorName  string `gorm:"type:varchar(255)" json:"vendor_name,omitempty"`
	ProductName string `gorm:"type:varchar(255)" json:"product_name,omitempty"`
	Quantity    int    `json:"quantity,omitempty"`

	AddedBy uint64         `gorm:"not null;index" json:"added_by"`
	Status  SpendingStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	// TotalMembers is the voting population snapshotted at proposal
	// time. Members added later are not required to vote.
	TotalMembers int `gorm:"not null" json:"total_members"`

	Note       string         `gorm:"type:text" json:"note,omitempty"`
	RejectedBy *uint64        `json:"rejected_by,omitempty"`
	RejectedAt *time.Time     `json:"rejected_at,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Project  Project        `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Proposer User           `gorm:"foreignKey:AddedBy" json:"proposer,omitempty"`
	Votes    []SpendingVote `gorm:"foreignKey:SpendingRecordID" json:"votes,omitempty"`
}

// ApprovalCount returns the number of distinct approving voters.
// Requires Votes to be loaded.
func (r *SpendingRecord) ApprovalCount() int {
	n := 0
	for _, v := range r.Votes {
		if v.Status == SpendingVoteApproved {
			n++
		}
	}
	return n
}

// HasVoted reports whether the user already has a vote on the record.
func (r *SpendingRecord) HasVoted(userID uint64) bool {
	for _, v := range r.Votes {
		if v.UserID == userID {
			return true
		}
	}
	return false
}
