package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/magnus-copo/investor-api/internal/permissions"
)

type Project struct {
	ID            uint64          `gorm:"primarykey" json:"id"`
	Name          string          `gorm:"type:varchar(255);not null" json:"name"`
	Description   string          `gorm:"type:text" json:"description"`
	CreatedBy     uint64          `gorm:"not null" json:"created_by"`
	MinInvestment decimal.Decimal `gorm:"type:decimal(14,2)" json:"min_investment"`
	MaxInvestment decimal.Decimal `gorm:"type:decimal(14,2)" json:"max_investment"`
	Deadline      *time.Time      `json:"deadline"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relations
	Creator   User             `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Members   []ProjectMember  `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
	Spendings []SpendingRecord `gorm:"foreignKey:ProjectID" json:"spendings,omitempty"`
}

// IsAdmin reports whether the user administers the project. The creator
// always counts as an admin even without a member row. Requires Members
// to be loaded.
func (p *Project) IsAdmin(userID uint64) bool {
	if userID == p.CreatedBy {
		return true
	}
	for _, m := range p.Members {
		if m.UserID == userID && m.Role == MemberRoleAdmin {
			return true
		}
	}
	return false
}

// IsInvestor reports whether the user holds an investor member row.
// Admin rows do not imply investor rows.
func (p *Project) IsInvestor(userID uint64) bool {
	for _, m := range p.Members {
		if m.UserID == userID && m.Role == MemberRoleInvestor {
			return true
		}
	}
	return false
}

// IsMember reports whether the user participates in the project in any
// capacity, creator included.
func (p *Project) IsMember(userID uint64) bool {
	if userID == p.CreatedBy {
		return true
	}
	for _, m := range p.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// EffectiveRole resolves the user's role scoped to this project without
// touching the stored user record: project admins are elevated to
// PROJECT_ADMIN here and only here.
func (p *Project) EffectiveRole(user *User) permissions.Role {
	if user == nil {
		return permissions.RoleGuest
	}
	if p.IsAdmin(user.ID) {
		return permissions.RoleProjectAdmin
	}
	return user.Role
}

// VoterIDs returns the distinct set of users whose vote counts toward
// spending quorums: every member row plus the creator.
func (p *Project) VoterIDs() []uint64 {
	seen := make(map[uint64]bool)
	var ids []uint64
	add := func(id uint64) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	add(p.CreatedBy)
	for _, m := range p.Members {
		add(m.UserID)
	}
	return ids
}
