package notify

import "github.com/shopspring/decimal"

// SpendingProposedEvent is emitted when a spending is proposed.
type SpendingProposedEvent struct {
	ProjectID     uint64
	ProjectName   string
	SpendingID    uint64
	ReferenceCode string
	Amount        decimal.Decimal
	Description   string
	ProposerName  string
	PendingVoters int
}

// SpendingApprovedEvent is emitted when a spending reaches unanimous
// approval and is added to the expense history.
type SpendingApprovedEvent struct {
	ProjectID     uint64
	ProjectName   string
	SpendingID    uint64
	ReferenceCode string
	Amount        decimal.Decimal
}

// SpendingRejectedEvent is emitted when a spending is vetoed.
type SpendingRejectedEvent struct {
	ProjectID     uint64
	SpendingID    uint64
	ReferenceCode string
	RejectorName  string
}

// MemberAddedEvent is emitted when a user joins a project.
type MemberAddedEvent struct {
	ProjectID   uint64
	ProjectName string
	UserID      uint64
	UserName    string
	Role        string
}

// MemberRemovedEvent is emitted when a user leaves or is removed.
type MemberRemovedEvent struct {
	ProjectID uint64
	UserID    uint64
}

// ModificationProposedEvent is emitted when a project change is put up
// for a vote.
type ModificationProposedEvent struct {
	ProjectID      uint64
	ProjectName    string
	ModificationID uint64
	Type           string
	Title          string
	TotalVoters    int
}

// ModificationDecidedEvent is emitted when every voter has cast a vote.
type ModificationDecidedEvent struct {
	ProjectID      uint64
	ModificationID uint64
	Title          string
	Status         string
}
