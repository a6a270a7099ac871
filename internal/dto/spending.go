package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/magnus-copo/investor-api/internal/models"
)

// SpendingVoteDTO represents one vote on a spending record
type SpendingVoteDTO struct {
	User    UserDTO                   `json:"user"`
	Status  models.SpendingVoteStatus `json:"status"`
	VotedAt time.Time                 `json:"voted_at"`
}

// SpendingRecordDTO represents a spending record in API responses
type SpendingRecordDTO struct {
	ID            uint64                  `json:"id"`
	ProjectID     uint64                  `json:"project_id"`
	ReferenceCode string                  `json:"reference_code"`
	Amount        decimal.Decimal         `json:"amount"`
	Description   string                  `json:"description"`
	Category      models.SpendingCategory `json:"category"`
	VendorName    string                  `json:"vendor_name,omitempty"`
	ProductName   string                  `json:"product_name,omitempty"`
	Quantity      int                     `json:"quantity,omitempty"`
	AddedBy       uint64                  `json:"added_by"`
	Status        models.SpendingStatus   `json:"status"`
	TotalMembers  int                     `json:"total_members"`
	ApprovalCount int                     `json:"approval_count"`
	Note          string                  `json:"note,omitempty"`
	RejectedBy    *uint64                 `json:"rejected_by,omitempty"`
	RejectedAt    *time.Time              `json:"rejected_at,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
	Proposer      *UserDTO                `json:"proposer,omitempty"`
	Votes         []SpendingVoteDTO       `json:"votes,omitempty"`
}

// ToSpendingRecordDTO converts a SpendingRecord model to DTO
func ToSpendingRecordDTO(record models.SpendingRecord) SpendingRecordDTO {
	dto := SpendingRecordDTO{
		ID:            record.ID,
		ProjectID:     record.ProjectID,
		ReferenceCode: record.ReferenceCode,
		Amount:        record.Amount,
		Description:   record.Description,
		Category:      record.Category,
		VendorName:    record.VendorName,
		ProductName:   record.ProductName,
		Quantity:      record.Quantity,
		AddedBy:       record.AddedBy,
		Status:        record.Status,
		TotalMembers:  record.TotalMembers,
		ApprovalCount: record.ApprovalCount(),
		Note:          record.Note,
		RejectedBy:    record.RejectedBy,
		RejectedAt:    record.RejectedAt,
		CreatedAt:     record.CreatedAt,
	}

	// Include proposer if preloaded
	if record.Proposer.ID != 0 {
		proposer := ToUserDTO(record.Proposer)
		dto.Proposer = &proposer
	}

	// Include votes if preloaded
	if len(record.Votes) > 0 {
		dto.Votes = make([]SpendingVoteDTO, len(record.Votes))
		for i, vote := range record.Votes {
			dto.Votes[i] = SpendingVoteDTO{
				User:    ToUserDTO(vote.User),
				Status:  vote.Status,
				VotedAt: vote.VotedAt,
			}
		}
	}

	return dto
}

// ToSpendingRecordDTOs converts a slice of records
func ToSpendingRecordDTOs(records []models.SpendingRecord) []SpendingRecordDTO {
	dtos := make([]SpendingRecordDTO, len(records))
	for i, record := range records {
		dtos[i] = ToSpendingRecordDTO(record)
	}
	return dtos
}
