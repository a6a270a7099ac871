package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/magnus-copo/investor-api/internal/models"
)

// ModificationVotesDTO aggregates vote counters.
type ModificationVotesDTO struct {
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Pending  int `json:"pending"`
	Total    int `json:"total"`
}

// ModificationVoteDTO represents one member's recorded vote
type ModificationVoteDTO struct {
	User     UserDTO             `json:"user"`
	Decision models.VoteDecision `json:"decision"`
	VotedAt  time.Time           `json:"voted_at"`
}

// ModificationRequestDTO represents a modification request in API
// responses. MyVote is the caller's recorded decision, if any.
type ModificationRequestDTO struct {
	ID               uint64                    `json:"id"`
	ProjectID        uint64                    `json:"project_id"`
	Type             models.ModificationType   `json:"type"`
	Title            string                    `json:"title"`
	Description      string                    `json:"description"`
	NewDeadline      *time.Time                `json:"new_deadline,omitempty"`
	NewMinInvestment *decimal.Decimal          `json:"new_min_investment,omitempty"`
	NewMaxInvestment *decimal.Decimal          `json:"new_max_investment,omitempty"`
	Deadline         time.Time                 `json:"deadline"`
	DaysRemaining    int                       `json:"days_remaining"`
	Status           models.ModificationStatus `json:"status"`
	Votes            ModificationVotesDTO      `json:"votes"`
	MyVote           *models.VoteDecision      `json:"my_vote"`
	ProposedBy       uint64                    `json:"proposed_by"`
	CreatedAt        time.Time                 `json:"created_at"`
	VoteHistory      []ModificationVoteDTO     `json:"vote_history,omitempty"`
}

// ToModificationRequestDTO converts a ModificationRequest to DTO from
// the perspective of the calling user.
func ToModificationRequestDTO(request models.ModificationRequest, callerID uint64) ModificationRequestDTO {
	dto := ModificationRequestDTO{
		ID:               request.ID,
		ProjectID:        request.ProjectID,
		Type:             request.Type,
		Title:            request.Title,
		Description:      request.Description,
		NewDeadline:      request.NewDeadline,
		NewMinInvestment: request.NewMinInvestment,
		NewMaxInvestment: request.NewMaxInvestment,
		Deadline:         request.Deadline,
		DaysRemaining:    request.DaysRemaining(time.Now()),
		Status:           request.Status,
		Votes: ModificationVotesDTO{
			Approved: request.ApprovedCount,
			Rejected: request.RejectedCount,
			Pending:  request.PendingCount,
			Total:    request.TotalVoters,
		},
		ProposedBy: request.ProposedBy,
		CreatedAt:  request.CreatedAt,
	}

	if vote := request.VoteOf(callerID); vote != nil {
		dto.MyVote = &vote.Decision
	}

	if len(request.Votes) > 0 {
		dto.VoteHistory = make([]ModificationVoteDTO, len(request.Votes))
		for i, vote := range request.Votes {
			dto.VoteHistory[i] = ModificationVoteDTO{
				User:     ToUserDTO(vote.User),
				Decision: vote.Decision,
				VotedAt:  vote.VotedAt,
			}
		}
	}

	return dto
}

// ToModificationRequestDTOs converts a slice of requests
func ToModificationRequestDTOs(requests []models.ModificationRequest, callerID uint64) []ModificationRequestDTO {
	dtos := make([]ModificationRequestDTO, len(requests))
	for i, request := range requests {
		dtos[i] = ToModificationRequestDTO(request, callerID)
	}
	return dtos
}
