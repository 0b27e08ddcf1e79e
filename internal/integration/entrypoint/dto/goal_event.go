// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/savings-tracker/backend/internal/application/usecase/ledger"
)

// CreateGoalEventRequest represents the request body for recording a deposit
// or withdrawal. ClientRequestID is the caller-supplied idempotency token.
type CreateGoalEventRequest struct {
	Type            string `json:"type" binding:"required,oneof=DEPOSIT WITHDRAW"`
	AmountCents     int64  `json:"amount_cents" binding:"required,gt=0"`
	OccurredOn      string `json:"occurred_on" binding:"required"` // "YYYY-MM-DD"
	ClientRequestID string `json:"client_request_id" binding:"required,max=128"`
}

// GoalEventResponse represents a single ledger event in API responses.
type GoalEventResponse struct {
	ID          string    `json:"id"`
	GoalID      string    `json:"goal_id"`
	Type        string    `json:"type"`
	AmountCents int64     `json:"amount_cents"`
	Amount      string    `json:"amount"`
	OccurredOn  string    `json:"occurred_on"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateGoalEventResponse represents the response for a committed ledger write.
type CreateGoalEventResponse struct {
	Event             GoalEventResponse `json:"event"`
	BalanceAfterCents int64             `json:"balance_after_cents"`
	BalanceAfter      string            `json:"balance_after"`
}

// PaginationResponse carries the keyset cursor for the next page.
type PaginationResponse struct {
	NextCursor *string `json:"next_cursor"`
	HasMore    bool    `json:"has_more"`
	Limit      int     `json:"limit"`
}

// GoalEventListResponse represents one page of the event history.
type GoalEventListResponse struct {
	Events     []GoalEventResponse `json:"events"`
	Pagination PaginationResponse  `json:"pagination"`
}

// ToCreateGoalEventResponse converts a CreateEventOutput to its response DTO.
func ToCreateGoalEventResponse(output *ledger.CreateEventOutput) CreateGoalEventResponse {
	return CreateGoalEventResponse{
		Event: GoalEventResponse{
			ID:          output.EventID.String(),
			GoalID:      output.GoalID.String(),
			Type:        string(output.Type),
			AmountCents: output.AmountCents,
			Amount:      centsToMajor(output.AmountCents),
			OccurredOn:  output.OccurredOn.Format("2006-01-02"),
			CreatedAt:   output.CreatedAt,
		},
		BalanceAfterCents: output.BalanceAfterCents,
		BalanceAfter:      centsToMajor(output.BalanceAfterCents),
	}
}

// ToGoalEventListResponse converts a ListEventsOutput to its response DTO.
func ToGoalEventListResponse(output *ledger.ListEventsOutput) GoalEventListResponse {
	events := make([]GoalEventResponse, len(output.Events))
	for i, e := range output.Events {
		events[i] = GoalEventResponse{
			ID:          e.ID.String(),
			GoalID:      e.GoalID.String(),
			Type:        string(e.Type),
			AmountCents: e.AmountCents,
			Amount:      centsToMajor(e.AmountCents),
			OccurredOn:  e.OccurredOn.Format("2006-01-02"),
			CreatedAt:   e.CreatedAt,
		}
	}

	return GoalEventListResponse{
		Events: events,
		Pagination: PaginationResponse{
			NextCursor: output.NextCursor,
			HasMore:    output.HasMore,
			Limit:      output.Limit,
		},
	}
}

// ToMonthSummaryResponse converts a GetMonthSummaryOutput to its response DTO.
func ToMonthSummaryResponse(output *ledger.GetMonthSummaryOutput) MonthSummaryResponse {
	return MonthSummaryResponse{
		GoalID:             output.GoalID.String(),
		Month:              output.Month,
		DepositTotalCents:  output.DepositTotalCents,
		DepositTotal:       output.DepositTotal.StringFixed(2),
		WithdrawTotalCents: output.WithdrawTotalCents,
		WithdrawTotal:      output.WithdrawTotal.StringFixed(2),
		NetCents:           output.NetCents,
		Net:                output.Net.StringFixed(2),
	}
}
