// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/savings-tracker/backend/internal/domain/entity"
)

// CreateGoalRequest represents the request body for goal creation.
type CreateGoalRequest struct {
	Name              string `json:"name" binding:"required,min=1,max=120"`
	TypeCode          string `json:"type_code,omitempty"`
	TargetAmountCents int64  `json:"target_amount_cents" binding:"required,gt=0"`
	IsPriority        bool   `json:"is_priority"`
}

// UpdateGoalRequest represents the request body for goal update. Omitted
// fields are left unchanged.
type UpdateGoalRequest struct {
	Name              *string `json:"name,omitempty" binding:"omitempty,min=1,max=120"`
	TypeCode          *string `json:"type_code,omitempty"`
	TargetAmountCents *int64  `json:"target_amount_cents,omitempty" binding:"omitempty,gt=0"`
}

// SetPriorityRequest represents the request body for promoting or demoting a goal.
type SetPriorityRequest struct {
	IsPriority *bool `json:"is_priority" binding:"required"`
}

// GoalResponse represents a single goal in API responses. Monetary values are
// carried in integer cents, with display strings in major units alongside.
type GoalResponse struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	TypeCode            string     `json:"type_code"`
	TargetAmountCents   int64      `json:"target_amount_cents"`
	TargetAmount        string     `json:"target_amount"`
	CurrentBalanceCents int64      `json:"current_balance_cents"`
	CurrentBalance      string     `json:"current_balance"`
	IsPriority          bool       `json:"is_priority"`
	IsArchived          bool       `json:"is_archived"`
	ArchivedAt          *time.Time `json:"archived_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// GoalDetailResponse extends GoalResponse with current-month activity totals.
type GoalDetailResponse struct {
	GoalResponse
	MonthDepositCents  int64 `json:"month_deposit_cents"`
	MonthWithdrawCents int64 `json:"month_withdraw_cents"`
}

// GoalListResponse represents the response for listing goals.
type GoalListResponse struct {
	Goals []GoalResponse `json:"goals"`
}

// MonthSummaryResponse represents a goal's monthly deposit/withdraw totals.
type MonthSummaryResponse struct {
	GoalID             string `json:"goal_id"`
	Month              string `json:"month"`
	DepositTotalCents  int64  `json:"deposit_total_cents"`
	DepositTotal       string `json:"deposit_total"`
	WithdrawTotalCents int64  `json:"withdraw_total_cents"`
	WithdrawTotal      string `json:"withdraw_total"`
	NetCents           int64  `json:"net_cents"`
	Net                string `json:"net"`
}

// ToGoalResponse converts a domain Goal entity to a GoalResponse DTO.
func ToGoalResponse(g *entity.Goal) GoalResponse {
	return GoalResponse{
		ID:                  g.ID.String(),
		Name:                g.Name,
		TypeCode:            g.TypeCode,
		TargetAmountCents:   g.TargetAmountCents,
		TargetAmount:        centsToMajor(g.TargetAmountCents),
		CurrentBalanceCents: g.CurrentBalanceCents,
		CurrentBalance:      centsToMajor(g.CurrentBalanceCents),
		IsPriority:          g.IsPriority,
		IsArchived:          g.IsArchived(),
		ArchivedAt:          g.ArchivedAt,
		CreatedAt:           g.CreatedAt,
		UpdatedAt:           g.UpdatedAt,
	}
}

// ToGoalListResponse converts a list of Goal entities to a GoalListResponse.
func ToGoalListResponse(goals []*entity.Goal) GoalListResponse {
	responses := make([]GoalResponse, len(goals))
	for i, g := range goals {
		responses[i] = ToGoalResponse(g)
	}
	return GoalListResponse{
		Goals: responses,
	}
}

// centsToMajor renders an integer cent amount as a fixed two-decimal string.
func centsToMajor(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
