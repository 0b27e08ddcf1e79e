// Package ledger contains the goal balance ledger use cases.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/savings-tracker/backend/internal/application/adapter"
	domainerror "github.com/savings-tracker/backend/internal/domain/error"
	"github.com/savings-tracker/backend/internal/domain/valueobject"
)

// GetMonthSummaryInput represents the input for reading a goal's month totals.
type GetMonthSummaryInput struct {
	UserID uuid.UUID
	GoalID uuid.UUID
	Month  string // "YYYY-MM"
}

// GetMonthSummaryOutput represents a goal's deposit/withdraw totals for one month.
// Amounts are exposed in both minor units and major units.
type GetMonthSummaryOutput struct {
	GoalID             uuid.UUID
	Month              string
	DepositTotalCents  int64
	WithdrawTotalCents int64
	NetCents           int64
	DepositTotal       decimal.Decimal
	WithdrawTotal      decimal.Decimal
	Net                decimal.Decimal
}

// GetMonthSummaryUseCase serves month totals from the aggregate table.
type GetMonthSummaryUseCase struct {
	ledgerRepo adapter.LedgerRepository
	goalRepo   adapter.GoalRepository
}

// NewGetMonthSummaryUseCase creates a new GetMonthSummaryUseCase instance.
func NewGetMonthSummaryUseCase(ledgerRepo adapter.LedgerRepository, goalRepo adapter.GoalRepository) *GetMonthSummaryUseCase {
	return &GetMonthSummaryUseCase{
		ledgerRepo: ledgerRepo,
		goalRepo:   goalRepo,
	}
}

// Execute performs the summary read.
func (uc *GetMonthSummaryUseCase) Execute(ctx context.Context, input GetMonthSummaryInput) (*GetMonthSummaryOutput, error) {
	month, err := valueobject.ParseMonth(input.Month)
	if err != nil {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidMonth,
			"month must be of the form YYYY-MM",
			domainerror.ErrInvalidMonth,
		)
	}

	// Ownership check before touching the aggregate table.
	if _, err := uc.goalRepo.FindByOwner(ctx, input.UserID, input.GoalID); err != nil {
		if errors.Is(err, domainerror.ErrGoalNotFound) {
			return nil, domainerror.NewGoalError(
				domainerror.ErrCodeGoalNotFound,
				"goal not found",
				domainerror.ErrGoalNotFound,
			)
		}
		return nil, fmt.Errorf("failed to load goal: %w", err)
	}

	totals, err := uc.ledgerRepo.MonthTotals(ctx, input.GoalID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to read month totals: %w", err)
	}

	return &GetMonthSummaryOutput{
		GoalID:             input.GoalID,
		Month:              month.String(),
		DepositTotalCents:  totals.DepositTotalCents,
		WithdrawTotalCents: totals.WithdrawTotalCents,
		NetCents:           totals.NetCents(),
		DepositTotal:       decimal.New(totals.DepositTotalCents, -2),
		WithdrawTotal:      decimal.New(totals.WithdrawTotalCents, -2),
		Net:                decimal.New(totals.NetCents(), -2),
	}, nil
}
