// Package ledger contains the goal balance ledger use cases.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/savings-tracker/backend/internal/application/adapter"
	domainerror "github.com/savings-tracker/backend/internal/domain/error"
	"github.com/savings-tracker/backend/internal/domain/valueobject"
)

// RebuildMonthTotalsInput represents the input for the aggregate repair operation.
type RebuildMonthTotalsInput struct {
	UserID uuid.UUID
	GoalID uuid.UUID
	Month  string // "YYYY-MM"
}

// RebuildMonthTotalsOutput represents the recomputed month totals.
type RebuildMonthTotalsOutput struct {
	GoalID             uuid.UUID
	Month              string
	DepositTotalCents  int64
	WithdrawTotalCents int64
}

// RebuildMonthTotalsUseCase recomputes a goal/month aggregate row from the
// event ledger. The aggregate is a cache; this is its recomputation escape
// hatch for recovery after any corruption.
type RebuildMonthTotalsUseCase struct {
	ledgerRepo adapter.LedgerRepository
	goalRepo   adapter.GoalRepository
}

// NewRebuildMonthTotalsUseCase creates a new RebuildMonthTotalsUseCase instance.
func NewRebuildMonthTotalsUseCase(ledgerRepo adapter.LedgerRepository, goalRepo adapter.GoalRepository) *RebuildMonthTotalsUseCase {
	return &RebuildMonthTotalsUseCase{
		ledgerRepo: ledgerRepo,
		goalRepo:   goalRepo,
	}
}

// Execute performs the rebuild.
func (uc *RebuildMonthTotalsUseCase) Execute(ctx context.Context, input RebuildMonthTotalsInput) (*RebuildMonthTotalsOutput, error) {
	month, err := valueobject.ParseMonth(input.Month)
	if err != nil {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidMonth,
			"month must be of the form YYYY-MM",
			domainerror.ErrInvalidMonth,
		)
	}

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

	totals, err := uc.ledgerRepo.RebuildMonthTotals(ctx, input.GoalID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild month totals: %w", err)
	}

	slog.Info("Rebuilt monthly aggregate",
		"goalID", input.GoalID,
		"month", month.String(),
		"deposit_cents", totals.DepositTotalCents,
		"withdraw_cents", totals.WithdrawTotalCents,
	)

	return &RebuildMonthTotalsOutput{
		GoalID:             input.GoalID,
		Month:              month.String(),
		DepositTotalCents:  totals.DepositTotalCents,
		WithdrawTotalCents: totals.WithdrawTotalCents,
	}, nil
}
