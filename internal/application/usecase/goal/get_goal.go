// Package goal contains goal-related use cases.
package goal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/savings-tracker/backend/internal/application/adapter"
	"github.com/savings-tracker/backend/internal/domain/entity"
	domainerror "github.com/savings-tracker/backend/internal/domain/error"
	"github.com/savings-tracker/backend/internal/domain/valueobject"
)

// GetGoalInput represents the input for retrieving a single goal.
type GetGoalInput struct {
	GoalID uuid.UUID
	UserID uuid.UUID
}

// GetGoalOutput represents the output of goal retrieval, including the
// current calendar month's deposit and withdrawal totals.
type GetGoalOutput struct {
	Goal               *entity.Goal
	MonthDepositCents  int64
	MonthWithdrawCents int64
}

// GetGoalUseCase handles single-goal retrieval.
type GetGoalUseCase struct {
	goalRepo   adapter.GoalRepository
	ledgerRepo adapter.LedgerRepository
}

// NewGetGoalUseCase creates a new GetGoalUseCase instance.
func NewGetGoalUseCase(goalRepo adapter.GoalRepository, ledgerRepo adapter.LedgerRepository) *GetGoalUseCase {
	return &GetGoalUseCase{
		goalRepo:   goalRepo,
		ledgerRepo: ledgerRepo,
	}
}

// Execute performs the goal retrieval.
func (uc *GetGoalUseCase) Execute(ctx context.Context, input GetGoalInput) (*GetGoalOutput, error) {
	goal, err := uc.goalRepo.FindByOwner(ctx, input.UserID, input.GoalID)
	if err != nil {
		if errors.Is(err, domainerror.ErrGoalNotFound) {
			return nil, domainerror.NewGoalError(
				domainerror.ErrCodeGoalNotFound,
				"goal not found",
				domainerror.ErrGoalNotFound,
			)
		}
		return nil, fmt.Errorf("failed to load goal: %w", err)
	}

	totals, err := uc.ledgerRepo.MonthTotals(ctx, goal.ID, valueobject.MonthOf(time.Now()))
	if err != nil {
		return nil, fmt.Errorf("failed to read month totals: %w", err)
	}

	return &GetGoalOutput{
		Goal:               goal,
		MonthDepositCents:  totals.DepositTotalCents,
		MonthWithdrawCents: totals.WithdrawTotalCents,
	}, nil
}
