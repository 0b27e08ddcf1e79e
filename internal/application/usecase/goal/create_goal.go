// Package goal contains goal-related use cases.
package goal

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/savings-tracker/backend/internal/application/adapter"
	"github.com/savings-tracker/backend/internal/domain/entity"
	domainerror "github.com/savings-tracker/backend/internal/domain/error"
)

// MaxGoalNameLength is the maximum allowed length for goal names.
const MaxGoalNameLength = 120

// CreateGoalInput represents the input for goal creation.
type CreateGoalInput struct {
	UserID            uuid.UUID
	Name              string
	TypeCode          string
	TargetAmountCents int64
	IsPriority        bool
}

// CreateGoalOutput represents the output of goal creation.
type CreateGoalOutput struct {
	Goal *entity.Goal
}

// CreateGoalUseCase handles goal creation logic.
type CreateGoalUseCase struct {
	goalRepo adapter.GoalRepository
}

// NewCreateGoalUseCase creates a new CreateGoalUseCase instance.
func NewCreateGoalUseCase(goalRepo adapter.GoalRepository) *CreateGoalUseCase {
	return &CreateGoalUseCase{
		goalRepo: goalRepo,
	}
}

// Execute performs the goal creation.
//
// Creating a goal with IsPriority set is itself the promotion: any other
// priority goal of the owner is demoted in the same transaction, so the
// one-priority-goal invariant holds at every observable point.
func (uc *CreateGoalUseCase) Execute(ctx context.Context, input CreateGoalInput) (*CreateGoalOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domainerror.NewGoalError(
			domainerror.ErrCodeGoalNameRequired,
			"goal name is required",
			domainerror.ErrGoalNameRequired,
		)
	}
	if len(name) > MaxGoalNameLength {
		return nil, domainerror.NewGoalError(
			domainerror.ErrCodeGoalNameRequired,
			fmt.Sprintf("goal name must not exceed %d characters", MaxGoalNameLength),
			domainerror.ErrGoalNameRequired,
		)
	}

	if input.TargetAmountCents <= 0 {
		return nil, domainerror.NewGoalError(
			domainerror.ErrCodeInvalidTargetAmount,
			"target amount must be greater than zero",
			domainerror.ErrInvalidTargetAmount,
		)
	}

	goal := entity.NewGoal(input.UserID, name, input.TypeCode, input.TargetAmountCents, input.IsPriority)

	if err := uc.goalRepo.Create(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	return &CreateGoalOutput{
		Goal: goal,
	}, nil
}
