// Package goal contains goal-related use cases.
package goal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/savings-tracker/backend/internal/application/adapter"
	"github.com/savings-tracker/backend/internal/domain/entity"
	domainerror "github.com/savings-tracker/backend/internal/domain/error"
)

// UpdateGoalInput represents the input for goal update. Nil fields are left
// unchanged.
type UpdateGoalInput struct {
	GoalID            uuid.UUID
	UserID            uuid.UUID
	Name              *string
	TypeCode          *string
	TargetAmountCents *int64
}

// UpdateGoalOutput represents the output of goal update.
type UpdateGoalOutput struct {
	Goal *entity.Goal
}

// UpdateGoalUseCase handles goal update logic.
type UpdateGoalUseCase struct {
	goalRepo adapter.GoalRepository
}

// NewUpdateGoalUseCase creates a new UpdateGoalUseCase instance.
func NewUpdateGoalUseCase(goalRepo adapter.GoalRepository) *UpdateGoalUseCase {
	return &UpdateGoalUseCase{
		goalRepo: goalRepo,
	}
}

// Execute performs the goal update.
func (uc *UpdateGoalUseCase) Execute(ctx context.Context, input UpdateGoalInput) (*UpdateGoalOutput, error) {
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

	if !goal.IsWritable() {
		return nil, domainerror.NewGoalError(
			domainerror.ErrCodeGoalArchived,
			"archived goals cannot be updated",
			domainerror.ErrGoalArchived,
		)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
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
		goal.Name = name
	}

	if input.TypeCode != nil {
		goal.TypeCode = *input.TypeCode
	}

	if input.TargetAmountCents != nil {
		if *input.TargetAmountCents <= 0 {
			return nil, domainerror.NewGoalError(
				domainerror.ErrCodeInvalidTargetAmount,
				"target amount must be greater than zero",
				domainerror.ErrInvalidTargetAmount,
			)
		}
		goal.TargetAmountCents = *input.TargetAmountCents
	}

	goal.UpdatedAt = time.Now().UTC()

	if err := uc.goalRepo.Update(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}

	return &UpdateGoalOutput{
		Goal: goal,
	}, nil
}
