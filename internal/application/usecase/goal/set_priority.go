// Package goal contains goal-related use cases.
package goal

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/savings-tracker/backend/internal/application/adapter"
	"github.com/savings-tracker/backend/internal/domain/entity"
	domainerror "github.com/savings-tracker/backend/internal/domain/error"
)

// SetPriorityInput represents the input for promoting or demoting a goal.
type SetPriorityInput struct {
	GoalID   uuid.UUID
	UserID   uuid.UUID
	Priority bool
}

// SetPriorityOutput represents the output of a priority change.
type SetPriorityOutput struct {
	Goal *entity.Goal
}

// SetPriorityUseCase arbitrates the one-priority-goal-per-owner invariant.
//
// Promotion demotes every other priority goal of the owner and promotes the
// target inside one repository transaction, so no reader ever observes zero
// or two priority goals for the same owner.
type SetPriorityUseCase struct {
	goalRepo adapter.GoalRepository
}

// NewSetPriorityUseCase creates a new SetPriorityUseCase instance.
func NewSetPriorityUseCase(goalRepo adapter.GoalRepository) *SetPriorityUseCase {
	return &SetPriorityUseCase{
		goalRepo: goalRepo,
	}
}

// Execute performs the priority change.
func (uc *SetPriorityUseCase) Execute(ctx context.Context, input SetPriorityInput) (*SetPriorityOutput, error) {
	goal, err := uc.goalRepo.SetPriority(ctx, input.UserID, input.GoalID, input.Priority)
	if err != nil {
		switch {
		case errors.Is(err, domainerror.ErrGoalNotFound):
			return nil, domainerror.NewGoalError(
				domainerror.ErrCodeGoalNotFound,
				"goal not found",
				domainerror.ErrGoalNotFound,
			)
		case errors.Is(err, domainerror.ErrGoalArchived):
			return nil, domainerror.NewGoalError(
				domainerror.ErrCodeGoalArchived,
				"archived goals cannot hold priority",
				domainerror.ErrGoalArchived,
			)
		case errors.Is(err, domainerror.ErrGoalNotPriority):
			return nil, domainerror.NewGoalError(
				domainerror.ErrCodeGoalNotPriority,
				"goal does not currently hold priority",
				domainerror.ErrGoalNotPriority,
			)
		}
		return nil, fmt.Errorf("failed to set goal priority: %w", err)
	}

	return &SetPriorityOutput{
		Goal: goal,
	}, nil
}
