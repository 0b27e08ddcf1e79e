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

// ArchiveGoalInput represents the input for archiving a goal.
type ArchiveGoalInput struct {
	GoalID uuid.UUID
	UserID uuid.UUID
}

// ArchiveGoalOutput represents the output of archiving a goal.
type ArchiveGoalOutput struct {
	Goal *entity.Goal
}

// ArchiveGoalUseCase handles goal archival. An archived goal accepts no new
// ledger events and behaves as absent to writers.
type ArchiveGoalUseCase struct {
	goalRepo adapter.GoalRepository
}

// NewArchiveGoalUseCase creates a new ArchiveGoalUseCase instance.
func NewArchiveGoalUseCase(goalRepo adapter.GoalRepository) *ArchiveGoalUseCase {
	return &ArchiveGoalUseCase{
		goalRepo: goalRepo,
	}
}

// Execute performs the archival.
func (uc *ArchiveGoalUseCase) Execute(ctx context.Context, input ArchiveGoalInput) (*ArchiveGoalOutput, error) {
	goal, err := uc.goalRepo.Archive(ctx, input.UserID, input.GoalID)
	if err != nil {
		switch {
		case errors.Is(err, domainerror.ErrGoalNotFound):
			return nil, domainerror.NewGoalError(
				domainerror.ErrCodeGoalNotFound,
				"goal not found",
				domainerror.ErrGoalNotFound,
			)
		case errors.Is(err, domainerror.ErrGoalAlreadyArchived):
			return nil, domainerror.NewGoalError(
				domainerror.ErrCodeGoalAlreadyArchived,
				"goal is already archived",
				domainerror.ErrGoalAlreadyArchived,
			)
		case errors.Is(err, domainerror.ErrPriorityGoalArchive):
			// Priority must be cleared explicitly before archiving.
			return nil, domainerror.NewGoalError(
				domainerror.ErrCodePriorityGoalArchive,
				"cannot archive a goal that holds priority",
				domainerror.ErrPriorityGoalArchive,
			)
		}
		return nil, fmt.Errorf("failed to archive goal: %w", err)
	}

	return &ArchiveGoalOutput{
		Goal: goal,
	}, nil
}
