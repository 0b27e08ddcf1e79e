// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/savings-tracker/backend/internal/domain/entity"
)

// GoalRepository defines the interface for goal persistence operations.
//
// Archive and SetPriority are transactional: their state checks and updates
// happen atomically, so concurrent callers never observe an owner with zero
// or two priority goals.
type GoalRepository interface {
	// Create creates a new goal. When the goal is flagged as priority, any
	// other priority goal of the same owner is demoted in the same transaction.
	Create(ctx context.Context, goal *entity.Goal) error

	// FindByOwner retrieves a goal by id scoped to its owner. Archived goals
	// are returned; soft-deleted or foreign goals surface as not found.
	FindByOwner(ctx context.Context, userID, goalID uuid.UUID) (*entity.Goal, error)

	// FindAllByOwner retrieves all non-deleted goals for a user, newest first.
	FindAllByOwner(ctx context.Context, userID uuid.UUID) ([]*entity.Goal, error)

	// Update persists name and target amount changes for an existing goal.
	Update(ctx context.Context, goal *entity.Goal) error

	// SetPriority promotes or demotes a goal. Promotion demotes every other
	// priority goal of the owner first, atomically. It returns the updated goal.
	SetPriority(ctx context.Context, userID, goalID uuid.UUID, priority bool) (*entity.Goal, error)

	// Archive marks the goal as archived. Priority goals and already-archived
	// goals are rejected.
	Archive(ctx context.Context, userID, goalID uuid.UUID) (*entity.Goal, error)

	// SoftDelete marks the goal as deleted without removing its event history.
	SoftDelete(ctx context.Context, userID, goalID uuid.UUID) error
}
