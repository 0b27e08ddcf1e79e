// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/savings-tracker/backend/internal/application/adapter"
	"github.com/savings-tracker/backend/internal/domain/entity"
	domainerror "github.com/savings-tracker/backend/internal/domain/error"
	"github.com/savings-tracker/backend/internal/integration/persistence/model"
)

// goalRepository implements the adapter.GoalRepository interface.
type goalRepository struct {
	db *gorm.DB
}

// NewGoalRepository creates a new goal repository instance.
func NewGoalRepository(db *gorm.DB) adapter.GoalRepository {
	return &goalRepository{
		db: db,
	}
}

// lockOwnerScope takes a write lock on the owner's user row. Every promotion
// acquires it before touching any goal row, so two concurrent promotions of
// different goals serialize instead of each demote-scan missing the other's
// uncommitted promote. Acquired first to keep lock ordering acyclic.
func lockOwnerScope(tx *gorm.DB, userID uuid.UUID) error {
	var owner model.UserModel
	err := lockGoalRow(tx).
		Select("id").
		Where("id = ?", userID).
		First(&owner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainerror.ErrGoalNotFound
	}
	return err
}

// demoteOthers clears the priority flag on every other goal of the owner.
// Runs inside the caller's transaction so promotion is atomic.
func demoteOthers(tx *gorm.DB, userID, keepGoalID uuid.UUID, now time.Time) error {
	return tx.Model(&model.GoalModel{}).
		Where("user_id = ? AND id <> ? AND is_priority = ?", userID, keepGoalID, true).
		Updates(map[string]interface{}{
			"is_priority": false,
			"updated_at":  now,
		}).Error
}

// Create creates a new goal in the database. A goal created as priority
// demotes any existing priority goal of the owner in the same transaction.
func (r *goalRepository) Create(ctx context.Context, goal *entity.Goal) error {
	goalModel := model.GoalFromEntity(goal)

	if !goal.IsPriority {
		return r.db.WithContext(ctx).Create(goalModel).Error
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockOwnerScope(tx, goal.UserID); err != nil {
			return err
		}
		if err := demoteOthers(tx, goal.UserID, goal.ID, time.Now().UTC()); err != nil {
			return err
		}
		return tx.Create(goalModel).Error
	})
}

// FindByOwner retrieves a goal by id scoped to its owner. Foreign and
// soft-deleted goals surface as not found; archived goals are returned.
func (r *goalRepository) FindByOwner(ctx context.Context, userID, goalID uuid.UUID) (*entity.Goal, error) {
	var goalModel model.GoalModel
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", goalID, userID).
		First(&goalModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrGoalNotFound
		}
		return nil, result.Error
	}
	return goalModel.ToEntity(), nil
}

// FindAllByOwner retrieves all non-deleted goals for a user, newest first.
func (r *goalRepository) FindAllByOwner(ctx context.Context, userID uuid.UUID) ([]*entity.Goal, error) {
	var goalModels []model.GoalModel
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&goalModels)
	if result.Error != nil {
		return nil, result.Error
	}

	goals := make([]*entity.Goal, len(goalModels))
	for i, gm := range goalModels {
		goals[i] = gm.ToEntity()
	}
	return goals, nil
}

// Update updates an existing goal in the database.
func (r *goalRepository) Update(ctx context.Context, goal *entity.Goal) error {
	goal.UpdatedAt = time.Now().UTC()
	goalModel := model.GoalFromEntity(goal)
	return r.db.WithContext(ctx).Save(goalModel).Error
}

// SetPriority promotes or demotes a goal atomically. Promotion first demotes
// every other priority goal of the owner, so the single-holder rule is never
// observably violated.
func (r *goalRepository) SetPriority(ctx context.Context, userID, goalID uuid.UUID, priority bool) (*entity.Goal, error) {
	var updated *entity.Goal

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if priority {
			if err := lockOwnerScope(tx, userID); err != nil {
				return err
			}
		}

		var goalModel model.GoalModel
		result := lockGoalRow(tx).
			Where("id = ? AND user_id = ?", goalID, userID).
			First(&goalModel)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return domainerror.ErrGoalNotFound
			}
			return result.Error
		}

		if goalModel.ArchivedAt.Valid {
			return domainerror.ErrGoalArchived
		}
		if !priority && !goalModel.IsPriority {
			return domainerror.ErrGoalNotPriority
		}

		now := time.Now().UTC()
		if priority {
			if err := demoteOthers(tx, userID, goalID, now); err != nil {
				return err
			}
		}

		if goalModel.IsPriority != priority {
			result = tx.Model(&model.GoalModel{}).
				Where("id = ?", goalID).
				Updates(map[string]interface{}{
					"is_priority": priority,
					"updated_at":  now,
				})
			if result.Error != nil {
				return result.Error
			}
			goalModel.IsPriority = priority
			goalModel.UpdatedAt = now
		}

		updated = goalModel.ToEntity()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Archive marks a goal as archived. Already-archived goals and goals that
// currently hold priority are rejected; priority must be cleared first.
func (r *goalRepository) Archive(ctx context.Context, userID, goalID uuid.UUID) (*entity.Goal, error) {
	var archived *entity.Goal

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var goalModel model.GoalModel
		result := lockGoalRow(tx).
			Where("id = ? AND user_id = ?", goalID, userID).
			First(&goalModel)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return domainerror.ErrGoalNotFound
			}
			return result.Error
		}

		if goalModel.ArchivedAt.Valid {
			return domainerror.ErrGoalAlreadyArchived
		}
		if goalModel.IsPriority {
			return domainerror.ErrPriorityGoalArchive
		}

		now := time.Now().UTC()
		result = tx.Model(&model.GoalModel{}).
			Where("id = ?", goalID).
			Updates(map[string]interface{}{
				"archived_at": now,
				"updated_at":  now,
			})
		if result.Error != nil {
			return result.Error
		}

		goalModel.ArchivedAt.Time = now
		goalModel.ArchivedAt.Valid = true
		goalModel.UpdatedAt = now
		archived = goalModel.ToEntity()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return archived, nil
}

// SoftDelete marks the goal as deleted. The event history is kept.
func (r *goalRepository) SoftDelete(ctx context.Context, userID, goalID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.GoalModel{}, "id = ?", goalID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrGoalNotFound
	}
	return nil
}
