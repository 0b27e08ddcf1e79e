// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/savings-tracker/backend/internal/application/adapter"
	"github.com/savings-tracker/backend/internal/domain/entity"
	domainerror "github.com/savings-tracker/backend/internal/domain/error"
	"github.com/savings-tracker/backend/internal/domain/valueobject"
	"github.com/savings-tracker/backend/internal/integration/persistence/model"
)

// ledgerRepository implements the adapter.LedgerRepository interface.
type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new ledger repository instance.
func NewLedgerRepository(db *gorm.DB) adapter.LedgerRepository {
	return &ledgerRepository{
		db: db,
	}
}

// lockGoalRow applies a row-level write lock where the dialect supports it.
// SQLite serializes writers on its own and rejects FOR UPDATE syntax.
func lockGoalRow(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// AppendEvent applies one deposit/withdraw command in a single transaction.
//
// Order matters: the goal row is locked before the balance check so that two
// concurrent withdrawals cannot both pass validation, and the event insert
// runs before the balance update so a duplicate client request id aborts the
// transaction with nothing applied.
func (r *ledgerRepository) AppendEvent(ctx context.Context, input adapter.AppendEventInput) (*entity.GoalEvent, int64, error) {
	var (
		event        *entity.GoalEvent
		balanceAfter int64
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var goalModel model.GoalModel
		result := lockGoalRow(tx).
			Where("id = ? AND user_id = ?", input.GoalID, input.UserID).
			First(&goalModel)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return domainerror.ErrGoalNotFound
			}
			return result.Error
		}

		// Archived goals behave as absent to writers.
		if goalModel.ArchivedAt.Valid {
			return domainerror.ErrGoalNotFound
		}

		if input.Type == entity.GoalEventTypeWithdraw && goalModel.CurrentBalanceCents < input.AmountCents {
			return domainerror.NewInsufficientBalanceError(goalModel.CurrentBalanceCents, input.AmountCents)
		}

		event = entity.NewGoalEvent(input.GoalID, input.UserID, input.Type, input.AmountCents, input.OccurredOn, input.ClientRequestID)
		if err := tx.Create(model.GoalEventFromEntity(event)).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domainerror.NewLedgerError(
					domainerror.ErrCodeDuplicateRequest,
					"client request id was already used",
					domainerror.ErrDuplicateRequest,
				)
			}
			return err
		}

		now := time.Now().UTC()
		balanceAfter = goalModel.CurrentBalanceCents + event.BalanceDelta()
		result = tx.Model(&model.GoalModel{}).
			Where("id = ?", goalModel.ID).
			Updates(map[string]interface{}{
				"current_balance_cents": balanceAfter,
				"updated_at":            now,
			})
		if result.Error != nil {
			return result.Error
		}

		return r.upsertAggregate(tx, input, now)
	})
	if err != nil {
		return nil, 0, err
	}

	return event, balanceAfter, nil
}

// upsertAggregate folds the event into the monthly aggregate row, creating it
// on first write for the month.
func (r *ledgerRepository) upsertAggregate(tx *gorm.DB, input adapter.AppendEventInput, now time.Time) error {
	aggModel := &model.MonthlyAggregateModel{
		GoalID:    input.GoalID,
		Month:     valueobject.MonthOf(input.OccurredOn).String(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	var depositDelta, withdrawDelta int64
	if input.Type == entity.GoalEventTypeWithdraw {
		aggModel.WithdrawTotalCents = input.AmountCents
		withdrawDelta = input.AmountCents
	} else {
		aggModel.DepositTotalCents = input.AmountCents
		depositDelta = input.AmountCents
	}

	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "goal_id"}, {Name: "month"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"deposit_total_cents":  gorm.Expr("deposit_total_cents + ?", depositDelta),
			"withdraw_total_cents": gorm.Expr("withdraw_total_cents + ?", withdrawDelta),
			"updated_at":           now,
		}),
	}).Create(aggModel).Error
}

// ListEvents returns one page of events matching the filter, newest first.
func (r *ledgerRepository) ListEvents(ctx context.Context, filter adapter.EventFilter, cursor *valueobject.EventCursor, limit int) ([]*entity.GoalEvent, bool, error) {
	query := r.db.WithContext(ctx).
		Model(&model.GoalEventModel{}).
		Where("user_id = ?", filter.UserID)

	if filter.GoalID != nil {
		query = query.Where("goal_id = ?", *filter.GoalID)
	}
	if filter.Month != nil {
		start, end := filter.Month.Range()
		query = query.Where("occurred_on >= ? AND occurred_on < ?", start, end)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", string(*filter.Type))
	}
	if cursor != nil {
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	// Fetch one extra row to detect whether another page exists.
	var eventModels []model.GoalEventModel
	result := query.
		Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&eventModels)
	if result.Error != nil {
		return nil, false, result.Error
	}

	hasMore := len(eventModels) > limit
	if hasMore {
		eventModels = eventModels[:limit]
	}

	events := make([]*entity.GoalEvent, len(eventModels))
	for i, em := range eventModels {
		events[i] = em.ToEntity()
	}
	return events, hasMore, nil
}

// MonthTotals returns the stored aggregate for a goal and month. A month with
// no events yields zero totals, not an error.
func (r *ledgerRepository) MonthTotals(ctx context.Context, goalID uuid.UUID, month valueobject.Month) (*entity.MonthlyAggregate, error) {
	var aggModel model.MonthlyAggregateModel
	result := r.db.WithContext(ctx).
		Where("goal_id = ? AND month = ?", goalID, month.String()).
		First(&aggModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return &entity.MonthlyAggregate{GoalID: goalID, Month: month.String()}, nil
		}
		return nil, result.Error
	}
	return aggModel.ToEntity(), nil
}

// RebuildMonthTotals replaces the aggregate row with totals recomputed from
// the event history. The ledger stays authoritative; this is the repair path
// for aggregate drift.
func (r *ledgerRepository) RebuildMonthTotals(ctx context.Context, goalID uuid.UUID, month valueobject.Month) (*entity.MonthlyAggregate, error) {
	start, end := month.Range()

	var rebuilt *entity.MonthlyAggregate
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var totals struct {
			DepositTotalCents  int64
			WithdrawTotalCents int64
		}
		result := tx.Model(&model.GoalEventModel{}).
			Select(
				"COALESCE(SUM(CASE WHEN type = ? THEN amount_cents ELSE 0 END), 0) AS deposit_total_cents, "+
					"COALESCE(SUM(CASE WHEN type = ? THEN amount_cents ELSE 0 END), 0) AS withdraw_total_cents",
				string(entity.GoalEventTypeDeposit), string(entity.GoalEventTypeWithdraw),
			).
			Where("goal_id = ? AND occurred_on >= ? AND occurred_on < ?", goalID, start, end).
			Scan(&totals)
		if result.Error != nil {
			return result.Error
		}

		now := time.Now().UTC()
		aggModel := &model.MonthlyAggregateModel{
			GoalID:             goalID,
			Month:              month.String(),
			DepositTotalCents:  totals.DepositTotalCents,
			WithdrawTotalCents: totals.WithdrawTotalCents,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "goal_id"}, {Name: "month"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"deposit_total_cents":  totals.DepositTotalCents,
				"withdraw_total_cents": totals.WithdrawTotalCents,
				"updated_at":           now,
			}),
		}).Create(aggModel).Error; err != nil {
			return err
		}

		rebuilt = aggModel.ToEntity()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rebuilt, nil
}
