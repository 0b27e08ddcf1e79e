// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/savings-tracker/backend/internal/domain/entity"
	"github.com/savings-tracker/backend/internal/domain/valueobject"
)

// AppendEventInput carries one validated deposit/withdraw command into the
// ledger transaction.
type AppendEventInput struct {
	UserID          uuid.UUID
	GoalID          uuid.UUID
	Type            entity.GoalEventType
	AmountCents     int64
	OccurredOn      time.Time
	ClientRequestID string
}

// EventFilter defines filter options for listing goal events.
type EventFilter struct {
	UserID uuid.UUID
	GoalID *uuid.UUID
	Month  *valueobject.Month
	Type   *entity.GoalEventType
}

// LedgerRepository defines the transactional core of the goal balance ledger.
type LedgerRepository interface {
	// AppendEvent applies one deposit/withdraw command atomically: it locks
	// the goal row, re-validates the balance, inserts the event (enforcing
	// client request id uniqueness), updates the balance and the monthly
	// aggregate, and commits. It returns the created event and the balance
	// after the commit. Any precondition failure rolls back the whole
	// transaction and surfaces as a domain error.
	AppendEvent(ctx context.Context, input AppendEventInput) (*entity.GoalEvent, int64, error)

	// ListEvents returns one page of committed events matching the filter,
	// ordered by (created_at DESC, id DESC). When cursor is non-nil only rows
	// strictly older than the cursor are returned. The second result reports
	// whether more rows exist past this page.
	ListEvents(ctx context.Context, filter EventFilter, cursor *valueobject.EventCursor, limit int) ([]*entity.GoalEvent, bool, error)

	// MonthTotals returns the aggregate row for a goal and month. A missing
	// row is returned as zero totals, not an error.
	MonthTotals(ctx context.Context, goalID uuid.UUID, month valueobject.Month) (*entity.MonthlyAggregate, error)

	// RebuildMonthTotals recomputes the aggregate row for a goal and month by
	// replaying the event history, replacing whatever was stored. Used as a
	// repair path; the ledger itself stays authoritative.
	RebuildMonthTotals(ctx context.Context, goalID uuid.UUID, month valueobject.Month) (*entity.MonthlyAggregate, error)
}
