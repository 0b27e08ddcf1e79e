// Package ledger contains the goal balance ledger use cases.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/savings-tracker/backend/internal/application/adapter"
	"github.com/savings-tracker/backend/internal/domain/entity"
	domainerror "github.com/savings-tracker/backend/internal/domain/error"
	"github.com/savings-tracker/backend/internal/domain/valueobject"
)

const (
	// DefaultPageLimit is applied when the caller does not specify a limit.
	DefaultPageLimit = 50
	// MaxPageLimit is the largest accepted page size.
	MaxPageLimit = 100
)

// ListEventsInput represents the input for listing goal events.
type ListEventsInput struct {
	UserID uuid.UUID
	GoalID *uuid.UUID
	Month  *string // "YYYY-MM"
	Type   *string // "DEPOSIT" or "WITHDRAW"
	Cursor *string
	Limit  *int
}

// EventOutput represents a single event in a listing.
type EventOutput struct {
	ID          uuid.UUID
	GoalID      uuid.UUID
	Type        entity.GoalEventType
	AmountCents int64
	OccurredOn  time.Time
	CreatedAt   time.Time
}

// ListEventsOutput represents one page of the event history.
type ListEventsOutput struct {
	Events     []EventOutput
	NextCursor *string
	HasMore    bool
	Limit      int
}

// ListEventsUseCase reads committed event history with keyset pagination.
//
// Pages are ordered (created_at DESC, id DESC) and the cursor predicate is
// strictly "older than the last row served", so events committed after a
// cursor was issued never shift or re-enter already-fetched pages.
type ListEventsUseCase struct {
	ledgerRepo adapter.LedgerRepository
}

// NewListEventsUseCase creates a new ListEventsUseCase instance.
func NewListEventsUseCase(ledgerRepo adapter.LedgerRepository) *ListEventsUseCase {
	return &ListEventsUseCase{
		ledgerRepo: ledgerRepo,
	}
}

// Execute performs the listing.
func (uc *ListEventsUseCase) Execute(ctx context.Context, input ListEventsInput) (*ListEventsOutput, error) {
	limit := DefaultPageLimit
	if input.Limit != nil {
		limit = *input.Limit
	}
	if limit < 1 || limit > MaxPageLimit {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidLimit,
			fmt.Sprintf("limit must be between 1 and %d", MaxPageLimit),
			domainerror.ErrInvalidLimit,
		)
	}

	filter := adapter.EventFilter{
		UserID: input.UserID,
		GoalID: input.GoalID,
	}

	if input.Month != nil {
		month, err := valueobject.ParseMonth(*input.Month)
		if err != nil {
			return nil, domainerror.NewLedgerError(
				domainerror.ErrCodeInvalidMonth,
				"month filter must be of the form YYYY-MM",
				domainerror.ErrInvalidMonth,
			)
		}
		filter.Month = &month
	}

	if input.Type != nil {
		eventType := entity.GoalEventType(*input.Type)
		if eventType != entity.GoalEventTypeDeposit && eventType != entity.GoalEventTypeWithdraw {
			return nil, domainerror.NewLedgerError(
				domainerror.ErrCodeInvalidEventType,
				"type filter must be DEPOSIT or WITHDRAW",
				domainerror.ErrInvalidEventType,
			)
		}
		filter.Type = &eventType
	}

	var cursor *valueobject.EventCursor
	if input.Cursor != nil && *input.Cursor != "" {
		decoded, err := valueobject.DecodeEventCursor(*input.Cursor)
		if err != nil {
			return nil, domainerror.NewLedgerError(
				domainerror.ErrCodeInvalidCursor,
				"cursor is malformed",
				domainerror.ErrInvalidCursor,
			)
		}
		cursor = &decoded
	}

	events, hasMore, err := uc.ledgerRepo.ListEvents(ctx, filter, cursor, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list goal events: %w", err)
	}

	output := &ListEventsOutput{
		Events:  make([]EventOutput, len(events)),
		HasMore: hasMore,
		Limit:   limit,
	}
	for i, e := range events {
		output.Events[i] = EventOutput{
			ID:          e.ID,
			GoalID:      e.GoalID,
			Type:        e.Type,
			AmountCents: e.AmountCents,
			OccurredOn:  e.OccurredOn,
			CreatedAt:   e.CreatedAt,
		}
	}

	if hasMore && len(events) > 0 {
		last := events[len(events)-1]
		next := valueobject.EventCursor{CreatedAt: last.CreatedAt, ID: last.ID}.Encode()
		output.NextCursor = &next
	}

	return output, nil
}
