// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// GoalEventType represents the type of a goal ledger event.
type GoalEventType string

const (
	GoalEventTypeDeposit  GoalEventType = "DEPOSIT"
	GoalEventTypeWithdraw GoalEventType = "WITHDRAW"
)

// GoalEvent is an immutable record of one balance-affecting action on a goal.
//
// Events are append-only: once committed they are never mutated or deleted.
// ClientRequestID is the caller-supplied idempotency token, unique per user,
// that makes a write safely retryable.
type GoalEvent struct {
	ID              uuid.UUID
	GoalID          uuid.UUID
	UserID          uuid.UUID
	Type            GoalEventType
	AmountCents     int64
	OccurredOn      time.Time // Calendar date; never in the future.
	ClientRequestID string
	CreatedAt       time.Time
}

// NewGoalEvent creates a new GoalEvent entity.
func NewGoalEvent(goalID, userID uuid.UUID, eventType GoalEventType, amountCents int64, occurredOn time.Time, clientRequestID string) *GoalEvent {
	return &GoalEvent{
		ID:              uuid.New(),
		GoalID:          goalID,
		UserID:          userID,
		Type:            eventType,
		AmountCents:     amountCents,
		OccurredOn:      occurredOn,
		ClientRequestID: clientRequestID,
		CreatedAt:       time.Now().UTC(),
	}
}

// BalanceDelta returns the signed effect of the event on the goal balance.
func (e *GoalEvent) BalanceDelta() int64 {
	if e.Type == GoalEventTypeWithdraw {
		return -e.AmountCents
	}
	return e.AmountCents
}
