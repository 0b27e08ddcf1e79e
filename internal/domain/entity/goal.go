// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Goal represents a savings goal in the Savings Tracker system.
//
// CurrentBalanceCents is derived from the goal's event ledger: it always equals
// the sum of deposit amounts minus the sum of withdrawal amounts over committed
// events, and it never goes negative.
type Goal struct {
	ID                  uuid.UUID
	UserID              uuid.UUID
	Name                string
	TypeCode            string
	TargetAmountCents   int64
	CurrentBalanceCents int64
	IsPriority          bool
	ArchivedAt          *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
	DeletedAt           *time.Time // Soft-delete support
}

// NewGoal creates a new Goal entity with a zero balance.
func NewGoal(userID uuid.UUID, name, typeCode string, targetAmountCents int64, isPriority bool) *Goal {
	now := time.Now().UTC()

	return &Goal{
		ID:                  uuid.New(),
		UserID:              userID,
		Name:                name,
		TypeCode:            typeCode,
		TargetAmountCents:   targetAmountCents,
		CurrentBalanceCents: 0,
		IsPriority:          isPriority,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// IsArchived reports whether the goal has been archived.
func (g *Goal) IsArchived() bool {
	return g.ArchivedAt != nil
}

// IsWritable reports whether the goal currently accepts new ledger events.
// Archived and soft-deleted goals behave as absent to writers.
func (g *Goal) IsWritable() bool {
	return g.ArchivedAt == nil && g.DeletedAt == nil
}

// IsReached reports whether the balance has reached the target amount.
func (g *Goal) IsReached() bool {
	return g.CurrentBalanceCents >= g.TargetAmountCents
}
