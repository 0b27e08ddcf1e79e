// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// MonthlyAggregate holds per-goal, per-calendar-month deposit and withdrawal
// totals, maintained in the same transaction as the ledger write.
//
// It is derived data: the ledger is authoritative and an aggregate row can
// always be rebuilt by replaying the goal's events for the month.
type MonthlyAggregate struct {
	GoalID             uuid.UUID
	Month              string // "YYYY-MM"
	DepositTotalCents  int64
	WithdrawTotalCents int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NetCents returns deposits minus withdrawals for the month.
func (a *MonthlyAggregate) NetCents() int64 {
	return a.DepositTotalCents - a.WithdrawTotalCents
}
