// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/savings-tracker/backend/internal/domain/entity"
)

// MonthlyAggregateModel represents the monthly_aggregates table in the
// database, keyed by (goal_id, month). Totals are maintained in the same
// transaction as the ledger write and can be rebuilt from goal_events.
type MonthlyAggregateModel struct {
	GoalID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Month              string    `gorm:"type:varchar(7);primaryKey"`
	DepositTotalCents  int64     `gorm:"not null;default:0"`
	WithdrawTotalCents int64     `gorm:"not null;default:0"`
	CreatedAt          time.Time `gorm:"not null"`
	UpdatedAt          time.Time `gorm:"not null"`
}

// TableName returns the table name for the MonthlyAggregateModel.
func (MonthlyAggregateModel) TableName() string {
	return "monthly_aggregates"
}

// ToEntity converts a MonthlyAggregateModel to a domain MonthlyAggregate entity.
func (m *MonthlyAggregateModel) ToEntity() *entity.MonthlyAggregate {
	return &entity.MonthlyAggregate{
		GoalID:             m.GoalID,
		Month:              m.Month,
		DepositTotalCents:  m.DepositTotalCents,
		WithdrawTotalCents: m.WithdrawTotalCents,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}
