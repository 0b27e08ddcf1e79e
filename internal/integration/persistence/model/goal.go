// Package model defines database models for persistence layer.
package model

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/savings-tracker/backend/internal/domain/entity"
)

// GoalModel represents the goals table in the database.
//
// CurrentBalanceCents is the denormalized ledger balance. It is updated only
// inside the same transaction that appends a goal event, so it never drifts
// from the event history.
type GoalModel struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserID              uuid.UUID      `gorm:"type:uuid;not null;index"`
	Name                string         `gorm:"type:varchar(120);not null"`
	TypeCode            string         `gorm:"type:varchar(30);not null;default:'custom'"`
	TargetAmountCents   int64          `gorm:"not null"`
	CurrentBalanceCents int64          `gorm:"not null;default:0"`
	IsPriority          bool           `gorm:"not null;default:false;index"`
	ArchivedAt          sql.NullTime   `gorm:"type:timestamptz"`
	CreatedAt           time.Time      `gorm:"not null"`
	UpdatedAt           time.Time      `gorm:"not null"`
	DeletedAt           gorm.DeletedAt `gorm:"index"` // Soft-delete support
}

// TableName returns the table name for the GoalModel.
func (GoalModel) TableName() string {
	return "goals"
}

// ToEntity converts a GoalModel to a domain Goal entity.
func (m *GoalModel) ToEntity() *entity.Goal {
	var archivedAt *time.Time
	if m.ArchivedAt.Valid {
		archivedAt = &m.ArchivedAt.Time
	}

	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		deletedAt = &m.DeletedAt.Time
	}

	return &entity.Goal{
		ID:                  m.ID,
		UserID:              m.UserID,
		Name:                m.Name,
		TypeCode:            m.TypeCode,
		TargetAmountCents:   m.TargetAmountCents,
		CurrentBalanceCents: m.CurrentBalanceCents,
		IsPriority:          m.IsPriority,
		ArchivedAt:          archivedAt,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
		DeletedAt:           deletedAt,
	}
}

// GoalFromEntity creates a GoalModel from a domain Goal entity.
func GoalFromEntity(goal *entity.Goal) *GoalModel {
	var archivedAt sql.NullTime
	if goal.ArchivedAt != nil {
		archivedAt = sql.NullTime{Time: *goal.ArchivedAt, Valid: true}
	}

	var deletedAt gorm.DeletedAt
	if goal.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *goal.DeletedAt, Valid: true}
	}

	return &GoalModel{
		ID:                  goal.ID,
		UserID:              goal.UserID,
		Name:                goal.Name,
		TypeCode:            goal.TypeCode,
		TargetAmountCents:   goal.TargetAmountCents,
		CurrentBalanceCents: goal.CurrentBalanceCents,
		IsPriority:          goal.IsPriority,
		ArchivedAt:          archivedAt,
		CreatedAt:           goal.CreatedAt,
		UpdatedAt:           goal.UpdatedAt,
		DeletedAt:           deletedAt,
	}
}
