// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/savings-tracker/backend/internal/domain/entity"
)

// GoalEventModel represents the goal_events table in the database.
//
// Rows are append-only. The composite unique index on (user_id,
// client_request_id) is the idempotency guard: a retried command collides on
// insert instead of applying twice.
type GoalEventModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	GoalID          uuid.UUID `gorm:"type:uuid;not null;index:idx_goal_events_goal_created,priority:1"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_goal_events_request,priority:1"`
	Type            string    `gorm:"type:varchar(10);not null"`
	AmountCents     int64     `gorm:"not null"`
	OccurredOn      time.Time `gorm:"type:date;not null"`
	ClientRequestID string    `gorm:"type:varchar(128);not null;uniqueIndex:idx_goal_events_request,priority:2"`
	CreatedAt       time.Time `gorm:"not null;index:idx_goal_events_goal_created,priority:2"`
}

// TableName returns the table name for the GoalEventModel.
func (GoalEventModel) TableName() string {
	return "goal_events"
}

// ToEntity converts a GoalEventModel to a domain GoalEvent entity.
func (m *GoalEventModel) ToEntity() *entity.GoalEvent {
	return &entity.GoalEvent{
		ID:              m.ID,
		GoalID:          m.GoalID,
		UserID:          m.UserID,
		Type:            entity.GoalEventType(m.Type),
		AmountCents:     m.AmountCents,
		OccurredOn:      m.OccurredOn,
		ClientRequestID: m.ClientRequestID,
		CreatedAt:       m.CreatedAt,
	}
}

// GoalEventFromEntity creates a GoalEventModel from a domain GoalEvent entity.
func GoalEventFromEntity(event *entity.GoalEvent) *GoalEventModel {
	return &GoalEventModel{
		ID:              event.ID,
		GoalID:          event.GoalID,
		UserID:          event.UserID,
		Type:            string(event.Type),
		AmountCents:     event.AmountCents,
		OccurredOn:      event.OccurredOn,
		ClientRequestID: event.ClientRequestID,
		CreatedAt:       event.CreatedAt,
	}
}
