package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestGoalStatePredicates(t *testing.T) {
	goal := NewGoal(uuid.New(), "Vacation", "custom", 50000, false)

	if goal.IsArchived() {
		t.Error("new goal must not be archived")
	}
	if !goal.IsWritable() {
		t.Error("new goal must accept ledger events")
	}
	if goal.IsReached() {
		t.Error("zero balance must not reach the target")
	}

	goal.CurrentBalanceCents = goal.TargetAmountCents
	if !goal.IsReached() {
		t.Error("balance at target must count as reached")
	}

	now := time.Now().UTC()
	goal.ArchivedAt = &now
	if !goal.IsArchived() || goal.IsWritable() {
		t.Error("archived goal must be read-only")
	}

	goal.ArchivedAt = nil
	goal.DeletedAt = &now
	if goal.IsWritable() {
		t.Error("soft-deleted goal must be read-only")
	}
}

func TestGoalEventBalanceDelta(t *testing.T) {
	deposit := NewGoalEvent(uuid.New(), uuid.New(), GoalEventTypeDeposit, 2500, time.Now().UTC(), "r1")
	if got := deposit.BalanceDelta(); got != 2500 {
		t.Errorf("expected deposit delta 2500, got %d", got)
	}

	withdraw := NewGoalEvent(uuid.New(), uuid.New(), GoalEventTypeWithdraw, 2500, time.Now().UTC(), "r2")
	if got := withdraw.BalanceDelta(); got != -2500 {
		t.Errorf("expected withdraw delta -2500, got %d", got)
	}
}
