// Package ledger contains the goal balance ledger use cases.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/savings-tracker/backend/internal/application/adapter"
	"github.com/savings-tracker/backend/internal/domain/entity"
	domainerror "github.com/savings-tracker/backend/internal/domain/error"
)

// MaxRequestIDLength caps the caller-supplied idempotency token.
const MaxRequestIDLength = 128

// CreateEventInput represents the input for recording a deposit or withdrawal.
type CreateEventInput struct {
	UserID          uuid.UUID
	GoalID          uuid.UUID
	Type            entity.GoalEventType
	AmountCents     int64
	OccurredOn      time.Time
	ClientRequestID string
}

// CreateEventOutput represents the outcome of a committed ledger write.
type CreateEventOutput struct {
	EventID           uuid.UUID
	GoalID            uuid.UUID
	Type              entity.GoalEventType
	AmountCents       int64
	OccurredOn        time.Time
	CreatedAt         time.Time
	BalanceAfterCents int64
}

// CreateEventUseCase applies one deposit/withdraw command to a goal's ledger.
//
// Input validation happens here; everything that depends on goal state (the
// balance check, the idempotency constraint) happens inside the repository
// transaction under the goal row lock, so concurrent writers on the same goal
// serialize and retries with a reused client request id apply exactly once.
type CreateEventUseCase struct {
	ledgerRepo adapter.LedgerRepository
	goalRepo   adapter.GoalRepository
	userRepo   adapter.UserRepository
	emails     adapter.EmailService
}

// NewCreateEventUseCase creates a new CreateEventUseCase instance.
// emails may be nil when notifications are disabled.
func NewCreateEventUseCase(
	ledgerRepo adapter.LedgerRepository,
	goalRepo adapter.GoalRepository,
	userRepo adapter.UserRepository,
	emails adapter.EmailService,
) *CreateEventUseCase {
	return &CreateEventUseCase{
		ledgerRepo: ledgerRepo,
		goalRepo:   goalRepo,
		userRepo:   userRepo,
		emails:     emails,
	}
}

// Execute performs the ledger write.
func (uc *CreateEventUseCase) Execute(ctx context.Context, input CreateEventInput) (*CreateEventOutput, error) {
	if input.Type != entity.GoalEventTypeDeposit && input.Type != entity.GoalEventTypeWithdraw {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidEventType,
			"event type must be DEPOSIT or WITHDRAW",
			domainerror.ErrInvalidEventType,
		)
	}

	if input.AmountCents <= 0 {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidEventAmount,
			"amount must be a positive number of cents",
			domainerror.ErrInvalidEventAmount,
		)
	}

	if input.ClientRequestID == "" {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeMissingRequestID,
			"client request id is required",
			domainerror.ErrMissingRequestID,
		)
	}
	if len(input.ClientRequestID) > MaxRequestIDLength {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeMissingRequestID,
			fmt.Sprintf("client request id must not exceed %d characters", MaxRequestIDLength),
			domainerror.ErrMissingRequestID,
		)
	}

	// Compare calendar dates, not instants: an event dated today is valid at
	// any time of day.
	occurredOn := truncateToDate(input.OccurredOn)
	if occurredOn.After(truncateToDate(time.Now().UTC())) {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeFutureDate,
			"occurrence date cannot be in the future",
			domainerror.ErrFutureDate,
		)
	}

	event, balanceAfter, err := uc.ledgerRepo.AppendEvent(ctx, adapter.AppendEventInput{
		UserID:          input.UserID,
		GoalID:          input.GoalID,
		Type:            input.Type,
		AmountCents:     input.AmountCents,
		OccurredOn:      occurredOn,
		ClientRequestID: input.ClientRequestID,
	})
	if err != nil {
		if errors.Is(err, domainerror.ErrGoalNotFound) {
			return nil, domainerror.NewGoalError(
				domainerror.ErrCodeGoalNotFound,
				"goal not found",
				domainerror.ErrGoalNotFound,
			)
		}
		var ledgerErr *domainerror.LedgerError
		if errors.As(err, &ledgerErr) {
			return nil, ledgerErr
		}
		return nil, fmt.Errorf("failed to append goal event: %w", err)
	}

	if input.Type == entity.GoalEventTypeDeposit {
		uc.notifyIfReached(ctx, input.UserID, input.GoalID, input.AmountCents, balanceAfter)
	}

	return &CreateEventOutput{
		EventID:           event.ID,
		GoalID:            event.GoalID,
		Type:              event.Type,
		AmountCents:       event.AmountCents,
		OccurredOn:        event.OccurredOn,
		CreatedAt:         event.CreatedAt,
		BalanceAfterCents: balanceAfter,
	}, nil
}

// notifyIfReached queues a goal-reached email when this deposit lifted the
// balance across the target. Runs after the ledger transaction committed: a
// notification failure must never roll back a recorded event, so errors here
// are logged and swallowed.
func (uc *CreateEventUseCase) notifyIfReached(ctx context.Context, userID, goalID uuid.UUID, depositCents, balanceAfter int64) {
	if uc.emails == nil {
		return
	}

	goal, err := uc.goalRepo.FindByOwner(ctx, userID, goalID)
	if err != nil {
		slog.Debug("Failed to load goal for reach notification", "goalID", goalID, "error", err)
		return
	}

	// Notify only when this deposit crossed the target: reached after, not before.
	before, after := *goal, *goal
	before.CurrentBalanceCents = balanceAfter - depositCents
	after.CurrentBalanceCents = balanceAfter
	if !after.IsReached() || before.IsReached() {
		return
	}

	user, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		slog.Debug("Failed to load user for reach notification", "userID", userID, "error", err)
		return
	}
	if !user.GoalAlerts {
		return
	}

	err = uc.emails.QueueGoalReachedEmail(ctx, adapter.QueueGoalReachedInput{
		UserEmail:         user.Email,
		UserName:          user.Name,
		GoalName:          goal.Name,
		TargetAmountCents: goal.TargetAmountCents,
		BalanceCents:      balanceAfter,
	})
	if err != nil {
		slog.Warn("Failed to queue goal-reached email",
			"goalID", goalID,
			"userID", userID,
			"error", err,
		)
		return
	}

	slog.Info("Goal reached, notification queued",
		"goalID", goalID,
		"balance_cents", balanceAfter,
		"target_cents", goal.TargetAmountCents,
	)
}

// truncateToDate drops the time-of-day component in UTC.
func truncateToDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
