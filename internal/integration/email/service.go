// Package email provides email sending functionality.
package email

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/savings-tracker/backend/internal/application/adapter"
	"github.com/savings-tracker/backend/internal/domain/entity"
	domainerror "github.com/savings-tracker/backend/internal/domain/error"
)

// Service handles email queueing operations.
type Service struct {
	queue      adapter.EmailQueueRepository
	appBaseURL string
}

// NewService creates a new email service.
func NewService(queue adapter.EmailQueueRepository, appBaseURL string) *Service {
	return &Service{
		queue:      queue,
		appBaseURL: appBaseURL,
	}
}

// QueueGoalReachedEmail queues a notification that a savings goal reached its target.
func (s *Service) QueueGoalReachedEmail(ctx context.Context, input adapter.QueueGoalReachedInput) error {
	subject := fmt.Sprintf("You reached your goal: %s", input.GoalName)

	goalURL := input.GoalURL
	if goalURL == "" {
		goalURL = s.appBaseURL + "/goals"
	}

	templateData := map[string]interface{}{
		"user_name":     input.UserName,
		"goal_name":     input.GoalName,
		"target_amount": decimal.New(input.TargetAmountCents, -2).StringFixed(2),
		"balance":       decimal.New(input.BalanceCents, -2).StringFixed(2),
		"goal_url":      goalURL,
	}

	job := entity.NewEmailJob(
		entity.TemplateGoalReached,
		input.UserEmail,
		input.UserName,
		subject,
		templateData,
	)

	if err := s.queue.Create(ctx, job); err != nil {
		return domainerror.NewEmailError(
			domainerror.ErrCodeEmailQueueFailed,
			"failed to queue goal reached email",
			err,
		)
	}

	return nil
}

// Ensure Service implements adapter.EmailService.
var _ adapter.EmailService = (*Service)(nil)
