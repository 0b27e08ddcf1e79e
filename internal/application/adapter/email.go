// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/savings-tracker/backend/internal/domain/entity"
)

// EmailQueueRepository defines persistence for queued email jobs.
type EmailQueueRepository interface {
	// Create enqueues a new email job.
	Create(ctx context.Context, job *entity.EmailJob) error

	// GetPendingJobs fetches up to limit jobs that are due for processing.
	GetPendingJobs(ctx context.Context, limit int) ([]*entity.EmailJob, error)

	// Update persists status changes for an email job.
	Update(ctx context.Context, job *entity.EmailJob) error
}

// SendEmailInput holds the data for sending a single email.
type SendEmailInput struct {
	To      string
	Name    string
	Subject string
	HTML    string
	Text    string
}

// SendEmailResult holds the provider response for a sent email.
type SendEmailResult struct {
	ResendID string
}

// EmailSender defines the outbound email delivery operation.
type EmailSender interface {
	Send(ctx context.Context, input SendEmailInput) (*SendEmailResult, error)
}

// QueueGoalReachedInput holds the data for a goal-reached notification.
type QueueGoalReachedInput struct {
	UserEmail         string
	UserName          string
	GoalName          string
	TargetAmountCents int64
	BalanceCents      int64
	GoalURL           string
}

// EmailService defines the notification queueing operations exposed to use cases.
type EmailService interface {
	// QueueGoalReachedEmail queues a notification that a goal reached its target.
	QueueGoalReachedEmail(ctx context.Context, input QueueGoalReachedInput) error
}
