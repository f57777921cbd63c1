package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	gateway "github.com/openfleet/shipping-gateway/internal/gateways"
	"github.com/openfleet/shipping-gateway/internal/model"
	"github.com/openfleet/shipping-gateway/internal/queue"
	"github.com/openfleet/shipping-gateway/pkg/logger"
	"github.com/openfleet/shipping-gateway/pkg/prom"
)

type EmailProcessor struct {
	client      *gateway.MailClient
	idempotency *IdempotencyService
}

func NewEmailProcessor(client *gateway.MailClient, idempotency *IdempotencyService) *EmailProcessor {
	return &EmailProcessor{
		client:      client,
		idempotency: idempotency,
	}
}

func (p *EmailProcessor) GetType() string {
	return "email"
}

// composeEmail renders the subject and body for a job kind.
func composeEmail(job *model.EmailJob) (subject, body string, err error) {
	switch job.Kind {
	case model.EmailWelcome:
		subject = "Welcome to OpenFleet"
		body = fmt.Sprintf("Hi %s,\n\nYour account has been created. You can now create and track shipments.", job.Name)
	case model.EmailShipmentAssigned:
		subject = fmt.Sprintf("New shipment assigned: %s", job.ShipmentID)
		body = fmt.Sprintf("Hi %s,\n\nShipment %s bound for %s has been assigned to you.", job.Name, job.ShipmentID, job.Destination)
	case model.EmailShipmentDelivered:
		subject = fmt.Sprintf("Shipment delivered: %s", job.ShipmentID)
		body = fmt.Sprintf("Hi %s,\n\nYour shipment %s has been delivered to %s.", job.Name, job.ShipmentID, job.Destination)
	default:
		return "", "", fmt.Errorf("unknown email kind: %s", job.Kind)
	}
	return subject, body, nil
}

// Process sends one email job to the provider with idempotency guarantees
func (p *EmailProcessor) Process(ctx context.Context, queueMessage *queue.Message) error {
	// Step 1: Parse job
	var job model.EmailJob
	err := json.Unmarshal(queueMessage.Data, &job)
	if err != nil {
		logger.Error("Failed to unmarshal email job", "error", err)
		return err // Return error to trigger DLQ move
	}

	subject, body, err := composeEmail(&job)
	if err != nil {
		// Unknown kind won't succeed on retry - ACK and drop
		logger.Error("Dropping email job", "job_id", queueMessage.ID, "error", err)
		return nil
	}

	jobID := queueMessage.ID

	// Step 2: Acquire processing lock and check idempotency
	procCtx, err := p.idempotency.AcquireProcessingLock(ctx, jobID)
	if err != nil {
		if errors.Is(err, ErrAlreadyProcessed) {
			// Job already processed successfully - ACK to remove from queue
			logger.Info("Email already sent, skipping", "job_id", jobID)
			return nil
		}
		if errors.Is(err, ErrMaxRetriesExceeded) {
			// Max retries exceeded - ACK to move to DLQ
			logger.Error("Max retries exceeded", "job_id", jobID, "to", job.To)
			return nil
		}
		if errors.Is(err, ErrLockAcquireFailed) {
			// Another consumer is processing - NACK to retry later
			logger.Info("Lock held by another consumer, will retry", "job_id", jobID)
			return errors.New("lock held by another consumer")
		}
		// Unexpected error - NACK to retry
		logger.Error("Failed to acquire lock", "job_id", jobID, "error", err)
		return err
	}

	// Ensure lock is released on exit (if not already marked success/failure)
	defer func() {
		p.idempotency.ReleaseLock(ctx, procCtx)
	}()

	logger.Info("Processing email job",
		"job_id", jobID,
		"kind", string(job.Kind),
		"to", job.To,
		"retry_count", procCtx.RetryCount,
		"is_retry", procCtx.IsRetry)

	// Step 3: Submit email to provider
	start := time.Now()
	res, err := p.client.SendEmail(ctx, &gateway.SendEmailRequest{
		To:      job.To,
		Subject: subject,
		Body:    body,
	})
	if err != nil {
		// Step 4a: Sending failed - mark failure and retry
		logger.Error("Failed to send email", "job_id", jobID, "error", err)
		if markErr := p.idempotency.MarkFailure(ctx, procCtx, err); markErr != nil {
			logger.Error("Failed to mark failure", "job_id", jobID, "error", markErr)
		}
		return err // NACK to retry from queue
	}

	if res.Status == gateway.StatusAccepted {
		// Step 4b: Provider accepted - record metrics and mark success
		prom.AddNotificationDeliveryDuration(time.Since(start).Seconds(), string(job.Kind))

		logger.Info("Email sent successfully",
			"job_id", jobID,
			"to", job.To,
			"kind", string(job.Kind),
			"retry_count", procCtx.RetryCount)

		if markErr := p.idempotency.MarkSuccess(ctx, procCtx); markErr != nil {
			logger.Error("Failed to mark success", "job_id", jobID, "error", markErr)
			// Continue - email was sent successfully
		}

		return nil // ACK message
	}

	// Provider returned non-accepted status - treat as failure
	logger.Warn("Email not accepted", "job_id", jobID, "status", string(res.Status))
	if markErr := p.idempotency.MarkFailure(ctx, procCtx, errors.New("provider returned non-accepted status")); markErr != nil {
		logger.Error("Failed to mark failure", "job_id", jobID, "error", markErr)
	}
	return errors.New("failed to send email")
}
