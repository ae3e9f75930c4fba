package jobqueue

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/maidsflow/control-api/app/models"
	"github.com/maidsflow/control-api/app/repository"
)

// processInitiateRefundJob advances the cancellation's refund status
// from pending to processed and records the refund as a payment entry.
// The status change is a conditional update, so a redelivered job for
// an already-processed (or denied) refund is a no-op.
func (q *Queue) processInitiateRefundJob(ctx context.Context, job *Job) error {
	payload, err := InitiateRefundJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid refund payload: %w", err)
	}

	factory := repository.GetGlobalFactory()
	cancellations := factory.GetCancellationRepository()
	payments := factory.GetPaymentRepository()

	applied, err := cancellations.UpdateRefundStatusIf(payload.CancellationID, models.RefundStatusPending, models.RefundStatusProcessed)
	if err != nil {
		return fmt.Errorf("failed to advance refund status for cancellation %d: %w", payload.CancellationID, err)
	}
	if !applied {
		log.Infof("[JobQueue] Refund for cancellation %d already settled, skipping", payload.CancellationID)
		return nil
	}

	now := time.Now().UTC()
	payment := &models.Payment{
		CompanyID:   payload.CompanyID,
		Amount:      -payload.Amount,
		DueDate:     now,
		PaymentDate: &now,
		Status:      models.PaymentStatusRefunded,
		Method:      "refund",
		Reference:   fmt.Sprintf("refund-cancellation-%d", payload.CancellationID),
	}
	if err := payments.Create(payment); err != nil {
		// The refund status already advanced; the ledger entry is what
		// failed. Surface the error so the job retries, and rely on the
		// unique reference to spot duplicates downstream.
		return fmt.Errorf("failed to record refund payment for cancellation %d: %w", payload.CancellationID, err)
	}

	log.Infof("[JobQueue] Processed refund for cancellation %d (appointment %d)", payload.CancellationID, payload.AppointmentID)
	return nil
}
