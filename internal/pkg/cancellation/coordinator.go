package cancellation

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/maidsflow/control-api/app/models"
	"github.com/maidsflow/control-api/app/repository"
	"github.com/maidsflow/control-api/internal/pkg/apperrors"
	"github.com/maidsflow/control-api/internal/pkg/jobqueue"
)

const (
	persistenceRetries = 3
	retryBaseDelay     = 200 * time.Millisecond
)

// Enqueuer dispatches background jobs. Satisfied by *jobqueue.Queue.
type Enqueuer interface {
	EnqueueJob(jobType jobqueue.JobType, payload map[string]interface{}) (*jobqueue.Job, error)
}

// Request carries the inputs of a cancellation attempt.
type Request struct {
	CompanyID     uint
	AppointmentID uint
	Reason        string
	CancelledByID uint
	CancelledBy   string
}

// Coordinator drives the appointment cancellation lifecycle: validate
// the transition, flip the appointment and write the cancellation row
// atomically, then hand notification and refund work to the queue.
type Coordinator struct {
	appointments  repository.AppointmentRepository
	cancellations repository.CancellationRepository
	queue         Enqueuer
}

func NewCoordinator(appointments repository.AppointmentRepository, cancellations repository.CancellationRepository, queue Enqueuer) *Coordinator {
	return &Coordinator{
		appointments:  appointments,
		cancellations: cancellations,
		queue:         queue,
	}
}

// Cancel cancels an appointment on behalf of the given actor. Exactly
// one cancellation row can exist per appointment: the status flip and
// the insert happen in one transaction, conditional on the appointment
// still being in a cancellable status. Completed or already-cancelled
// appointments are rejected with an invalid-state error.
//
// Source recurrences are deliberately left untouched: cancelling one
// occurrence must not stop future materialization.
func (c *Coordinator) Cancel(ctx context.Context, req Request) (*models.Cancellation, error) {
	if req.Reason == "" {
		return nil, apperrors.New(apperrors.KindValidation, "cancellation reason is required")
	}

	var appt *models.Appointment
	err := withPersistenceRetry(ctx, func() error {
		var loadErr error
		appt, loadErr = c.appointments.GetByID(req.CompanyID, req.AppointmentID)
		return loadErr
	})
	if err != nil {
		return nil, err
	}
	if !appt.CanTransitionTo(models.AppointmentStatusCancelled) {
		return nil, apperrors.Newf(apperrors.KindInvalidState,
			"appointment %d is %s and cannot be cancelled", appt.ID, appt.Status)
	}

	record := &models.Cancellation{
		AppointmentID:   appt.ID,
		CompanyID:       appt.CompanyID,
		Reason:          req.Reason,
		CancelledByID:   req.CancelledByID,
		CancelledByRole: req.CancelledBy,
		CancelledAt:     time.Now().UTC(),
		RefundStatus:    models.RefundStatusPending,
	}
	if appt.CustomerID != nil {
		record.CustomerID = *appt.CustomerID
	}
	if err := record.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, "invalid cancellation", err)
	}

	var applied bool
	err = withPersistenceRetry(ctx, func() error {
		var writeErr error
		applied, writeErr = c.cancellations.CreateWithStatusChange(record)
		return writeErr
	})
	if err != nil {
		return nil, err
	}
	if !applied {
		// Lost a race against a concurrent cancel or completion.
		return nil, apperrors.Newf(apperrors.KindInvalidState,
			"appointment %d left its cancellable window", appt.ID)
	}

	c.dispatchFollowups(record)
	return record, nil
}

// dispatchFollowups enqueues the notification and refund jobs. Enqueue
// failures are logged, not returned: the cancellation itself already
// committed, and the refund reconcile sweep picks up anything the
// queue dropped.
func (c *Coordinator) dispatchFollowups(record *models.Cancellation) {
	notify := jobqueue.NotifyCancellationJobPayload{
		CancellationID:  record.ID,
		AppointmentID:   record.AppointmentID,
		CompanyID:       record.CompanyID,
		CustomerID:      record.CustomerID,
		Reason:          record.Reason,
		CancelledByRole: record.CancelledByRole,
	}
	if _, err := c.queue.EnqueueJob(jobqueue.JobTypeNotifyCancellation, notify.ToMap()); err != nil {
		log.Errorf("[Cancellation] Failed to enqueue notification for cancellation %d: %v", record.ID, err)
	}

	refund := jobqueue.InitiateRefundJobPayload{
		CancellationID: record.ID,
		AppointmentID:  record.AppointmentID,
		CompanyID:      record.CompanyID,
	}
	if _, err := c.queue.EnqueueJob(jobqueue.JobTypeInitiateRefund, refund.ToMap()); err != nil {
		log.Errorf("[Cancellation] Failed to enqueue refund for cancellation %d: %v", record.ID, err)
	}
}

// DenyRefund settles a pending refund as denied, for operator review.
func (c *Coordinator) DenyRefund(ctx context.Context, companyID, cancellationID uint) (*models.Cancellation, error) {
	record, err := c.cancellations.GetByID(cancellationID)
	if err != nil {
		return nil, err
	}
	if record.CompanyID != companyID {
		return nil, apperrors.Newf(apperrors.KindNotFound, "cancellation %d not found", cancellationID)
	}

	applied, err := c.cancellations.UpdateRefundStatusIf(cancellationID, models.RefundStatusPending, models.RefundStatusDenied)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, apperrors.Newf(apperrors.KindInvalidState,
			"refund for cancellation %d is not pending", cancellationID)
	}
	record.RefundStatus = models.RefundStatusDenied
	return record, nil
}

// withPersistenceRetry re-runs op on transient storage errors with a
// doubling delay. Other error kinds and successes return immediately;
// the last persistence error is surfaced once the attempts run out.
func withPersistenceRetry(ctx context.Context, op func() error) error {
	delay := retryBaseDelay
	var err error
	for attempt := 0; attempt < persistenceRetries; attempt++ {
		if err = op(); err == nil || !apperrors.IsPersistence(err) {
			return err
		}
		if attempt < persistenceRetries-1 {
			log.Warnf("[Cancellation] Transient storage error (attempt %d/%d): %v", attempt+1, persistenceRetries, err)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return err
			}
			delay *= 2
		}
	}
	return err
}
