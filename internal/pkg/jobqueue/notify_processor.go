package jobqueue

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/maidsflow/control-api/app/models"
	"github.com/maidsflow/control-api/app/repository"
	"github.com/maidsflow/control-api/internal/pkg/mail"
)

// processNotifyCancellationJob persists the notification rows for a
// cancelled appointment: one for the customer and one company-scoped
// entry for the operations staff. Delivery channels (mail, push) hang
// off the notification table and are out of scope here.
func (q *Queue) processNotifyCancellationJob(ctx context.Context, job *Job) error {
	payload, err := NotifyCancellationJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid notify payload: %w", err)
	}

	notifications := repository.GetGlobalFactory().GetNotificationRepository()
	now := time.Now().UTC()
	companyID := payload.CompanyID

	rows := []*models.Notification{
		{
			Title:         "Appointment cancelled",
			Message:       fmt.Sprintf("Appointment #%d was cancelled: %s", payload.AppointmentID, payload.Reason),
			Type:          models.NotificationTypeCancellation,
			RecipientID:   payload.CustomerID,
			RecipientRole: models.RoleCustomer,
			CompanyID:     &companyID,
			Status:        models.NotificationStatusSent,
			SentAt:        now,
		},
		{
			Title:         "Appointment cancelled",
			Message:       fmt.Sprintf("Appointment #%d was cancelled by %s: %s", payload.AppointmentID, payload.CancelledByRole, payload.Reason),
			Type:          models.NotificationTypeCancellation,
			RecipientID:   companyID,
			RecipientRole: models.RoleCompany,
			CompanyID:     &companyID,
			Status:        models.NotificationStatusSent,
			SentAt:        now,
		},
	}

	for _, n := range rows {
		// No recipient means the appointment had no customer attached.
		if n.RecipientID == 0 {
			continue
		}
		if err := notifications.Create(n); err != nil {
			return fmt.Errorf("failed to store notification for cancellation %d: %w", payload.CancellationID, err)
		}
	}

	// Email is best effort: a dead SMTP relay must not fail the job,
	// the persisted notification rows are the source of truth.
	if payload.CustomerID != 0 {
		customers := repository.GetGlobalFactory().GetCustomerRepository()
		if customer, err := customers.GetByID(payload.CompanyID, payload.CustomerID); err == nil && customer.Email != "" {
			subject := "Your appointment was cancelled"
			body := fmt.Sprintf("<p>Appointment #%d was cancelled.</p><p>Reason: %s</p>",
				payload.AppointmentID, payload.Reason)
			if err := mail.SendMail(customer.Email, subject, body); err != nil {
				log.Warnf("[JobQueue] Cancellation mail to customer %d failed: %v", payload.CustomerID, err)
			}
		}
	}

	log.Infof("[JobQueue] Stored cancellation notifications (cancellation %d)", payload.CancellationID)
	return nil
}
