package cancellation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/maidsflow/control-api/app/models"
	"github.com/maidsflow/control-api/app/repository"
	"github.com/maidsflow/control-api/internal/pkg/apperrors"
	"github.com/maidsflow/control-api/internal/pkg/jobqueue"
)

type stubAppointments struct {
	appt *models.Appointment
	// remaining GetByID calls to fail with a persistence error
	loadFailures int
}

func (s *stubAppointments) Create(appt *models.Appointment) error { return nil }
func (s *stubAppointments) CreateFromRecurrence(appt *models.Appointment, recurrenceID uint, occurrence time.Time) error {
	return nil
}
func (s *stubAppointments) List(companyID uint, f repository.AppointmentFilter) ([]models.Appointment, int64, error) {
	return nil, 0, nil
}
func (s *stubAppointments) FindOverlapping(companyID uint, teamID, professionalID *uint, start, end time.Time) ([]uint, error) {
	return nil, nil
}
func (s *stubAppointments) UpdateStatusIf(id uint, from []string, to string) (bool, error) {
	return false, nil
}
func (s *stubAppointments) CountActiveByCompany(companyID uint) (int64, error) { return 0, nil }

func (s *stubAppointments) GetByID(companyID, id uint) (*models.Appointment, error) {
	if s.loadFailures > 0 {
		s.loadFailures--
		return nil, apperrors.New(apperrors.KindPersistence, "load appointment: connection reset")
	}
	if s.appt == nil || s.appt.ID != id || s.appt.CompanyID != companyID {
		return nil, apperrors.Newf(apperrors.KindNotFound, "appointment %d not found", id)
	}
	return s.appt, nil
}

type stubCancellations struct {
	mu      sync.Mutex
	nextID  uint
	rows    map[uint]*models.Cancellation
	applied bool
	// remaining CreateWithStatusChange calls to fail transiently
	writeFailures int
}

func newStubCancellations(applied bool) *stubCancellations {
	return &stubCancellations{rows: make(map[uint]*models.Cancellation), applied: applied}
}

func (s *stubCancellations) CreateWithStatusChange(c *models.Cancellation) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeFailures > 0 {
		s.writeFailures--
		return false, apperrors.New(apperrors.KindPersistence, "cancel appointment: deadlock detected")
	}
	if !s.applied {
		return false, nil
	}
	s.nextID++
	c.ID = s.nextID
	s.rows[c.ID] = c
	return true, nil
}

func (s *stubCancellations) GetByID(id uint) (*models.Cancellation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return nil, apperrors.Newf(apperrors.KindNotFound, "cancellation %d not found", id)
	}
	return row, nil
}

func (s *stubCancellations) GetByAppointmentID(appointmentID uint) (*models.Cancellation, error) {
	return nil, apperrors.Newf(apperrors.KindNotFound, "no cancellation for appointment %d", appointmentID)
}

func (s *stubCancellations) ListByCompany(companyID uint, offset, limit int) ([]models.Cancellation, int64, error) {
	return nil, 0, nil
}

func (s *stubCancellations) UpdateRefundStatusIf(id uint, from, to string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok || row.RefundStatus != from {
		return false, nil
	}
	row.RefundStatus = to
	return true, nil
}

func (s *stubCancellations) ListStalePendingRefunds(olderThan time.Time, limit int) ([]models.Cancellation, error) {
	return nil, nil
}

type capturedJob struct {
	jobType jobqueue.JobType
	payload map[string]interface{}
}

type captureQueue struct {
	mu   sync.Mutex
	jobs []capturedJob
}

func (q *captureQueue) EnqueueJob(jobType jobqueue.JobType, payload map[string]interface{}) (*jobqueue.Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, capturedJob{jobType: jobType, payload: payload})
	return &jobqueue.Job{ID: "test", Type: jobType}, nil
}

func scheduledAppointment() *models.Appointment {
	customerID := uint(40)
	return &models.Appointment{
		ID:         5,
		Title:      "Office cleaning",
		CompanyID:  7,
		CustomerID: &customerID,
		Start:      time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC),
		End:        time.Date(2025, time.June, 2, 11, 0, 0, 0, time.UTC),
		Status:     models.AppointmentStatusScheduled,
		Type:       models.AppointmentTypeOneTime,
	}
}

func TestCancelCreatesRecordAndDispatchesFollowups(t *testing.T) {
	appts := &stubAppointments{appt: scheduledAppointment()}
	cancels := newStubCancellations(true)
	queue := &captureQueue{}
	c := NewCoordinator(appts, cancels, queue)

	record, err := c.Cancel(context.Background(), Request{
		CompanyID:     7,
		AppointmentID: 5,
		Reason:        "customer moved out",
		CancelledByID: 21,
		CancelledBy:   models.RoleCustomer,
	})

	assert.NoError(t, err)
	assert.Equal(t, models.RefundStatusPending, record.RefundStatus)
	assert.Equal(t, uint(5), record.AppointmentID)
	assert.Equal(t, uint(40), record.CustomerID)
	assert.False(t, record.CancelledAt.IsZero())

	assert.Len(t, queue.jobs, 2)
	assert.Equal(t, jobqueue.JobTypeNotifyCancellation, queue.jobs[0].jobType)
	assert.Equal(t, jobqueue.JobTypeInitiateRefund, queue.jobs[1].jobType)
}

func TestCancelRetriesTransientStorageErrors(t *testing.T) {
	appts := &stubAppointments{appt: scheduledAppointment(), loadFailures: 1}
	cancels := newStubCancellations(true)
	cancels.writeFailures = 1
	queue := &captureQueue{}
	c := NewCoordinator(appts, cancels, queue)

	record, err := c.Cancel(context.Background(), Request{
		CompanyID:     7,
		AppointmentID: 5,
		Reason:        "customer moved out",
		CancelledByID: 21,
		CancelledBy:   models.RoleCustomer,
	})

	assert.NoError(t, err)
	assert.Equal(t, models.RefundStatusPending, record.RefundStatus)
	assert.Len(t, queue.jobs, 2)
}

func TestCancelSurfacesExhaustedStorageErrors(t *testing.T) {
	appts := &stubAppointments{appt: scheduledAppointment(), loadFailures: 3}
	c := NewCoordinator(appts, newStubCancellations(true), &captureQueue{})

	_, err := c.Cancel(context.Background(), Request{
		CompanyID:     7,
		AppointmentID: 5,
		Reason:        "customer moved out",
		CancelledByID: 21,
		CancelledBy:   models.RoleCustomer,
	})

	assert.True(t, apperrors.IsPersistence(err))
}

func TestCancelRequiresReason(t *testing.T) {
	c := NewCoordinator(&stubAppointments{appt: scheduledAppointment()}, newStubCancellations(true), &captureQueue{})

	_, err := c.Cancel(context.Background(), Request{CompanyID: 7, AppointmentID: 5})

	assert.True(t, apperrors.IsValidation(err))
}

func TestCancelRejectsTerminalAppointment(t *testing.T) {
	for _, status := range []string{models.AppointmentStatusCompleted, models.AppointmentStatusCancelled} {
		appt := scheduledAppointment()
		appt.Status = status
		queue := &captureQueue{}
		c := NewCoordinator(&stubAppointments{appt: appt}, newStubCancellations(true), queue)

		_, err := c.Cancel(context.Background(), Request{
			CompanyID:     7,
			AppointmentID: 5,
			Reason:        "too late",
			CancelledByID: 21,
			CancelledBy:   models.RoleCompany,
		})

		assert.True(t, apperrors.IsInvalidState(err), "status %s should be terminal", status)
		assert.Empty(t, queue.jobs)
	}
}

func TestCancelOtherTenantsAppointmentNotFound(t *testing.T) {
	c := NewCoordinator(&stubAppointments{appt: scheduledAppointment()}, newStubCancellations(true), &captureQueue{})

	_, err := c.Cancel(context.Background(), Request{
		CompanyID:     8,
		AppointmentID: 5,
		Reason:        "wrong tenant",
		CancelledByID: 21,
		CancelledBy:   models.RoleCompany,
	})

	assert.True(t, apperrors.IsNotFound(err))
}

func TestCancelLostRaceReturnsInvalidState(t *testing.T) {
	// The conditional write reports zero rows: another worker cancelled
	// or completed the appointment between the read and the write.
	queue := &captureQueue{}
	c := NewCoordinator(&stubAppointments{appt: scheduledAppointment()}, newStubCancellations(false), queue)

	_, err := c.Cancel(context.Background(), Request{
		CompanyID:     7,
		AppointmentID: 5,
		Reason:        "raced",
		CancelledByID: 21,
		CancelledBy:   models.RoleCompany,
	})

	assert.True(t, apperrors.IsInvalidState(err))
	assert.Empty(t, queue.jobs)
}

func TestDenyRefundSettlesPendingRefund(t *testing.T) {
	appts := &stubAppointments{appt: scheduledAppointment()}
	cancels := newStubCancellations(true)
	c := NewCoordinator(appts, cancels, &captureQueue{})

	record, err := c.Cancel(context.Background(), Request{
		CompanyID:     7,
		AppointmentID: 5,
		Reason:        "customer moved out",
		CancelledByID: 21,
		CancelledBy:   models.RoleCustomer,
	})
	assert.NoError(t, err)

	denied, err := c.DenyRefund(context.Background(), 7, record.ID)

	assert.NoError(t, err)
	assert.Equal(t, models.RefundStatusDenied, denied.RefundStatus)

	// A second denial finds the refund already settled.
	_, err = c.DenyRefund(context.Background(), 7, record.ID)
	assert.True(t, apperrors.IsInvalidState(err))
}

func TestDenyRefundScopedToCompany(t *testing.T) {
	cancels := newStubCancellations(true)
	c := NewCoordinator(&stubAppointments{appt: scheduledAppointment()}, cancels, &captureQueue{})

	record, err := c.Cancel(context.Background(), Request{
		CompanyID:     7,
		AppointmentID: 5,
		Reason:        "customer moved out",
		CancelledByID: 21,
		CancelledBy:   models.RoleCustomer,
	})
	assert.NoError(t, err)

	_, err = c.DenyRefund(context.Background(), 8, record.ID)

	assert.True(t, apperrors.IsNotFound(err))
}
