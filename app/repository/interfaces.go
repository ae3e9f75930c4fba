package repository

import (
	"time"

	"github.com/maidsflow/control-api/app/models"
	"gorm.io/gorm"
)

// RecurrenceRepository defines the storage operations behind the
// materialization engine, including the conditional-update primitives
// used for the at-most-once claim.
type RecurrenceRepository interface {
	Create(rec *models.Recurrence) error
	GetByID(companyID, id uint) (*models.Recurrence, error)
	Update(rec *models.Recurrence) error
	List(companyID uint, status string, offset, limit int) ([]models.Recurrence, int64, error)
	// ListDue returns active recurrences whose next_execution is at or
	// before now, ordered by next_execution.
	ListDue(now time.Time, limit int) ([]models.Recurrence, error)
	// ClaimNextExecution advances next_execution from expected to next
	// only if it still equals expected and the recurrence is active.
	// Returns false when another worker won the claim.
	ClaimNextExecution(id uint, expected, next time.Time) (bool, error)
	// RollbackClaim undoes a claim (next back to from) so the same
	// occurrence is retried on the following poll tick.
	RollbackClaim(id uint, from, to time.Time) (bool, error)
	// MarkExhausted terminates the recurrence, conditional on
	// next_execution still holding the claimed occurrence.
	MarkExhausted(id uint, expected time.Time) (bool, error)
	AppendNote(id uint, note string) error
	// SetStatusIf transitions status only when the current status is in
	// the from set; rows-affected reports whether it applied.
	SetStatusIf(id uint, from []string, to string) (bool, error)
}

// AppointmentFilter narrows company-scoped appointment listings.
type AppointmentFilter struct {
	From    *time.Time
	To      *time.Time
	Status  string
	TeamID  *uint
	Offset  int
	Limit   int
}

// AppointmentRepository defines appointment persistence, the overlap
// query used by conflict detection and the conditional status update
// used by cancellation.
type AppointmentRepository interface {
	Create(appt *models.Appointment) error
	// CreateFromRecurrence persists a materialized appointment and sets
	// the recurrence's last_execution in one transaction.
	CreateFromRecurrence(appt *models.Appointment, recurrenceID uint, occurrence time.Time) error
	GetByID(companyID, id uint) (*models.Appointment, error)
	List(companyID uint, f AppointmentFilter) ([]models.Appointment, int64, error)
	// FindOverlapping returns ids of non-cancelled appointments of the
	// same company and team/professional whose window intersects
	// [start, end).
	FindOverlapping(companyID uint, teamID, professionalID *uint, start, end time.Time) ([]uint, error)
	UpdateStatusIf(id uint, from []string, to string) (bool, error)
	CountActiveByCompany(companyID uint) (int64, error)
}

// CancellationRepository persists cancellation rows and their refund
// status transitions.
type CancellationRepository interface {
	// CreateWithStatusChange cancels the appointment (conditional on a
	// cancellable status) and inserts the cancellation row in one
	// transaction. Returns false when the appointment was already
	// terminal.
	CreateWithStatusChange(c *models.Cancellation) (bool, error)
	GetByID(id uint) (*models.Cancellation, error)
	GetByAppointmentID(appointmentID uint) (*models.Cancellation, error)
	ListByCompany(companyID uint, offset, limit int) ([]models.Cancellation, int64, error)
	UpdateRefundStatusIf(id uint, from, to string) (bool, error)
	// ListStalePendingRefunds returns cancellations whose refund is
	// still pending past the given cutoff, for reconciliation.
	ListStalePendingRefunds(olderThan time.Time, limit int) ([]models.Cancellation, error)
}

// PlanRepository resolves plans and the single active subscription per
// company.
type PlanRepository interface {
	CreatePlan(p *models.Plan) error
	GetPlan(id uint) (*models.Plan, error)
	ListPlans() ([]models.Plan, error)
	// GetActiveSubscription returns the company's active subscription
	// and its plan at the given instant.
	GetActiveSubscription(companyID uint, at time.Time) (*models.PlanSubscription, *models.Plan, error)
	// ActivateSubscription inserts the new subscription and expires any
	// previously active one for the company in the same transaction.
	ActivateSubscription(sub *models.PlanSubscription) error
	ExpireDueSubscriptions(now time.Time) (int64, error)
}

type CompanyRepository interface {
	Create(c *models.Company) error
	GetByID(id uint) (*models.Company, error)
	Update(c *models.Company) error
	List(offset, limit int) ([]models.Company, int64, error)
}

type CustomerRepository interface {
	Create(c *models.Customer) error
	GetByID(companyID, id uint) (*models.Customer, error)
	Update(c *models.Customer) error
	List(companyID uint, offset, limit int) ([]models.Customer, int64, error)
	CountActiveByCompany(companyID uint) (int64, error)
	SetStatus(companyID, id uint, status string) error
}

type TeamRepository interface {
	Create(t *models.Team) error
	GetByID(companyID, id uint) (*models.Team, error)
	Update(t *models.Team) error
	List(companyID uint, offset, limit int) ([]models.Team, int64, error)
	CountActiveByCompany(companyID uint) (int64, error)
}

type ProfessionalRepository interface {
	Create(p *models.Professional) error
	GetByID(companyID, id uint) (*models.Professional, error)
	Update(p *models.Professional) error
	List(companyID uint, offset, limit int) ([]models.Professional, int64, error)
	CountActiveByCompany(companyID uint) (int64, error)
}

// NotificationRepository persists delivered notification events.
type NotificationRepository interface {
	Create(n *models.Notification) error
	ListByRecipient(recipientID uint, offset, limit int) ([]models.Notification, int64, error)
}

// PaymentRepository persists plan payments and refund entries.
type PaymentRepository interface {
	Create(p *models.Payment) error
	ListByCompany(companyID uint, offset, limit int) ([]models.Payment, int64, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	Recurrence   RecurrenceRepository
	Appointment  AppointmentRepository
	Cancellation CancellationRepository
	Plan         PlanRepository
	Company      CompanyRepository
	Customer     CustomerRepository
	Team         TeamRepository
	Professional ProfessionalRepository
	Notification NotificationRepository
	Payment      PaymentRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Recurrence:   NewRecurrenceRepository(db),
		Appointment:  NewAppointmentRepository(db),
		Cancellation: NewCancellationRepository(db),
		Plan:         NewPlanRepository(db),
		Company:      NewCompanyRepository(db),
		Customer:     NewCustomerRepository(db),
		Team:         NewTeamRepository(db),
		Professional: NewProfessionalRepository(db),
		Notification: NewNotificationRepository(db),
		Payment:      NewPaymentRepository(db),
	}
}
