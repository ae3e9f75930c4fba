package quota

import (
	"sync"
	"time"

	"github.com/maidsflow/control-api/app/models"
	"github.com/maidsflow/control-api/app/repository"
	"github.com/maidsflow/control-api/internal/pkg/apperrors"
)

// Counter reports the number of currently active resources of one kind
// for a company. Each countable repository satisfies it.
type Counter interface {
	CountActiveByCompany(companyID uint) (int64, error)
}

// Enforcer resolves a company's active plan and rejects resource
// creation past the plan's limit for that resource kind.
//
// The check and the creation that follows it must run under the same
// company lock (LockCompany) so two concurrent creations cannot both
// read the same count and both pass.
type Enforcer struct {
	plans    repository.PlanRepository
	counters map[string]Counter

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

// NewEnforcer wires the enforcer with one counter per resource kind.
func NewEnforcer(plans repository.PlanRepository, appointments, customers, teams, professionals Counter) *Enforcer {
	return &Enforcer{
		plans: plans,
		counters: map[string]Counter{
			models.ResourceAppointments:  appointments,
			models.ResourceCustomers:     customers,
			models.ResourceTeams:         teams,
			models.ResourceProfessionals: professionals,
		},
		locks: make(map[uint]*sync.Mutex),
	}
}

// LockCompany serializes quota-checked creations for one company.
// The returned function releases the lock.
func (e *Enforcer) LockCompany(companyID uint) func() {
	e.mu.Lock()
	l, ok := e.locks[companyID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[companyID] = l
	}
	e.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// CheckQuota returns nil when creating one more resource of the given
// kind stays within the company's active plan, a quota_exceeded error
// when it would not, and not_found when the company has no active
// subscription.
func (e *Enforcer) CheckQuota(companyID uint, kind string) error {
	counter, ok := e.counters[kind]
	if !ok {
		return apperrors.Newf(apperrors.KindValidation, "unknown resource kind %q", kind)
	}

	_, plan, err := e.plans.GetActiveSubscription(companyID, time.Now().UTC())
	if err != nil {
		return err
	}

	limit, capped := plan.LimitFor(kind)
	if !capped {
		return nil
	}

	current, err := counter.CountActiveByCompany(companyID)
	if err != nil {
		return err
	}
	if int(current)+1 > limit {
		return apperrors.NewQuotaExceeded(kind, limit, int(current))
	}
	return nil
}
