package quota

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/maidsflow/control-api/app/models"
	"github.com/maidsflow/control-api/internal/pkg/apperrors"
)

type stubPlans struct {
	plan *models.Plan
}

func (s *stubPlans) CreatePlan(p *models.Plan) error                        { return nil }
func (s *stubPlans) GetPlan(id uint) (*models.Plan, error)                  { return s.plan, nil }
func (s *stubPlans) ListPlans() ([]models.Plan, error)                      { return nil, nil }
func (s *stubPlans) ActivateSubscription(sub *models.PlanSubscription) error { return nil }
func (s *stubPlans) ExpireDueSubscriptions(now time.Time) (int64, error)    { return 0, nil }

func (s *stubPlans) GetActiveSubscription(companyID uint, at time.Time) (*models.PlanSubscription, *models.Plan, error) {
	if s.plan == nil {
		return nil, nil, apperrors.Newf(apperrors.KindNotFound, "no active subscription for company %d", companyID)
	}
	sub := &models.PlanSubscription{ID: 1, PlanID: s.plan.ID, CompanyID: companyID, Status: models.SubscriptionStatusActive}
	return sub, s.plan, nil
}

type fixedCount int64

func (c fixedCount) CountActiveByCompany(companyID uint) (int64, error) { return int64(c), nil }

func limit(v int) *int { return &v }

func newTestEnforcer(plan *models.Plan, customers int64) *Enforcer {
	return NewEnforcer(&stubPlans{plan: plan}, fixedCount(0), fixedCount(customers), fixedCount(0), fixedCount(0))
}

func TestCheckQuotaWithinLimit(t *testing.T) {
	plan := &models.Plan{ID: 1, Name: "Starter", CustomersLimit: limit(50)}
	e := newTestEnforcer(plan, 49)

	assert.NoError(t, e.CheckQuota(7, models.ResourceCustomers))
}

func TestCheckQuotaAtLimit(t *testing.T) {
	plan := &models.Plan{ID: 1, Name: "Starter", CustomersLimit: limit(50)}
	e := newTestEnforcer(plan, 50)

	err := e.CheckQuota(7, models.ResourceCustomers)

	assert.Error(t, err)
	assert.True(t, apperrors.IsQuota(err))
	q, ok := apperrors.AsQuotaExceeded(err)
	assert.True(t, ok)
	assert.Equal(t, models.ResourceCustomers, q.Resource)
	assert.Equal(t, 50, q.Limit)
	assert.Equal(t, 50, q.Current)
}

func TestCheckQuotaUnlimitedResource(t *testing.T) {
	// A nil limit means the plan does not cap the resource, whatever
	// the current count.
	plan := &models.Plan{ID: 1, Name: "Enterprise"}
	e := newTestEnforcer(plan, 100000)

	assert.NoError(t, e.CheckQuota(7, models.ResourceCustomers))
}

func TestCheckQuotaZeroLimitBlocksFirstResource(t *testing.T) {
	plan := &models.Plan{ID: 1, Name: "Trial", TeamsLimit: limit(0)}
	e := newTestEnforcer(plan, 0)

	err := e.CheckQuota(7, models.ResourceTeams)

	assert.True(t, apperrors.IsQuota(err))
}

func TestCheckQuotaNoActiveSubscription(t *testing.T) {
	e := newTestEnforcer(nil, 0)

	err := e.CheckQuota(7, models.ResourceAppointments)

	assert.True(t, apperrors.IsNotFound(err))
}

func TestCheckQuotaUnknownResourceKind(t *testing.T) {
	plan := &models.Plan{ID: 1, Name: "Starter"}
	e := newTestEnforcer(plan, 0)

	err := e.CheckQuota(7, "invoices")

	assert.True(t, apperrors.IsValidation(err))
}

func TestLockCompanySerializesPerCompany(t *testing.T) {
	e := newTestEnforcer(&models.Plan{ID: 1, Name: "Starter"}, 0)

	var mu sync.Mutex
	inSection := 0
	maxInSection := 0

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := e.LockCompany(7)
			defer unlock()

			mu.Lock()
			inSection++
			if inSection > maxInSection {
				maxInSection = inSection
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inSection--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInSection)
}

func TestLockCompanyIndependentAcrossCompanies(t *testing.T) {
	e := newTestEnforcer(&models.Plan{ID: 1, Name: "Starter"}, 0)

	unlock7 := e.LockCompany(7)
	defer unlock7()

	done := make(chan struct{})
	go func() {
		unlock8 := e.LockCompany(8)
		unlock8()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock for company 8 blocked behind company 7")
	}
}
