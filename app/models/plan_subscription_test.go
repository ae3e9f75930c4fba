package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubscriptionRenewRollsOnePeriod(t *testing.T) {
	plan := &Plan{ID: 1, Name: "Pro", DurationDays: 30}
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	sub := PlanSubscription{
		PlanID:    1,
		CompanyID: 7,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 30),
		Status:    SubscriptionStatusActive,
		AutoRenew: true,
	}

	now := sub.EndDate.Add(time.Hour)
	sub.Renew(plan, now)

	assert.True(t, sub.StartDate.Equal(start.AddDate(0, 0, 30)))
	assert.True(t, sub.EndDate.Equal(start.AddDate(0, 0, 60)))
	assert.True(t, sub.IsCurrent(now))
}

func TestSubscriptionRenewCatchesUpMissedPeriods(t *testing.T) {
	// A sweep that fell behind by several periods still lands on the
	// billing boundary, not on the sweep instant.
	plan := &Plan{ID: 1, Name: "Pro", DurationDays: 30}
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	sub := PlanSubscription{
		PlanID:    1,
		CompanyID: 7,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 30),
		Status:    SubscriptionStatusActive,
		AutoRenew: true,
	}

	now := start.AddDate(0, 0, 75)
	sub.Renew(plan, now)

	assert.True(t, sub.StartDate.Equal(start.AddDate(0, 0, 60)))
	assert.True(t, sub.EndDate.Equal(start.AddDate(0, 0, 90)))
	assert.True(t, sub.IsCurrent(now))
}

func TestSubscriptionRenewNoOpBeforeEndDate(t *testing.T) {
	plan := &Plan{ID: 1, Name: "Pro", DurationDays: 30}
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 30)
	sub := PlanSubscription{StartDate: start, EndDate: end, Status: SubscriptionStatusActive}

	sub.Renew(plan, start.AddDate(0, 0, 10))

	assert.True(t, sub.StartDate.Equal(start))
	assert.True(t, sub.EndDate.Equal(end))
}

func TestSubscriptionIsCurrent(t *testing.T) {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 30)
	sub := PlanSubscription{StartDate: start, EndDate: end, Status: SubscriptionStatusActive}

	assert.True(t, sub.IsCurrent(start))
	assert.True(t, sub.IsCurrent(end.Add(-time.Second)))
	assert.False(t, sub.IsCurrent(end))
	assert.False(t, sub.IsCurrent(start.Add(-time.Second)))

	sub.Status = SubscriptionStatusExpired
	assert.False(t, sub.IsCurrent(start))
}
