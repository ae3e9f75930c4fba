package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/maidsflow/control-api/app/models"
	"github.com/maidsflow/control-api/app/repository"
	"github.com/maidsflow/control-api/internal/pkg/apperrors"
	"github.com/maidsflow/control-api/internal/pkg/quota"
)

// Outcome classifies a single materialization attempt.
type Outcome string

const (
	OutcomeCreated         Outcome = "created"
	OutcomeSkippedConflict Outcome = "skipped_conflict"
	OutcomeSkippedQuota    Outcome = "skipped_quota"
	OutcomeExhausted       Outcome = "exhausted"
	// OutcomeNotClaimed means another worker won the optimistic claim;
	// the attempt is a no-op.
	OutcomeNotClaimed Outcome = "not_claimed"
)

// Result reports what a materialization attempt did.
type Result struct {
	Outcome       Outcome
	AppointmentID uint
	Occurrence    time.Time
}

// Materializer converts one due recurrence occurrence into a persisted
// appointment, advancing the recurrence state.
type Materializer struct {
	recurrences  repository.RecurrenceRepository
	appointments repository.AppointmentRepository
	conflicts    *ConflictDetector
	quota        *quota.Enforcer
}

// NewMaterializer wires the materializer with its collaborators.
func NewMaterializer(
	recurrences repository.RecurrenceRepository,
	appointments repository.AppointmentRepository,
	conflicts *ConflictDetector,
	enforcer *quota.Enforcer,
) *Materializer {
	return &Materializer{
		recurrences:  recurrences,
		appointments: appointments,
		conflicts:    conflicts,
		quota:        enforcer,
	}
}

// Materialize runs the claim/check/create sequence for one due
// recurrence:
//
//  1. advance next_execution with a compare-and-swap (the claim):
//     a losing worker stops here;
//  2. a scheduling conflict consumes the cycle (the claim stands) and
//     leaves a note on the recurrence;
//  3. any other downstream failure rolls the claim back so the same
//     occurrence is retried on the next poll tick;
//  4. otherwise the appointment and the recurrence's last_execution
//     are written in one transaction.
func (m *Materializer) Materialize(ctx context.Context, rec *models.Recurrence) (Result, error) {
	if rec.Status != models.RecurrenceStatusActive || rec.NextExecution == nil {
		return Result{Outcome: OutcomeNotClaimed}, nil
	}
	if err := ctx.Err(); err != nil {
		return Result{}, apperrors.Wrap(apperrors.KindPersistence, "materialization aborted", err)
	}

	occurrence := rec.NextExecution.UTC()
	rule := RuleFromRecurrence(rec)

	next, ok := ComputeNextExecution(rule, occurrence)
	if !ok {
		return m.exhaust(rec, occurrence)
	}

	claimed, err := m.recurrences.ClaimNextExecution(rec.ID, occurrence, next)
	if err != nil {
		return Result{}, err
	}
	if !claimed {
		log.Debugf("[Materializer] Recurrence %d: claim for %s lost to another worker", rec.ID, occurrence)
		return Result{Outcome: OutcomeNotClaimed, Occurrence: occurrence}, nil
	}

	start := occurrence
	end := start.Add(time.Duration(rec.DurationMinutes) * time.Minute)

	conflicting, err := m.conflicts.Check(rec.CompanyID, rec.TeamID, nil, start, end)
	if err != nil {
		// Only a detected conflict may consume the cycle. A failed
		// check undoes the claim so the occurrence is retried.
		if _, rbErr := m.recurrences.RollbackClaim(rec.ID, next, occurrence); rbErr != nil {
			log.Errorf("[Materializer] Recurrence %d: claim rollback failed: %v", rec.ID, rbErr)
		}
		return Result{}, err
	}
	if len(conflicting) > 0 {
		note := fmt.Sprintf("occurrence %s skipped: window conflicts with appointment %d",
			start.Format(time.RFC3339), conflicting[0])
		if err := m.recurrences.AppendNote(rec.ID, note); err != nil {
			log.Errorf("[Materializer] Recurrence %d: failed to record conflict note: %v", rec.ID, err)
		}
		return Result{Outcome: OutcomeSkippedConflict, Occurrence: occurrence}, nil
	}

	unlock := m.quota.LockCompany(rec.CompanyID)
	defer unlock()

	if err := m.quota.CheckQuota(rec.CompanyID, models.ResourceAppointments); err != nil {
		if apperrors.IsQuota(err) {
			// Transient capacity problem: undo the claim so the same
			// occurrence is retried on the next poll tick.
			if _, rbErr := m.recurrences.RollbackClaim(rec.ID, next, occurrence); rbErr != nil {
				log.Errorf("[Materializer] Recurrence %d: claim rollback failed: %v", rec.ID, rbErr)
			}
			return Result{Outcome: OutcomeSkippedQuota, Occurrence: occurrence}, nil
		}
		if _, rbErr := m.recurrences.RollbackClaim(rec.ID, next, occurrence); rbErr != nil {
			log.Errorf("[Materializer] Recurrence %d: claim rollback failed: %v", rec.ID, rbErr)
		}
		return Result{}, err
	}

	appt := &models.Appointment{
		Title:              rec.Title,
		Address:            rec.Address,
		Start:              start,
		End:                end,
		CompanyID:          rec.CompanyID,
		CustomerID:         rec.CustomerID,
		TeamID:             rec.TeamID,
		Status:             models.AppointmentStatusScheduled,
		Type:               models.AppointmentTypeRecurring,
		SourceRecurrenceID: &rec.ID,
		Notes:              rec.Description,
	}
	if err := m.appointments.CreateFromRecurrence(appt, rec.ID, occurrence); err != nil {
		if _, rbErr := m.recurrences.RollbackClaim(rec.ID, next, occurrence); rbErr != nil {
			log.Errorf("[Materializer] Recurrence %d: claim rollback failed: %v", rec.ID, rbErr)
		}
		return Result{}, err
	}

	return Result{Outcome: OutcomeCreated, AppointmentID: appt.ID, Occurrence: occurrence}, nil
}

// exhaust terminates a recurrence whose next occurrence would fall
// past its end date. Conditional on the claim value so concurrent
// workers cannot double-apply it.
func (m *Materializer) exhaust(rec *models.Recurrence, occurrence time.Time) (Result, error) {
	applied, err := m.recurrences.MarkExhausted(rec.ID, occurrence)
	if err != nil {
		return Result{}, err
	}
	if !applied {
		return Result{Outcome: OutcomeNotClaimed, Occurrence: occurrence}, nil
	}
	log.Infof("[Materializer] Recurrence %d exhausted (end date reached)", rec.ID)
	return Result{Outcome: OutcomeExhausted, Occurrence: occurrence}, nil
}
