package scheduling

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/robfig/cron/v3"

	"github.com/maidsflow/control-api/app/models"
	"github.com/maidsflow/control-api/app/repository"
	"github.com/maidsflow/control-api/internal/pkg/apperrors"
	"github.com/maidsflow/control-api/internal/pkg/env"
)

const (
	defaultPollInterval   = time.Minute
	defaultAttemptTimeout = 30 * time.Second
	defaultWorkers        = 4
	defaultBatchSize      = 100

	persistenceRetries = 3
	retryBaseDelay     = 2 * time.Second
)

// RunStats summarizes one polling pass over the due recurrences.
type RunStats struct {
	Due       int
	Created   int
	Conflicts int
	QuotaHits int
	Exhausted int
	Errors    int
}

// Runner is the periodic trigger driving materialization. Multiple
// runner processes may poll the same database concurrently; the
// claim CAS inside the materializer keeps each occurrence at-most-once.
type Runner struct {
	recurrences    repository.RecurrenceRepository
	materializer   *Materializer
	pollInterval   time.Duration
	attemptTimeout time.Duration
	workers        int
	batchSize      int

	c       *cron.Cron
	mu      sync.Mutex
	running bool
}

// NewRunner builds the trigger from env-driven policy values.
func NewRunner(recurrences repository.RecurrenceRepository, materializer *Materializer) *Runner {
	return &Runner{
		recurrences:    recurrences,
		materializer:   materializer,
		pollInterval:   envDuration("SCHEDULER_POLL_INTERVAL", defaultPollInterval),
		attemptTimeout: envDuration("SCHEDULER_ATTEMPT_TIMEOUT", defaultAttemptTimeout),
		workers:        envInt("SCHEDULER_WORKERS", defaultWorkers),
		batchSize:      envInt("SCHEDULER_BATCH_SIZE", defaultBatchSize),
	}
}

// Start schedules the periodic polling pass. Safe to call once.
func (r *Runner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return
	}
	r.running = true

	r.c = cron.New()
	r.c.Schedule(cron.Every(r.pollInterval), cron.FuncJob(func() {
		stats := r.RunDueRecurrences(context.Background())
		if stats.Due > 0 {
			log.Infof("[Scheduler] Pass done: due=%d created=%d conflicts=%d quota=%d exhausted=%d errors=%d",
				stats.Due, stats.Created, stats.Conflicts, stats.QuotaHits, stats.Exhausted, stats.Errors)
		}
	}))
	r.c.Start()
	log.Infof("[Scheduler] Started (interval %s, %d workers)", r.pollInterval, r.workers)
}

// Stop halts the periodic trigger and waits for a running pass.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}
	r.running = false
	<-r.c.Stop().Done()
	log.Info("[Scheduler] Stopped")
}

// RunDueRecurrences executes one polling pass: select due recurrences
// and attempt materialization for each, in parallel across distinct
// recurrences. Persistence failures are retried with backoff and
// logged; they are never surfaced to an end user.
func (r *Runner) RunDueRecurrences(ctx context.Context) RunStats {
	stats := RunStats{}

	due, err := r.recurrences.ListDue(time.Now().UTC(), r.batchSize)
	if err != nil {
		log.Errorf("[Scheduler] Failed to list due recurrences: %v", err)
		stats.Errors++
		return stats
	}
	stats.Due = len(due)
	if len(due) == 0 {
		return stats
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, r.workers)
	)
	for i := range due {
		rec := due[i]
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			result := r.materializeWithRetry(ctx, &rec)

			mu.Lock()
			defer mu.Unlock()
			switch result.Outcome {
			case OutcomeCreated:
				stats.Created++
			case OutcomeSkippedConflict:
				stats.Conflicts++
			case OutcomeSkippedQuota:
				stats.QuotaHits++
			case OutcomeExhausted:
				stats.Exhausted++
			case "":
				stats.Errors++
			}
		}()
	}
	wg.Wait()

	return stats
}

// materializeWithRetry bounds each attempt with the policy timeout and
// retries transient persistence failures with exponential backoff. An
// exhausted retry budget leaves the occurrence for the next tick; the
// claim CAS guarantees it cannot double-materialize.
func (r *Runner) materializeWithRetry(ctx context.Context, rec *models.Recurrence) Result {
	delay := retryBaseDelay
	for attempt := 0; attempt < persistenceRetries; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, r.attemptTimeout)
		result, err := r.materializer.Materialize(attemptCtx, rec)
		cancel()

		if err == nil {
			return result
		}
		if !apperrors.IsPersistence(err) {
			log.Errorf("[Scheduler] Recurrence %d: materialization failed: %v", rec.ID, err)
			return Result{}
		}

		log.Warnf("[Scheduler] Recurrence %d: transient failure (attempt %d/%d): %v",
			rec.ID, attempt+1, persistenceRetries, err)
		if attempt < persistenceRetries-1 {
			time.Sleep(delay)
			delay *= 2
		}
	}
	return Result{}
}

func envDuration(key string, def time.Duration) time.Duration {
	raw := env.GetEnv(key, "")
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Warnf("[Scheduler] Ignoring invalid %s=%q", key, raw)
		return def
	}
	return d
}

func envInt(key string, def int) int {
	raw := env.GetEnv(key, "")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Warnf("[Scheduler] Ignoring invalid %s=%q", key, raw)
		return def
	}
	return n
}
