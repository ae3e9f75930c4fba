package jobqueue

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/maidsflow/control-api/app/repository"
	"github.com/maidsflow/control-api/internal/pkg/env"
)

const (
	refundReconcileInterval  = 5 * time.Minute
	refundStaleAfter         = 15 * time.Minute
	subscriptionSweepBackoff = time.Hour
	reconcileBatchSize       = 100
)

// Manager manages the global job queue and background tasks
type Manager struct {
	queue              *Queue
	refundTicker       *time.Ticker
	subscriptionTicker *time.Ticker
	stopCh             chan struct{}
	wg                 sync.WaitGroup
	mu                 sync.Mutex
	running            bool
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// GetManager returns the global job queue manager (singleton)
func GetManager() *Manager {
	managerOnce.Do(func() {
		workerCount := 3
		if raw := env.GetEnv("JOBQUEUE_WORKER_COUNT", ""); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 {
				workerCount = n
			}
		}

		globalManager = &Manager{
			queue:  NewQueue(workerCount),
			stopCh: make(chan struct{}),
		}
	})
	return globalManager
}

// GetQueue returns the managed job queue
func (m *Manager) GetQueue() *Queue {
	return m.queue
}

// Start starts the job queue and background tasks
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	// Recreate stop channel for each start cycle so manager can be restarted safely.
	m.stopCh = make(chan struct{})
	m.running = true
	log.Info("[JobQueue Manager] Starting job queue and background tasks")

	// Start the job queue
	m.queue.Start()

	// Re-enqueue refunds that never settled (worker crash, redis loss)
	m.refundTicker = time.NewTicker(refundReconcileInterval)
	m.wg.Add(1)
	go m.refundReconcileWorker()

	// Settle subscriptions past their end date
	m.subscriptionTicker = time.NewTicker(subscriptionSweepBackoff)
	m.wg.Add(1)
	go m.subscriptionSweepWorker()

	log.Info("[JobQueue Manager] Started successfully")
}

// Stop stops the job queue and background tasks
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	log.Info("[JobQueue Manager] Stopping job queue and background tasks...")

	if m.refundTicker != nil {
		m.refundTicker.Stop()
	}
	if m.subscriptionTicker != nil {
		m.subscriptionTicker.Stop()
	}

	// Signal workers to stop
	close(m.stopCh)
	m.stopCh = nil
	m.running = false

	// Wait for background workers to finish
	m.wg.Wait()

	// Stop the job queue
	m.queue.Stop()

	log.Info("[JobQueue Manager] Stopped successfully")
}

// refundReconcileWorker re-enqueues refund jobs for cancellations whose
// refund is still pending well past the normal settlement window.
func (m *Manager) refundReconcileWorker() {
	defer m.wg.Done()
	log.Infof("[JobQueue Manager] Started refund reconcile worker (interval: %s)", refundReconcileInterval)

	for {
		select {
		case <-m.stopCh:
			log.Info("[JobQueue Manager] Refund reconcile worker stopping")
			return
		case <-m.refundTicker.C:
			if err := m.reconcilePendingRefundsOnce(); err != nil {
				log.Errorf("[JobQueue Manager] Refund reconcile error: %v", err)
			}
		}
	}
}

func (m *Manager) reconcilePendingRefundsOnce() error {
	cancellations := repository.GetGlobalFactory().GetCancellationRepository()
	cutoff := time.Now().UTC().Add(-refundStaleAfter)

	stale, err := cancellations.ListStalePendingRefunds(cutoff, reconcileBatchSize)
	if err != nil {
		return err
	}
	for _, c := range stale {
		payload := InitiateRefundJobPayload{
			CancellationID: c.ID,
			AppointmentID:  c.AppointmentID,
			CompanyID:      c.CompanyID,
		}
		if _, err := m.queue.EnqueueJob(JobTypeInitiateRefund, payload.ToMap()); err != nil {
			log.Errorf("[JobQueue Manager] Failed to re-enqueue refund for cancellation %d: %v", c.ID, err)
		}
	}
	if len(stale) > 0 {
		log.Infof("[JobQueue Manager] Re-enqueued %d stale refunds", len(stale))
	}
	return nil
}

// subscriptionSweepWorker settles plan subscriptions whose end date has
// passed: auto-renew rows roll to the next billing period, the rest are
// expired so quota checks fall back to no-active-plan semantics.
func (m *Manager) subscriptionSweepWorker() {
	defer m.wg.Done()
	log.Infof("[JobQueue Manager] Started subscription sweep worker (interval: %s)", subscriptionSweepBackoff)

	for {
		select {
		case <-m.stopCh:
			log.Info("[JobQueue Manager] Subscription sweep worker stopping")
			return
		case <-m.subscriptionTicker.C:
			plans := repository.GetGlobalFactory().GetPlanRepository()
			settled, err := plans.ExpireDueSubscriptions(time.Now().UTC())
			if err != nil {
				log.Errorf("[JobQueue Manager] Subscription sweep error: %v", err)
				continue
			}
			if settled > 0 {
				log.Infof("[JobQueue Manager] Settled %d due plan subscriptions", settled)
			}
		}
	}
}

// IsRunning returns whether the manager is currently running
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}
