package jobqueue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotifyCancellationPayloadRoundTrip(t *testing.T) {
	payload := NotifyCancellationJobPayload{
		CancellationID:  12,
		AppointmentID:   5,
		CompanyID:       7,
		CustomerID:      40,
		Reason:          "customer moved out",
		CancelledByRole: "customer",
	}

	restored, err := NotifyCancellationJobPayloadFromMap(payload.ToMap())

	assert.NoError(t, err)
	assert.Equal(t, payload, *restored)
}

func TestInitiateRefundPayloadRoundTrip(t *testing.T) {
	payload := InitiateRefundJobPayload{
		CancellationID: 12,
		AppointmentID:  5,
		CompanyID:      7,
		Amount:         89.90,
	}

	restored, err := InitiateRefundJobPayloadFromMap(payload.ToMap())

	assert.NoError(t, err)
	assert.Equal(t, payload, *restored)
}

func TestJobRetryLifecycle(t *testing.T) {
	job := &Job{ID: "j1", Type: JobTypeInitiateRefund, Status: JobStatusPending, MaxRetries: 2}

	job.MarkAsProcessing()
	assert.Equal(t, JobStatusProcessing, job.Status)
	assert.NotNil(t, job.ProcessedAt)

	job.MarkAsFailed("payment gateway timeout")
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, 1, job.RetryCount)
	assert.True(t, job.IsRetryable())

	job.MarkAsRetrying()
	assert.Equal(t, JobStatusRetrying, job.Status)

	job.MarkAsFailed("payment gateway timeout")
	assert.Equal(t, 2, job.RetryCount)
	assert.False(t, job.IsRetryable())
}

func TestJobCompletionClearsError(t *testing.T) {
	job := &Job{ID: "j2", Type: JobTypeNotifyCancellation, Status: JobStatusPending, MaxRetries: 2}

	job.MarkAsFailed("smtp unavailable")
	job.MarkAsCompleted()

	assert.Equal(t, JobStatusCompleted, job.Status)
	assert.NotNil(t, job.CompletedAt)
	assert.Empty(t, job.ErrorMsg)
}

func TestPendingJobIsNotRetryable(t *testing.T) {
	job := &Job{Status: JobStatusPending, MaxRetries: 3}
	assert.False(t, job.IsRetryable())
}
