package jobqueue

import (
	"encoding/json"
	"time"
)

// JobType defines the type of job
type JobType string

const (
	JobTypeNotifyCancellation JobType = "notify_cancellation"
	JobTypeInitiateRefund     JobType = "initiate_refund"
)

// JobStatus defines the status of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusRetrying   JobStatus = "retrying"
)

// Job represents a background job
type Job struct {
	ID          string                 `json:"id"`
	Type        JobType                `json:"type"`
	Status      JobStatus              `json:"status"`
	Payload     map[string]interface{} `json:"payload"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	ProcessedAt *time.Time             `json:"processed_at,omitempty"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	ErrorMsg    string                 `json:"error_msg,omitempty"`
	RetryCount  int                    `json:"retry_count"`
	MaxRetries  int                    `json:"max_retries"`
}

// NotifyCancellationJobPayload carries everything the notification
// processor needs without re-reading the cancellation row.
type NotifyCancellationJobPayload struct {
	CancellationID  uint   `json:"cancellation_id"`
	AppointmentID   uint   `json:"appointment_id"`
	CompanyID       uint   `json:"company_id"`
	CustomerID      uint   `json:"customer_id"`
	Reason          string `json:"reason"`
	CancelledByRole string `json:"cancelled_by_role"`
}

// ToMap converts the payload to a map for storage
func (p NotifyCancellationJobPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"cancellation_id":   p.CancellationID,
		"appointment_id":    p.AppointmentID,
		"company_id":        p.CompanyID,
		"customer_id":       p.CustomerID,
		"reason":            p.Reason,
		"cancelled_by_role": p.CancelledByRole,
	}
}

// FromMap creates a payload from a map
func NotifyCancellationJobPayloadFromMap(data map[string]interface{}) (*NotifyCancellationJobPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload NotifyCancellationJobPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// InitiateRefundJobPayload contains the payload for refund jobs. The
// processor advances the cancellation's refund status with a
// conditional update, so re-delivered jobs are harmless.
type InitiateRefundJobPayload struct {
	CancellationID uint    `json:"cancellation_id"`
	AppointmentID  uint    `json:"appointment_id"`
	CompanyID      uint    `json:"company_id"`
	Amount         float64 `json:"amount"`
}

// ToMap converts the payload to a map for storage
func (p InitiateRefundJobPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"cancellation_id": p.CancellationID,
		"appointment_id":  p.AppointmentID,
		"company_id":      p.CompanyID,
		"amount":          p.Amount,
	}
}

// FromMap creates a payload from a map
func InitiateRefundJobPayloadFromMap(data map[string]interface{}) (*InitiateRefundJobPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload InitiateRefundJobPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// IsRetryable checks if the job can be retried
func (j *Job) IsRetryable() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// MarkAsProcessing updates the job status to processing
func (j *Job) MarkAsProcessing() {
	now := time.Now()
	j.Status = JobStatusProcessing
	j.UpdatedAt = now
	j.ProcessedAt = &now
}

// MarkAsCompleted updates the job status to completed
func (j *Job) MarkAsCompleted() {
	now := time.Now()
	j.Status = JobStatusCompleted
	j.UpdatedAt = now
	j.CompletedAt = &now
	j.ErrorMsg = ""
}

// MarkAsFailed updates the job status to failed
func (j *Job) MarkAsFailed(errorMsg string) {
	j.Status = JobStatusFailed
	j.UpdatedAt = time.Now()
	j.ErrorMsg = errorMsg
	j.RetryCount++
}

// MarkAsRetrying updates the job status to retrying
func (j *Job) MarkAsRetrying() {
	j.Status = JobStatusRetrying
	j.UpdatedAt = time.Now()
}
