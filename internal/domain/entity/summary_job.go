// Package entity 定义领域实体
package entity

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// JobStatus 任务状态
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// SummaryJob 批量摘要任务
type SummaryJob struct {
	ID           string          `json:"id" gorm:"type:uuid;primaryKey"`
	Length       SummaryLength   `json:"length" gorm:"type:varchar(16);not null"`
	Texts        pq.StringArray  `json:"texts" gorm:"type:text[];not null"`
	Status       JobStatus       `json:"status" gorm:"type:varchar(32);index;default:'pending'"`
	Results      json.RawMessage `json:"results,omitempty" gorm:"type:jsonb"`
	ErrorMessage string          `json:"error_message,omitempty" gorm:"type:text"`
	Provider     string          `json:"provider,omitempty" gorm:"type:varchar(64)"`
	Model        string          `json:"model,omitempty" gorm:"type:varchar(128)"`
	RetryCount   int             `json:"retry_count"`
	Progress     int             `json:"progress"` // 任务进度 (0-100)
	DurationMs   int             `json:"duration_ms,omitempty"`
	CreatedAt    time.Time       `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt    time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
	StartedAt    *time.Time      `json:"started_at,omitempty"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
}

// TableName 指定表名
func (SummaryJob) TableName() string {
	return "summary_jobs"
}

// NewSummaryJob 创建新的批量摘要任务
func NewSummaryJob(id string, length SummaryLength, texts []string) *SummaryJob {
	return &SummaryJob{
		ID:        id,
		Length:    length,
		Texts:     pq.StringArray(texts),
		Status:    JobStatusPending,
		CreatedAt: time.Now(),
	}
}

// Start 开始执行任务
func (j *SummaryJob) Start() {
	now := time.Now()
	j.Status = JobStatusRunning
	j.StartedAt = &now
}

// Complete 完成任务
func (j *SummaryJob) Complete(results json.RawMessage) {
	now := time.Now()
	j.Status = JobStatusCompleted
	j.Results = results
	j.Progress = 100
	j.CompletedAt = &now
	if j.StartedAt != nil {
		j.DurationMs = int(now.Sub(*j.StartedAt).Milliseconds())
	}
}

// Fail 任务失败
func (j *SummaryJob) Fail(errMsg string) {
	now := time.Now()
	j.Status = JobStatusFailed
	j.ErrorMessage = errMsg
	j.CompletedAt = &now
	if j.StartedAt != nil {
		j.DurationMs = int(now.Sub(*j.StartedAt).Milliseconds())
	}
}

// Cancel 取消任务
func (j *SummaryJob) Cancel() {
	now := time.Now()
	j.Status = JobStatusCancelled
	j.CompletedAt = &now
}

// Finished 任务是否已结束
func (j *SummaryJob) Finished() bool {
	switch j.Status {
	case JobStatusCompleted, JobStatusFailed, JobStatusCancelled:
		return true
	}
	return false
}

// CanRetry 检查是否可以重试
func (j *SummaryJob) CanRetry(maxRetries int) bool {
	return j.RetryCount < maxRetries && j.Status == JobStatusFailed
}

// UpdateProgress 更新任务进度
func (j *SummaryJob) UpdateProgress(progress int) {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	j.Progress = progress
}
