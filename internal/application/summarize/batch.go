package summarize

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"summarize-api/internal/domain/entity"
	"summarize-api/internal/infrastructure/messaging"
	"summarize-api/pkg/errors"
	"summarize-api/pkg/logger"
	"summarize-api/pkg/metrics"
)

// BatchItemResult 批量任务中单条文本的结果
type BatchItemResult struct {
	Index            int     `json:"index"`
	Summary          string  `json:"summary,omitempty"`
	OriginalWords    int     `json:"original_length,omitempty"`
	SummaryWords     int     `json:"summary_length,omitempty"`
	CompressionRatio float64 `json:"compression_ratio,omitempty"`
	Cached           bool    `json:"cached,omitempty"`
	Error            string  `json:"error,omitempty"`
}

// CreateBatchJob 创建批量摘要任务并投递到队列
func (s *Service) CreateBatchJob(ctx context.Context, texts []string, length entity.SummaryLength) (*entity.SummaryJob, error) {
	ctx, span := tracer.Start(ctx, "summarize.Service.CreateBatchJob",
		trace.WithAttributes(attribute.Int("text_count", len(texts))))
	defer span.End()

	if !length.Valid() {
		return nil, errors.New(errors.CodeInvalidLength, "invalid length option")
	}
	if len(texts) == 0 {
		return nil, errors.New(errors.CodeInvalidParam, "texts cannot be empty")
	}
	if max := s.cfg.Summarize.MaxBatchTexts; len(texts) > max {
		return nil, errors.New(errors.CodeBatchTooLarge,
			fmt.Sprintf("too many texts in one batch (max %d)", max))
	}

	// 批量入库前逐条校验，失败时指出具体位置
	for i, text := range texts {
		if err := ValidateInput(text, length, s.cfg.Summarize.MaxInputChars, s.cfg.Summarize.MinInputWords); err != nil {
			if appErr := errors.AsAppError(err); appErr != nil {
				return nil, appErr.WithDetail(fmt.Sprintf("texts[%d]: %s", i, appErr.Detail))
			}
			return nil, err
		}
	}

	job := entity.NewSummaryJob(uuid.NewString(), length, texts)
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to create job")
	}

	msg := &messaging.BatchJobMessage{
		JobID:     job.ID,
		Length:    string(length),
		TextCount: len(texts),
	}
	if reqID, ok := ctx.Value(logger.RequestIDKey).(string); ok {
		msg.RequestID = reqID
	}

	if _, err := s.publisher.PublishBatchJob(ctx, msg); err != nil {
		// 投递失败的任务立即标记失败，避免永远 pending
		job.Fail("failed to enqueue job")
		if updateErr := s.jobs.Update(ctx, job); updateErr != nil {
			logger.FromContext(ctx).Error("failed to mark job as failed", "error", updateErr, "job_id", job.ID)
		}
		return nil, errors.Wrap(err, errors.CodeInternalError, "failed to enqueue job")
	}

	metrics.BatchJobsTotal.WithLabelValues("created").Inc()
	return job, nil
}

// GetJob 查询批量任务
func (s *Service) GetJob(ctx context.Context, id string) (*entity.SummaryJob, error) {
	ctx, span := tracer.Start(ctx, "summarize.Service.GetJob")
	defer span.End()

	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.New(errors.CodeInvalidParam, "invalid job id")
	}

	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to query job")
	}
	if job == nil {
		return nil, errors.New(errors.CodeJobNotFound, "job not found")
	}
	return job, nil
}

// CancelJob 取消尚未结束的批量任务
func (s *Service) CancelJob(ctx context.Context, id string) (*entity.SummaryJob, error) {
	ctx, span := tracer.Start(ctx, "summarize.Service.CancelJob")
	defer span.End()

	job, err := s.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Finished() {
		return nil, errors.New(errors.CodeConflict,
			fmt.Sprintf("job already %s", job.Status))
	}

	job.Cancel()
	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to cancel job")
	}

	metrics.BatchJobsTotal.WithLabelValues("cancelled").Inc()
	return job, nil
}

// ProcessBatchJob 执行批量任务，由队列消费者调用。
// 已结束的任务直接跳过，保证消息重复投递时幂等。
func (s *Service) ProcessBatchJob(ctx context.Context, jobID string) error {
	ctx, span := tracer.Start(ctx, "summarize.Service.ProcessBatchJob",
		trace.WithAttributes(attribute.String("job_id", jobID)))
	defer span.End()

	log := logger.FromContext(ctx)

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to load job %s: %w", jobID, err)
	}
	if job == nil {
		log.Warn("job not found, skipping", "job_id", jobID)
		return nil
	}
	if job.Finished() {
		log.Info("job already finished, skipping", "job_id", jobID, "status", job.Status)
		return nil
	}

	job.Start()
	if err := s.jobs.Update(ctx, job); err != nil {
		return fmt.Errorf("failed to mark job running: %w", err)
	}

	start := time.Now()
	results := make([]BatchItemResult, 0, len(job.Texts))
	failed := 0

	for i, text := range job.Texts {
		select {
		case <-ctx.Done():
			job.Fail("worker shutting down")
			// ctx 已取消，状态落库用短的独立上下文
			persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			if err := s.jobs.Update(persistCtx, job); err != nil {
				log.Error("failed to persist job state on shutdown", "error", err, "job_id", job.ID)
			}
			cancel()
			return ctx.Err()
		default:
		}

		// 取消检查：每条文本前重新读取状态
		if current, err := s.jobs.GetByID(ctx, job.ID); err == nil && current != nil && current.Status == entity.JobStatusCancelled {
			log.Info("job cancelled mid-flight, stopping", "job_id", job.ID, "processed", i)
			return nil
		}

		item := BatchItemResult{Index: i}
		res, err := s.Summarize(ctx, text, job.Length)
		if err != nil {
			failed++
			item.Error = err.Error()
			log.Warn("batch item failed", "job_id", job.ID, "index", i, "error", err)
		} else {
			item.Summary = res.Summary
			item.OriginalWords = res.OriginalWords
			item.SummaryWords = res.SummaryWords
			item.CompressionRatio = res.CompressionRatio
			item.Cached = res.Cached
		}
		results = append(results, item)

		progress := (i + 1) * 100 / len(job.Texts)
		if err := s.jobs.UpdateProgress(ctx, job.ID, progress); err != nil {
			log.Warn("failed to update job progress", "error", err, "job_id", job.ID)
		}
	}

	resultsJSON, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to marshal job results: %w", err)
	}

	if failed == len(job.Texts) {
		job.Fail("all texts failed")
		job.Results = resultsJSON
		metrics.BatchJobsTotal.WithLabelValues("failed").Inc()
	} else {
		job.Complete(resultsJSON)
		metrics.BatchJobsTotal.WithLabelValues("completed").Inc()
	}
	metrics.BatchJobDuration.WithLabelValues(string(job.Status)).Observe(time.Since(start).Seconds())

	if err := s.jobs.Update(ctx, job); err != nil {
		return fmt.Errorf("failed to persist job results: %w", err)
	}

	log.Info("batch job finished",
		"job_id", job.ID,
		"status", job.Status,
		"total", len(job.Texts),
		"failed", failed,
		"duration_ms", job.DurationMs,
	)
	return nil
}

// HandleBatchMessage 队列消息处理适配
func (s *Service) HandleBatchMessage(ctx context.Context, msg *messaging.Message) error {
	var payload messaging.BatchJobMessage
	if err := msg.UnmarshalPayload(&payload); err != nil {
		logger.FromContext(ctx).Error("invalid batch job payload", "error", err, "message_id", msg.ID)
		return nil
	}
	return s.ProcessBatchJob(ctx, payload.JobID)
}
