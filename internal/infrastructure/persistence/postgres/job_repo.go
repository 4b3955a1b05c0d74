// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"summarize-api/internal/domain/entity"
)

// JobRepository 批量任务仓储实现
type JobRepository struct {
	client *Client
}

// NewJobRepository 创建批量任务仓储
func NewJobRepository(client *Client) *JobRepository {
	return &JobRepository{client: client}
}

// Create 创建任务
func (r *JobRepository) Create(ctx context.Context, job *entity.SummaryJob) error {
	ctx, span := tracer.Start(ctx, "postgres.JobRepository.Create")
	defer span.End()

	if err := r.client.db.WithContext(ctx).Create(job).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取任务
func (r *JobRepository) GetByID(ctx context.Context, id string) (*entity.SummaryJob, error) {
	ctx, span := tracer.Start(ctx, "postgres.JobRepository.GetByID")
	defer span.End()

	var job entity.SummaryJob
	if err := r.client.db.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &job, nil
}

// Update 更新任务
func (r *JobRepository) Update(ctx context.Context, job *entity.SummaryJob) error {
	ctx, span := tracer.Start(ctx, "postgres.JobRepository.Update")
	defer span.End()

	if err := r.client.db.WithContext(ctx).Save(job).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update job: %w", err)
	}
	return nil
}

// UpdateProgress 更新任务进度
func (r *JobRepository) UpdateProgress(ctx context.Context, id string, progress int) error {
	ctx, span := tracer.Start(ctx, "postgres.JobRepository.UpdateProgress")
	defer span.End()

	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	if err := r.client.db.WithContext(ctx).Model(&entity.SummaryJob{}).
		Where("id = ?", id).
		Update("progress", progress).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update job progress: %w", err)
	}
	return nil
}
