// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"summarize-api/internal/domain/entity"
	"summarize-api/internal/domain/repository"
)

// SummaryRepository 摘要记录仓储实现
type SummaryRepository struct {
	client *Client
}

// NewSummaryRepository 创建摘要记录仓储
func NewSummaryRepository(client *Client) *SummaryRepository {
	return &SummaryRepository{client: client}
}

// Create 创建摘要记录
func (r *SummaryRepository) Create(ctx context.Context, summary *entity.Summary) error {
	ctx, span := tracer.Start(ctx, "postgres.SummaryRepository.Create")
	defer span.End()

	if err := r.client.db.WithContext(ctx).Create(summary).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create summary: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取摘要记录
func (r *SummaryRepository) GetByID(ctx context.Context, id string) (*entity.Summary, error) {
	ctx, span := tracer.Start(ctx, "postgres.SummaryRepository.GetByID")
	defer span.End()

	var summary entity.Summary
	if err := r.client.db.WithContext(ctx).First(&summary, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}
	return &summary, nil
}

// List 获取摘要记录列表
func (r *SummaryRepository) List(ctx context.Context, filter *repository.SummaryFilter, pagination repository.Pagination) (*repository.PagedResult[*entity.Summary], error) {
	ctx, span := tracer.Start(ctx, "postgres.SummaryRepository.List")
	defer span.End()

	query := r.client.db.WithContext(ctx).Model(&entity.Summary{})

	// 应用过滤条件
	if filter != nil {
		if filter.Length != "" {
			query = query.Where("length = ?", filter.Length)
		}
		if filter.Source != "" {
			query = query.Where("source = ?", filter.Source)
		}
		if filter.JobID != "" {
			query = query.Where("job_id = ?", filter.JobID)
		}
	}

	// 获取总数
	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count summaries: %w", err)
	}

	// 获取列表
	var summaries []*entity.Summary
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&summaries).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list summaries: %w", err)
	}

	return repository.NewPagedResult(summaries, total, pagination), nil
}

// CountSince 统计最近 N 小时的摘要记录数
func (r *SummaryRepository) CountSince(ctx context.Context, hours int) (int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.SummaryRepository.CountSince")
	defer span.End()

	since := time.Now().Add(-time.Duration(hours) * time.Hour)

	var count int64
	if err := r.client.db.WithContext(ctx).Model(&entity.Summary{}).
		Where("created_at >= ?", since).
		Count(&count).Error; err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to count summaries: %w", err)
	}
	return count, nil
}
