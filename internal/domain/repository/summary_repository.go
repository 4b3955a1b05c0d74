// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"summarize-api/internal/domain/entity"
)

// SummaryFilter 摘要列表过滤条件
type SummaryFilter struct {
	Length entity.SummaryLength
	Source entity.SummarySource
	JobID  string
}

// SummaryRepository 摘要记录仓储接口
type SummaryRepository interface {
	Create(ctx context.Context, summary *entity.Summary) error
	GetByID(ctx context.Context, id string) (*entity.Summary, error)
	List(ctx context.Context, filter *SummaryFilter, pagination Pagination) (*PagedResult[*entity.Summary], error)
	CountSince(ctx context.Context, hours int) (int64, error)
}

// JobRepository 批量任务仓储接口
type JobRepository interface {
	Create(ctx context.Context, job *entity.SummaryJob) error
	GetByID(ctx context.Context, id string) (*entity.SummaryJob, error)
	Update(ctx context.Context, job *entity.SummaryJob) error
	UpdateProgress(ctx context.Context, id string, progress int) error
}
