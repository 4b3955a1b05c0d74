package dto

import (
	"time"

	"summarize-api/internal/application/summarize"
	"summarize-api/internal/domain/entity"
)

// SummarizeRequest 摘要生成请求
type SummarizeRequest struct {
	Text   string `json:"text" binding:"required"`
	Length string `json:"length,omitempty"`
}

// SummarizeResponse 摘要生成响应
type SummarizeResponse struct {
	ID               string    `json:"id"`
	Summary          string    `json:"summary"`
	OriginalLength   int       `json:"original_length"`
	SummaryLength    int       `json:"summary_length"`
	CompressionRatio float64   `json:"compression_ratio"`
	InferenceTime    float64   `json:"inference_time"`
	Cached           bool      `json:"cached"`
	Source           string    `json:"source"`
	Timestamp        time.Time `json:"timestamp"`
}

// ToSummarizeResponse 转换应用层结果
func ToSummarizeResponse(r *summarize.Result) *SummarizeResponse {
	return &SummarizeResponse{
		ID:               r.ID,
		Summary:          r.Summary,
		OriginalLength:   r.OriginalWords,
		SummaryLength:    r.SummaryWords,
		CompressionRatio: r.CompressionRatio,
		InferenceTime:    r.InferenceTime,
		Cached:           r.Cached,
		Source:           string(r.Source),
		Timestamp:        r.Timestamp,
	}
}

// SummaryRecordResponse 摘要历史记录响应
type SummaryRecordResponse struct {
	ID               string    `json:"id"`
	InputWords       int       `json:"input_words"`
	InputChars       int       `json:"input_chars"`
	Length           string    `json:"length"`
	Summary          string    `json:"summary"`
	SummaryWords     int       `json:"summary_words"`
	CompressionRatio float64   `json:"compression_ratio"`
	Source           string    `json:"source"`
	Provider         string    `json:"provider,omitempty"`
	Model            string    `json:"model,omitempty"`
	JobID            string    `json:"job_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// ToSummaryRecordResponse 转换摘要实体
func ToSummaryRecordResponse(s *entity.Summary) *SummaryRecordResponse {
	return &SummaryRecordResponse{
		ID:               s.ID,
		InputWords:       s.InputWords,
		InputChars:       s.InputChars,
		Length:           string(s.Length),
		Summary:          s.SummaryText,
		SummaryWords:     s.SummaryWords,
		CompressionRatio: s.CompressionRatio,
		Source:           string(s.Source),
		Provider:         s.Provider,
		Model:            s.Model,
		JobID:            s.JobID,
		CreatedAt:        s.CreatedAt,
	}
}

// ListSummariesQuery 摘要历史查询参数
type ListSummariesQuery struct {
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
	Length   string `form:"length"`
	Source   string `form:"source"`
	JobID    string `form:"job_id"`
}
