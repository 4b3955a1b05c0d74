// Package entity 定义领域实体
package entity

import (
	"time"
)

// SummaryLength 摘要长度档位
type SummaryLength string

const (
	LengthShort  SummaryLength = "short"
	LengthMedium SummaryLength = "medium"
	LengthLong   SummaryLength = "long"
)

// Valid 检查长度档位是否合法
func (l SummaryLength) Valid() bool {
	switch l {
	case LengthShort, LengthMedium, LengthLong:
		return true
	}
	return false
}

// SummarySource 摘要来源
type SummarySource string

const (
	SourceFresh         SummarySource = "fresh"
	SourceCache         SummarySource = "cache"
	SourceSemanticCache SummarySource = "semantic_cache"
)

// Summary 摘要记录实体
type Summary struct {
	ID               string        `json:"id" gorm:"type:uuid;primaryKey"`
	InputHash        string        `json:"input_hash" gorm:"type:varchar(64);index;not null"`
	InputChars       int           `json:"input_chars"`
	InputWords       int           `json:"input_words"`
	Length           SummaryLength `json:"length" gorm:"type:varchar(16);index;not null"`
	SummaryText      string        `json:"summary_text" gorm:"type:text;not null"`
	SummaryWords     int           `json:"summary_words"`
	CompressionRatio float64       `json:"compression_ratio"`
	Source           SummarySource `json:"source" gorm:"type:varchar(32);default:'fresh'"`
	Provider         string        `json:"provider,omitempty" gorm:"type:varchar(64)"`
	Model            string        `json:"model,omitempty" gorm:"type:varchar(128)"`
	TokensPrompt     int           `json:"tokens_prompt,omitempty"`
	TokensCompletion int           `json:"tokens_completion,omitempty"`
	DurationMs       int           `json:"duration_ms,omitempty"`
	JobID            string        `json:"job_id,omitempty" gorm:"type:uuid;index"`
	CreatedAt        time.Time     `json:"created_at" gorm:"autoCreateTime;index"`
}

// TableName 指定表名
func (Summary) TableName() string {
	return "summaries"
}
