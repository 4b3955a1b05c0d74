package summarize

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"summarize-api/internal/domain/entity"
	"summarize-api/pkg/metrics"
)

const systemPrompt = "You are a text summarization engine. " +
	"Produce a concise, faithful summary of the user's text. " +
	"Do not add opinions or information that is not present in the source. " +
	"Reply with the summary only, no preamble."

// GenerateInput 单次摘要生成输入
type GenerateInput struct {
	Text     string
	Length   entity.SummaryLength
	Provider string
}

// GenerateOutput 单次摘要生成输出
type GenerateOutput struct {
	Summary string
	Meta    LLMUsageMeta
}

// LLMUsageMeta LLM 调用元信息
type LLMUsageMeta struct {
	Provider         string
	Model            string
	PromptTokens     int
	CompletionTokens int
	GeneratedAt      time.Time
}

// Generator 基于 ChatModel 的摘要生成器
type Generator struct {
	factory ChatModelFactory
}

// NewGenerator 创建摘要生成器
func NewGenerator(factory ChatModelFactory) *Generator {
	return &Generator{factory: factory}
}

// Generate 调用 LLM 生成摘要
func (g *Generator) Generate(ctx context.Context, in *GenerateInput) (*GenerateOutput, error) {
	if g == nil || g.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}

	provider := strings.TrimSpace(in.Provider)
	if provider == "" {
		provider = g.factory.DefaultProvider()
	}

	chatModel, err := g.factory.Get(ctx, provider)
	if err != nil {
		return nil, err
	}

	preset := PresetFor(in.Length)
	msgs := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(buildUserPrompt(in.Text, in.Length, preset)),
	}

	modelName := g.factory.ModelName(provider)

	start := time.Now()
	outMsg, err := chatModel.Generate(ctx, msgs, model.WithMaxTokens(preset.MaxTokens))
	elapsed := time.Since(start)

	metrics.LLMCallDuration.WithLabelValues(provider, modelName).Observe(elapsed.Seconds())
	if err != nil {
		metrics.LLMCallTotal.WithLabelValues(provider, modelName, "error").Inc()
		return nil, err
	}
	metrics.LLMCallTotal.WithLabelValues(provider, modelName, "ok").Inc()

	if outMsg == nil {
		return nil, fmt.Errorf("empty llm response")
	}

	meta := LLMUsageMeta{
		Provider:    provider,
		Model:       modelName,
		GeneratedAt: time.Now().UTC(),
	}
	if outMsg.ResponseMeta != nil && outMsg.ResponseMeta.Usage != nil {
		meta.PromptTokens = outMsg.ResponseMeta.Usage.PromptTokens
		meta.CompletionTokens = outMsg.ResponseMeta.Usage.CompletionTokens
		metrics.LLMTokensUsed.WithLabelValues(provider, modelName, "prompt").Add(float64(meta.PromptTokens))
		metrics.LLMTokensUsed.WithLabelValues(provider, modelName, "completion").Add(float64(meta.CompletionTokens))
	}

	summary := strings.TrimSpace(outMsg.Content)
	if summary == "" {
		return nil, fmt.Errorf("empty summary content")
	}

	return &GenerateOutput{
		Summary: summary,
		Meta:    meta,
	}, nil
}

func buildUserPrompt(text string, length entity.SummaryLength, preset LengthPreset) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Summarize the following text in roughly %d to %d words (%s summary):\n\n",
		preset.MinWords, preset.MaxTokens, length)
	b.WriteString(text)
	return b.String()
}
