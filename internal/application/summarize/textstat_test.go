package summarize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"summarize-api/internal/domain/entity"
)

func TestCountWords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty", "", 0},
		{"whitespace only", "  \n\t ", 0},
		{"single word", "hello", 1},
		{"multiple spaces", "a  b   c", 3},
		{"newlines and tabs", "one\ntwo\tthree four", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountWords(tt.input))
		})
	}
}

func TestCompressionRatio(t *testing.T) {
	tests := []struct {
		name         string
		inputChars   int
		summaryChars int
		want         float64
	}{
		{"zero input", 0, 10, 0},
		{"negative input", -1, 10, 0},
		{"half", 100, 50, 50.0},
		{"rounded to one decimal", 3, 1, 33.3},
		{"char based", 620, 13, 2.1},
		{"expansion over 100", 10, 12, 120.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompressionRatio(tt.inputChars, tt.summaryChars))
		})
	}
}

func TestTruncateByRunes(t *testing.T) {
	assert.Equal(t, "", truncateByRunes("abc", 0))
	assert.Equal(t, "abc", truncateByRunes("abc", 5))
	assert.Equal(t, "ab", truncateByRunes("abcd", 2))
	// 多字节字符不能被切断
	assert.Equal(t, "你好", truncateByRunes("你好世界", 2))
}

func TestCacheKeyStableAndLengthScoped(t *testing.T) {
	text := strings.Repeat("word ", 50)

	k1 := CacheKey(text, entity.LengthShort)
	k2 := CacheKey(text, entity.LengthShort)
	k3 := CacheKey(text, entity.LengthLong)

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.True(t, strings.HasPrefix(k1, "summary:"))
}

func TestCacheKeyUsesInputPrefixOnly(t *testing.T) {
	base := strings.Repeat("a", 1000)

	// 前 1000 个字符相同的输入共享缓存键
	k1 := CacheKey(base+" tail one", entity.LengthMedium)
	k2 := CacheKey(base+" tail two", entity.LengthMedium)
	assert.Equal(t, k1, k2)

	// 前缀内的差异产生不同的键
	k3 := CacheKey("b"+base[1:], entity.LengthMedium)
	assert.NotEqual(t, k1, k3)
}

func TestInputHashHasNoPrefix(t *testing.T) {
	h := InputHash("some text", entity.LengthShort)
	assert.Len(t, h, 32)
	assert.False(t, strings.HasPrefix(h, "summary:"))
}

func TestPresetFor(t *testing.T) {
	assert.Equal(t, LengthPreset{MaxTokens: 50, MinWords: 20}, PresetFor(entity.LengthShort))
	assert.Equal(t, LengthPreset{MaxTokens: 130, MinWords: 30}, PresetFor(entity.LengthMedium))
	assert.Equal(t, LengthPreset{MaxTokens: 250, MinWords: 50}, PresetFor(entity.LengthLong))
	// 未知档位回落到 medium
	assert.Equal(t, PresetFor(entity.LengthMedium), PresetFor("unknown"))
}
