package summarize

import "summarize-api/internal/domain/entity"

// LengthPreset 长度档位生成参数
type LengthPreset struct {
	MaxTokens int
	MinWords  int
}

var lengthPresets = map[entity.SummaryLength]LengthPreset{
	entity.LengthShort:  {MaxTokens: 50, MinWords: 20},
	entity.LengthMedium: {MaxTokens: 130, MinWords: 30},
	entity.LengthLong:   {MaxTokens: 250, MinWords: 50},
}

// PresetFor 返回指定长度档位的生成参数，未知档位回落到 medium
func PresetFor(length entity.SummaryLength) LengthPreset {
	if p, ok := lengthPresets[length]; ok {
		return p
	}
	return lengthPresets[entity.LengthMedium]
}
