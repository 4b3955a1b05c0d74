package summarize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"summarize-api/internal/domain/entity"
	"summarize-api/pkg/errors"
)

func TestValidateInput(t *testing.T) {
	longText := strings.Repeat("word ", 60)

	tests := []struct {
		name     string
		text     string
		length   entity.SummaryLength
		wantCode errors.ErrorCode
	}{
		{
			name:     "empty text",
			text:     "",
			length:   entity.LengthMedium,
			wantCode: errors.CodeTextEmpty,
		},
		{
			name:     "whitespace only",
			text:     "   \n\t  ",
			length:   entity.LengthMedium,
			wantCode: errors.CodeTextEmpty,
		},
		{
			name:     "invalid length option",
			text:     longText,
			length:   "gigantic",
			wantCode: errors.CodeInvalidLength,
		},
		{
			name:     "too many characters",
			text:     strings.Repeat("a", 10001),
			length:   entity.LengthShort,
			wantCode: errors.CodeTextTooLong,
		},
		{
			name:     "too few words",
			text:     "only five words right here",
			length:   entity.LengthMedium,
			wantCode: errors.CodeTextTooShort,
		},
		{
			// 超长优先于长度选项报告
			name:     "too long with invalid length",
			text:     strings.Repeat("a", 10005),
			length:   "huge",
			wantCode: errors.CodeTextTooLong,
		},
		{
			// 过短优先于长度选项报告
			name:     "too short with invalid length",
			text:     "just a few words",
			length:   "huge",
			wantCode: errors.CodeTextTooShort,
		},
		{
			name:   "valid input",
			text:   longText,
			length: entity.LengthLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInput(tt.text, tt.length, 10000, 30)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			appErr := errors.AsAppError(err)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.wantCode, appErr.Code)
		})
	}
}

func TestValidateInputCountsRunesNotBytes(t *testing.T) {
	// 多字节字符按 rune 计数，10000 个汉字是 30000 字节但应通过字符数检查
	text := strings.Repeat("词 ", 40)
	err := ValidateInput(text, entity.LengthShort, 10000, 30)
	assert.NoError(t, err)
}

func TestValidateInputDoesNotMutateSharedErrors(t *testing.T) {
	_ = ValidateInput(strings.Repeat("word ", 40), "bogus", 10000, 30)
	assert.Empty(t, errors.ErrInvalidLength.Detail)
}
