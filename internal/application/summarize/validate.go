package summarize

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"summarize-api/internal/domain/entity"
	"summarize-api/pkg/errors"
)

// ValidateInput 校验摘要输入，依次检查空文本、超长、过短和长度选项，
// 返回第一个失败项。
// WithDetail 会修改接收者，这里总是构造新错误而不复用包级变量。
func ValidateInput(text string, length entity.SummaryLength, maxChars, minWords int) error {
	if strings.TrimSpace(text) == "" {
		return errors.New(errors.CodeTextEmpty, "text cannot be empty")
	}

	if chars := utf8.RuneCountInString(text); chars > maxChars {
		return errors.New(errors.CodeTextTooLong,
			fmt.Sprintf("text too long (max %d characters)", maxChars)).WithDetail(
			fmt.Sprintf("input has %d characters", chars))
	}

	if words := CountWords(text); words < minWords {
		return errors.New(errors.CodeTextTooShort,
			fmt.Sprintf("text too short (minimum %d words)", minWords)).WithDetail(
			fmt.Sprintf("input has %d words", words))
	}

	if !length.Valid() {
		return errors.New(errors.CodeInvalidLength, "invalid length option").WithDetail(
			fmt.Sprintf("length must be one of: short, medium, long, got %q", length))
	}

	return nil
}
