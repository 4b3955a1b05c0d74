package summarize

import (
	"math"
	"strings"
	"unicode/utf8"
)

// CountWords 统计空白分隔的词数
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// CompressionRatio 按字符数计算压缩比百分数，保留一位小数。
// 输入字符数为零时返回 0，避免除零。
func CompressionRatio(inputChars, summaryChars int) float64 {
	if inputChars <= 0 {
		return 0
	}
	ratio := float64(summaryChars) / float64(inputChars) * 100
	return math.Round(ratio*10) / 10
}

// truncateByRunes 按 rune 截断字符串，避免切断多字节字符
func truncateByRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	n := 0
	for i := range s {
		if n == maxRunes {
			return s[:i]
		}
		n++
	}
	return s
}
