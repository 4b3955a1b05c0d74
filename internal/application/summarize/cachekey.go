package summarize

import (
	"crypto/md5"
	"encoding/hex"

	"summarize-api/internal/domain/entity"
)

// cacheKeyPrefix 与 InvalidateSummaries 的匹配模式保持一致
const cacheKeyPrefix = "summary:"

// keySampleRunes 参与哈希的输入前缀长度，长文本只取前缀即可区分
const keySampleRunes = 1000

// CacheKey 计算摘要缓存键：输入前缀与长度档位的 MD5。
func CacheKey(text string, length entity.SummaryLength) string {
	sample := truncateByRunes(text, keySampleRunes) + ":" + string(length)
	sum := md5.Sum([]byte(sample))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

// InputHash 返回不带前缀的输入哈希，用于持久化记录
func InputHash(text string, length entity.SummaryLength) string {
	sample := truncateByRunes(text, keySampleRunes) + ":" + string(length)
	sum := md5.Sum([]byte(sample))
	return hex.EncodeToString(sum[:])
}
