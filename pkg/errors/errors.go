// Package errors 提供统一的错误定义
package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode 错误码类型
type ErrorCode string

// 预定义错误码
const (
	// 通用错误 (1xxx)
	CodeSuccess            ErrorCode = "0"
	CodeUnknown            ErrorCode = "1000"
	CodeInvalidParam       ErrorCode = "1001"
	CodeNotFound           ErrorCode = "1002"
	CodeConflict           ErrorCode = "1003"
	CodeTooManyRequests    ErrorCode = "1004"
	CodeInternalError      ErrorCode = "1005"
	CodeServiceUnavailable ErrorCode = "1006"
	CodePayloadTooLarge    ErrorCode = "1007"

	// 输入校验错误 (2xxx)
	CodeTextEmpty     ErrorCode = "2001"
	CodeTextTooLong   ErrorCode = "2002"
	CodeTextTooShort  ErrorCode = "2003"
	CodeInvalidLength ErrorCode = "2004"

	// 业务错误 (3xxx)
	CodeSummarizeFailed ErrorCode = "3001"
	CodeLLMCallFailed   ErrorCode = "3002"
	CodeEmbeddingFailed ErrorCode = "3003"
	CodeJobNotFound     ErrorCode = "3004"
	CodeSummaryNotFound ErrorCode = "3005"
	CodeBatchTooLarge   ErrorCode = "3006"

	// 外部服务错误 (5xxx)
	CodeDatabaseError    ErrorCode = "5001"
	CodeCacheError       ErrorCode = "5002"
	CodeVectorDBError    ErrorCode = "5003"
	CodeLLMProviderError ErrorCode = "5004"
)

// AppError 应用错误
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Err        error     `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 返回底层错误
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail 添加详细信息
func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail
	return e
}

// WithError 添加底层错误
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// New 创建新的应用错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Err:        err,
	}
}

// codeToHTTPStatus 错误码转 HTTP 状态码
func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case CodeSuccess:
		return http.StatusOK
	case CodeInvalidParam, CodeTextEmpty, CodeTextTooLong, CodeTextTooShort, CodeInvalidLength, CodeBatchTooLarge:
		return http.StatusBadRequest
	case CodeNotFound, CodeJobNotFound, CodeSummaryNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeServiceUnavailable, CodeCacheError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// 预定义错误
var (
	ErrInvalidParam       = New(CodeInvalidParam, "invalid parameter")
	ErrNotFound           = New(CodeNotFound, "resource not found")
	ErrConflict           = New(CodeConflict, "resource conflict")
	ErrTooManyRequests    = New(CodeTooManyRequests, "too many requests")
	ErrInternalError      = New(CodeInternalError, "internal server error")
	ErrServiceUnavailable = New(CodeServiceUnavailable, "service unavailable")

	ErrTextEmpty     = New(CodeTextEmpty, "text cannot be empty")
	ErrTextTooLong   = New(CodeTextTooLong, "text too long (max 10,000 characters)")
	ErrTextTooShort  = New(CodeTextTooShort, "text too short (minimum 30 words)")
	ErrInvalidLength = New(CodeInvalidLength, "invalid length option")

	ErrSummarizeFailed = New(CodeSummarizeFailed, "summarization failed")
	ErrLLMCallFailed   = New(CodeLLMCallFailed, "LLM call failed")
	ErrJobNotFound     = New(CodeJobNotFound, "job not found")
	ErrSummaryNotFound = New(CodeSummaryNotFound, "summary not found")
)

// IsAppError 检查是否为 AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// AsAppError 将错误转换为 AppError
func AsAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return Wrap(err, CodeUnknown, "unknown error")
}
