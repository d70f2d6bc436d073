// Package errors 提供统一的错误定义
package errors

import (
	"errors"
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
	CodeNotFound           ErrorCode = "1004"
	CodeConflict           ErrorCode = "1005"
	CodeTooManyRequests    ErrorCode = "1006"
	CodeInternalError      ErrorCode = "1007"
	CodeServiceUnavailable ErrorCode = "1008"

	// 资源错误 (3xxx)
	CodeProjectNotFound      ErrorCode = "3001"
	CodeChapterNotFound      ErrorCode = "3002"
	CodeOutlineNotFound      ErrorCode = "3003"
	CodeStyleProfileNotFound ErrorCode = "3004"
	CodeRunNotFound          ErrorCode = "3005"

	// 业务错误 (4xxx)
	CodeValidationFailed     ErrorCode = "4001"
	CodeGenerationTimeout    ErrorCode = "4002"
	CodeGenerationOverloaded ErrorCode = "4003"
	CodeMalformedOutput      ErrorCode = "4004"
	CodeRunConflict          ErrorCode = "4005"

	// 外部服务错误 (5xxx)
	CodeDatabaseError    ErrorCode = "5001"
	CodeCacheError       ErrorCode = "5002"
	CodeLLMRateLimited   ErrorCode = "5003"
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

// WithDetail 添加详细信息，返回副本以保证预定义错误不被篡改
func (e *AppError) WithDetail(detail string) *AppError {
	clone := *e
	clone.Detail = detail
	return &clone
}

// WithError 添加底层错误，返回副本
func (e *AppError) WithError(err error) *AppError {
	clone := *e
	clone.Err = err
	return &clone
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
	case CodeInvalidParam, CodeValidationFailed:
		return http.StatusBadRequest
	case CodeNotFound, CodeProjectNotFound, CodeChapterNotFound,
		CodeOutlineNotFound, CodeStyleProfileNotFound, CodeRunNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeRunConflict:
		return http.StatusConflict
	case CodeTooManyRequests, CodeGenerationOverloaded, CodeLLMRateLimited:
		return http.StatusTooManyRequests
	case CodeGenerationTimeout:
		return http.StatusGatewayTimeout
	case CodeMalformedOutput, CodeLLMProviderError:
		return http.StatusBadGateway
	case CodeServiceUnavailable, CodeDatabaseError:
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

	ErrProjectNotFound      = New(CodeProjectNotFound, "project not found")
	ErrChapterNotFound      = New(CodeChapterNotFound, "chapter not found")
	ErrOutlineNotFound      = New(CodeOutlineNotFound, "outline not found")
	ErrStyleProfileNotFound = New(CodeStyleProfileNotFound, "style profile not found")
	ErrRunNotFound          = New(CodeRunNotFound, "bulk run not found")

	ErrValidationFailed     = New(CodeValidationFailed, "validation failed")
	ErrGenerationTimeout    = New(CodeGenerationTimeout, "generation timed out")
	ErrGenerationOverloaded = New(CodeGenerationOverloaded, "too many concurrent generations for project")
	ErrMalformedOutput      = New(CodeMalformedOutput, "model returned malformed output")
	ErrRunConflict          = New(CodeRunConflict, "an active bulk run already exists for project")

	ErrDatabaseError    = New(CodeDatabaseError, "storage operation failed")
	ErrCacheError       = New(CodeCacheError, "cache operation failed")
	ErrLLMRateLimited   = New(CodeLLMRateLimited, "model provider rate limited the request")
	ErrLLMProviderError = New(CodeLLMProviderError, "model provider call failed")
)

// IsAppError 检查是否为 AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError 将错误转换为 AppError
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, CodeUnknown, "unknown error")
}

// HasCode 判断错误链上的 AppError 是否携带指定错误码
func HasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
