// Package apperr 定义了业务层向传输层传递的错误类型。
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 区分错误的类别，传输层据此选择 HTTP 状态码。
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindStoreFull
	KindRateLimited
)

// 对外暴露的错误码。
const (
	CodeValidation  = "VALIDATION_ERROR"
	CodeNotFound    = "NOT_FOUND"
	CodeStoreFull   = "STORE_FULL"
	CodeRateLimited = "RATE_LIMITED"
	CodeInternal    = "INTERNAL_ERROR"
)

// Error 是带错误码、提示信息和可选字段明细的业务错误。
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details map[string]string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Status 返回该错误对应的 HTTP 状态码。
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindStoreFull:
		return http.StatusInsufficientStorage
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Validation 创建一个校验错误，message 一般取第一个失败字段的提示。
func Validation(message string, details map[string]string) *Error {
	return &Error{Kind: KindValidation, Code: CodeValidation, Message: message, Details: details}
}

// NotFound 创建一个资源不存在错误。
func NotFound(resource, id string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Details: map[string]string{"id": id},
	}
}

// StoreFull 表示存储已达到配置的容量上限。
func StoreFull(capacity int) *Error {
	return &Error{
		Kind:    KindStoreFull,
		Code:    CodeStoreFull,
		Message: fmt.Sprintf("store capacity of %d records reached", capacity),
	}
}

// RateLimited 表示请求过于频繁。
func RateLimited() *Error {
	return &Error{Kind: KindRateLimited, Code: CodeRateLimited, Message: "too many requests"}
}

// Internal 包装一个非预期错误，Message 不包含内部细节。
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Code: CodeInternal, Message: "internal server error", cause: cause}
}

// From 将任意错误转换为 *Error，未知错误一律视为内部错误。
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// IsNotFound 判断 err 是否为资源不存在错误。
func IsNotFound(err error) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == KindNotFound
}

// IsValidation 判断 err 是否为校验错误。
func IsValidation(err error) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == KindValidation
}
