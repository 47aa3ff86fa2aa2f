package gateway

import (
	"errors"
	"fmt"
)

// FailureKind 请求失败的类别，用于日志与监控标签。
type FailureKind int

const (
	FailureUnknown FailureKind = iota
	FailureInvalidURL
	FailureEncode
	FailureTransport
	FailureRead
	FailureDecode
)

// String 返回失败类别字符串
func (k FailureKind) String() string {
	switch k {
	case FailureInvalidURL:
		return "invalid_url"
	case FailureEncode:
		return "encode_error"
	case FailureTransport:
		return "transport_error"
	case FailureRead:
		return "read_error"
	case FailureDecode:
		return "decode_error"
	default:
		return "unknown"
	}
}

// ConfigurationError 构造阶段的错误（非法 host、限流参数等），不会在请求阶段出现。
type ConfigurationError struct {
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// RequestError 单次请求的错误：URL 非法、传输失败或 JSON 解码失败。
type RequestError struct {
	Kind    FailureKind
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func newConfigurationError(err error, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...), Err: err}
}

func newRequestError(kind FailureKind, err error, format string, args ...any) *RequestError {
	return &RequestError{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// IsConfigurationError 判断 err 链中是否包含 ConfigurationError
func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

// IsRequestError 判断 err 链中是否包含 RequestError
func IsRequestError(err error) bool {
	var target *RequestError
	return errors.As(err, &target)
}
