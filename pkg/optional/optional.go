// Package optional 提供可选值类型，用于区分“未提供”与“零值”。
package optional

import (
	"encoding/json"
	"errors"
)

// ErrIsNone 在对空值调用 Unwrap 时 panic 携带的错误。
var ErrIsNone = errors.New("is none")

// Value 是一个可能为空的值。零值即 None。
type Value[T any] struct {
	indirect *T
}

// None 返回空值。
func None[T any]() Value[T] {
	return Value[T]{}
}

// Some 包装一个存在的值（包括类型零值，例如 0 或 ""）。
func Some[T any](value T) Value[T] {
	return Value[T]{indirect: &value}
}

// FromPointer 将指针转换为可选值，nil 视为 None。
func FromPointer[T any](p *T) Value[T] {
	if p == nil {
		return None[T]()
	}
	return Some(*p)
}

// IsNone 判断是否为空。
func (v Value[T]) IsNone() bool {
	return v.indirect == nil
}

// IsSome 判断是否有值。
func (v Value[T]) IsSome() bool {
	return v.indirect != nil
}

// Get 返回值以及是否存在。
func (v Value[T]) Get() (T, bool) {
	if v.indirect == nil {
		var zero T
		return zero, false
	}
	return *v.indirect, true
}

// Unwrap 返回底层值；为空时 panic。
func (v Value[T]) Unwrap() T {
	if v.indirect == nil {
		panic(ErrIsNone)
	}
	return *v.indirect
}

// UnwrapOr 返回底层值，为空时返回 fallback。
func (v Value[T]) UnwrapOr(fallback T) T {
	if v.indirect == nil {
		return fallback
	}
	return *v.indirect
}

// MarshalJSON 空值编码为 null。
func (v Value[T]) MarshalJSON() ([]byte, error) {
	if v.indirect == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*v.indirect)
}

// UnmarshalJSON null 解码为空值；解码失败时保持原值不变。
func (v *Value[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		v.indirect = nil
		return nil
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	v.indirect = &value
	return nil
}
