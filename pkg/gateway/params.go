package gateway

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/newplayman/indexer-client/pkg/optional"
)

// ToCamelCase 将 snake_case 标识符转换为 camelCase：下划线后的字符转大写，下划线本身删除。
// 对已经是 camelCase 的输入保持不变。
func ToCamelCase(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	upperNext := false
	for _, r := range name {
		if r == '_' {
			upperNext = true
			continue
		}
		if upperNext {
			upperNext = false
			if r >= 'a' && r <= 'z' {
				r -= 'a' - 'A'
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Param 一个查询参数；Value 为空表示不出现在查询串中。
type Param struct {
	Key   string
	Value optional.Value[string]
}

// Params 有序参数列表，按调用方给出的顺序编码，不排序。
type Params []Param

// Required 必填参数：key 由 name 转换为 camelCase，值总是存在。
func Required[T any](name string, value T) Param {
	return Param{
		Key:   ToCamelCase(name),
		Value: optional.Some(formatValue(value)),
	}
}

// Optional 可选参数：仅当 value 有值时才编码。
func Optional[T any](name string, value optional.Value[T]) Param {
	p := Param{Key: ToCamelCase(name)}
	if v, ok := value.Get(); ok {
		p.Value = optional.Some(formatValue(v))
	}
	return p
}

// Encode 生成 key=value&key=value 查询串。
// 空字符串是合法值（编码为 "key="），只有缺失值会被丢弃。值不做转义，由 URL 校验兜底。
func (p Params) Encode() string {
	tokens := make([]string, 0, len(p))
	for _, param := range p {
		v, ok := param.Value.Get()
		if !ok {
			continue
		}
		tokens = append(tokens, param.Key+"="+v)
	}
	return strings.Join(tokens, "&")
}

// Keys 返回会被编码的参数名（保持顺序）
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for _, param := range p {
		if param.Value.IsSome() {
			keys = append(keys, param.Key)
		}
	}
	return keys
}

func formatValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	case fmt.Stringer:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
