package gateway

import (
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// 未转义时会破坏 URL 的字符
const unsafeURLChars = " \t\r\n<>\"{}|\\^`"

// 路径分隔符在路径段内转义；其余不安全字符保留原样，由 IsURL 拒绝。
var segmentEscaper = strings.NewReplacer("%", "%25", "/", "%2F", "?", "%3F", "#", "%23")

// PathSegment 转义填入路径模板的单个路径段，使其不能截断路径或引入 query/fragment。
func PathSegment(s string) string {
	return segmentEscaper.Replace(s)
}

// NormalizeHost 去掉末尾的一个 "/"（只去一个，不递归）。
func NormalizeHost(host string) string {
	return strings.TrimSuffix(host, "/")
}

// IsURL 判断是否为带 scheme 与 host 的绝对 URL。
func IsURL(raw string) bool {
	if raw == "" || strings.ContainsAny(raw, unsafeURLChars) {
		return false
	}
	for _, r := range raw {
		if r < 0x20 || r == 0x7f {
			return false
		}
	}
	if err := validate.Var(raw, "required,url"); err != nil {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// ValidateHost 归一化并校验 REST host。
func ValidateHost(host string) (string, error) {
	normalized := NormalizeHost(host)
	if !IsURL(normalized) {
		return "", newConfigurationError(nil, "Provided api host is not a url: %s", normalized)
	}
	return normalized, nil
}
