// Package gateway 实现索引器 REST 请求管线：参数编码、URL 校验、带超时的请求执行与类型化 JSON 解码。
package gateway

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/newplayman/indexer-client/internal/metrics"
)

// DefaultTimeout 未指定超时时使用的请求超时
const DefaultTimeout = 3000 * time.Millisecond

// RegisterMetrics 将请求指标注册到调用方的注册表。不调用时指标仍会采集，只是不对外暴露。
func RegisterMetrics(reg prometheus.Registerer) error {
	return metrics.Register(reg)
}

// RESTHandler 持有已校验的 host、超时和复用的 http.Client；构造后不再修改，可并发使用。
type RESTHandler struct {
	host    string
	timeout time.Duration
	client  *http.Client
	limiter RateLimiter
}

// NewRESTHandler 校验 host 并构建请求引擎。timeout <= 0 时使用 DefaultTimeout，limiter 可为 nil。
func NewRESTHandler(host string, timeout time.Duration, limiter RateLimiter) (*RESTHandler, error) {
	normalized, err := ValidateHost(host)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &RESTHandler{
		host:    normalized,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
		limiter: limiter,
	}, nil
}

// Host 返回归一化后的 host
func (h *RESTHandler) Host() string {
	return h.host
}

// Timeout 返回每个请求的超时
func (h *RESTHandler) Timeout() time.Duration {
	return h.timeout
}

// Get 发起 GET 请求并将响应解码为 T。任何失败都返回 *RequestError 和 T 的零值。
func Get[T any](h *RESTHandler, path string, params Params) (T, error) {
	if h == nil {
		return zeroValue[T](), newRequestError(FailureUnknown, nil, "rest handler not set")
	}
	endpoint := h.host + path
	if query := params.Encode(); query != "" {
		endpoint += "?" + query
	}
	if !IsURL(endpoint) {
		return zeroValue[T](), h.fail(http.MethodGet, FailureInvalidURL, nil, "String is not URL: %s", endpoint)
	}
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return zeroValue[T](), h.fail(http.MethodGet, FailureInvalidURL, err, "String is not URL: %s", endpoint)
	}
	return do[T](h, req)
}

// Post 将 body 序列化为 JSON 后发起 POST 请求，响应解码规则与 Get 相同。
func Post[T any](h *RESTHandler, path string, body map[string]any) (T, error) {
	if h == nil {
		return zeroValue[T](), newRequestError(FailureUnknown, nil, "rest handler not set")
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return zeroValue[T](), h.fail(http.MethodPost, FailureEncode, err, "encode request body: %s", err)
	}
	endpoint := h.host + path
	if !IsURL(endpoint) {
		return zeroValue[T](), h.fail(http.MethodPost, FailureInvalidURL, nil, "String is not URL: %s", endpoint)
	}
	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(raw))
	if err != nil {
		return zeroValue[T](), h.fail(http.MethodPost, FailureInvalidURL, err, "String is not URL: %s", endpoint)
	}
	req.Header.Set("Content-Type", "application/json")
	return do[T](h, req)
}

func do[T any](h *RESTHandler, req *http.Request) (T, error) {
	req.Header.Set("Accept", "application/json")
	if h.limiter != nil {
		h.limiter.Wait()
	}

	method := req.Method
	endpoint := req.URL.String()
	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		metrics.ObserveRequest(method, 0, time.Since(start))
		return zeroValue[T](), h.fail(method, FailureTransport, err, "%s", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	metrics.ObserveRequest(method, resp.StatusCode, elapsed)
	if err != nil {
		return zeroValue[T](), h.fail(method, FailureRead, err, "read response of %s %s: %s", method, endpoint, err)
	}
	metrics.RecordResponseBytes(method, len(body))

	log.Debug().
		Str("method", method).
		Str("url", endpoint).
		Int("status", resp.StatusCode).
		Dur("latency", elapsed).
		Int("bytes", len(body)).
		Msg("索引器请求完成")

	// 非 2xx 的响应体同样按 T 解码，结构不匹配即视为失败
	output, err := decode[T](body)
	if err != nil {
		return zeroValue[T](), h.fail(method, FailureDecode, err,
			"decode response of %s %s (status %d): %s", method, endpoint, resp.StatusCode, err)
	}
	return output, nil
}

func (h *RESTHandler) fail(method string, kind FailureKind, err error, format string, args ...any) *RequestError {
	rerr := newRequestError(kind, err, format, args...)
	metrics.RecordRequestError(kind.String())
	log.Warn().
		Str("method", method).
		Str("kind", kind.String()).
		Str("host", h.host).
		Msg(rerr.Message)
	return rerr
}

func zeroValue[T any]() T {
	var zero T
	return zero
}
