package metrics

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	// 请求指标
	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "indexer_request_duration_seconds",
			Help:    "索引器REST请求耗时",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 3.0},
		},
		[]string{"method", "code"},
	)

	RequestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "indexer_request_total",
			Help: "索引器REST请求次数",
		},
		[]string{"method", "code"},
	)

	RequestErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "indexer_request_error_total",
			Help: "请求失败次数（按失败类别）",
		},
		[]string{"kind"},
	)

	ResponseBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "indexer_response_bytes_total",
			Help: "响应体字节数",
		},
		[]string{"method"},
	)

	// 看门狗指标
	IndexerHealthy = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "indexer_healthy",
			Help: "索引器健康状态 (1=健康, 0=异常)",
		},
	)

	IndexerHeight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "indexer_block_height",
			Help: "索引器最新处理的区块高度",
		},
	)

	ClockOffset = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "indexer_clock_offset_seconds",
			Help: "索引器时间与本地时间的差值",
		},
	)

	ProbeFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "indexer_probe_failure_total",
			Help: "健康探测失败次数",
		},
		[]string{"reason"},
	)
)

var (
	defaultOnce sync.Once
	defaultErr  error
)

// Register 将全部采集器注册到 reg；导入本包不会注册任何采集器。
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		RequestLatency,
		RequestCount,
		RequestErrors,
		ResponseBytes,
		IndexerHealthy,
		IndexerHeight,
		ClockOffset,
		ProbeFailures,
	} {
		if err := reg.Register(c); err != nil {
			return fmt.Errorf("register collector: %w", err)
		}
	}
	return nil
}

func registerDefault() error {
	defaultOnce.Do(func() {
		defaultErr = Register(prometheus.DefaultRegisterer)
	})
	return defaultErr
}

// StartMetricsServer 在默认注册表上注册采集器（仅首次），启动Prometheus监控服务器，并返回实际监听端口
func StartMetricsServer(port int) (int, error) {
	if err := registerDefault(); err != nil {
		return 0, err
	}
	if port < 0 {
		port = 0
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return 0, fmt.Errorf("listen on %s failed: %w", addr, err)
	}

	actualPort := listener.Addr().(*net.TCPAddr).Port

	log.Info().Int("port", actualPort).Msg("启动Prometheus监控服务器")

	go func() {
		if err := http.Serve(listener, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Prometheus服务器异常退出")
		}
	}()

	return actualPort, nil
}

// ObserveRequest 记录一次完成的请求；code 为 0 表示没有拿到 HTTP 响应
func ObserveRequest(method string, code int, elapsed time.Duration) {
	label := "none"
	if code > 0 {
		label = strconv.Itoa(code)
	}
	RequestLatency.WithLabelValues(method, label).Observe(elapsed.Seconds())
	RequestCount.WithLabelValues(method, label).Inc()
}

// RecordRequestError 记录请求失败
func RecordRequestError(kind string) {
	RequestErrors.WithLabelValues(kind).Inc()
}

// RecordResponseBytes 记录响应体大小
func RecordResponseBytes(method string, n int) {
	ResponseBytes.WithLabelValues(method).Add(float64(n))
}

// UpdateHealth 更新看门狗探测结果
func UpdateHealth(healthy bool, height int64, offset time.Duration) {
	if healthy {
		IndexerHealthy.Set(1)
	} else {
		IndexerHealthy.Set(0)
	}
	if height > 0 {
		IndexerHeight.Set(float64(height))
	}
	ClockOffset.Set(offset.Seconds())
}

// RecordProbeFailure 记录探测失败
func RecordProbeFailure(reason string) {
	ProbeFailures.WithLabelValues(reason).Inc()
}
