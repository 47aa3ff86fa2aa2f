package watchdog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/newplayman/indexer-client/internal/metrics"
	"github.com/newplayman/indexer-client/pkg/indexer"
)

// Prober 索引器探测能力，*indexer.Client 满足该接口
type Prober interface {
	GetHeight() (indexer.HeightResponse, error)
	GetTime() (indexer.TimeResponse, error)
}

// Hooks 健康状态切换时的回调
type Hooks interface {
	OnUnhealthy(reason string)
	OnRecovered(reason string)
}

// Config 看门狗配置
type Config struct {
	Interval          time.Duration
	FailureThreshold  int
	RecoveryThreshold int
	StaleAfter        time.Duration // 高度停滞判定，0 表示不检测
	MaxClockSkew      time.Duration // 时钟偏差上限，0 表示不检测
}

func (c *Config) normalize() {
	if c.Interval <= 0 {
		c.Interval = 5 * time.Second
	}
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = 3
	}
	if c.RecoveryThreshold <= 0 {
		c.RecoveryThreshold = 2
	}
}

// Status 最近一次探测后的状态快照
type Status struct {
	Healthy          bool
	Height           int64
	LastHeightChange time.Time
	ClockOffset      time.Duration
	LastError        string
	CheckedAt        time.Time
}

// Watchdog 周期探测索引器的区块高度与服务器时间，连续失败后判定不健康
type Watchdog struct {
	cfg    Config
	prober Prober
	hooks  Hooks
	now    func() time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu               sync.RWMutex
	failures         int
	recoveries       int
	unhealthy        bool
	height           int64
	lastHeightChange time.Time
	offset           time.Duration
	lastErr          string
	checkedAt        time.Time
}

// NewWatchdog 创建看门狗，hooks 可为 nil
func NewWatchdog(cfg Config, prober Prober, hooks Hooks) *Watchdog {
	cfg.normalize()
	return &Watchdog{
		cfg:    cfg,
		prober: prober,
		hooks:  hooks,
		now:    time.Now,
	}
}

// Start 启动探测循环，启动时立即探测一次
func (w *Watchdog) Start(ctx context.Context) {
	if w.prober == nil {
		log.Warn().Msg("watchdog 未启用：缺少 prober")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run(childCtx)
	}()
}

// Stop 停止看门狗
func (w *Watchdog) Stop() {
	if w.cancel != nil {
		w.cancel()
		w.wg.Wait()
	}
}

func (w *Watchdog) run(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	w.Check()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Check()
		}
	}
}

// Check 执行一次探测并更新状态，返回本次探测的错误
func (w *Watchdog) Check() error {
	resp, err := w.prober.GetHeight()
	if err != nil {
		return w.recordFailure("height_unreachable", err)
	}
	height, err := resp.BlockHeight()
	if err != nil {
		return w.recordFailure("height_invalid", err)
	}

	now := w.now()
	w.mu.Lock()
	if height != w.height || w.lastHeightChange.IsZero() {
		w.height = height
		w.lastHeightChange = now
	}
	stalled := now.Sub(w.lastHeightChange)
	w.mu.Unlock()

	if w.cfg.StaleAfter > 0 && stalled > w.cfg.StaleAfter {
		return w.recordFailure("height_stale", fmt.Errorf("区块高度 %d 已 %s 未变化", height, stalled.Round(time.Second)))
	}

	tr, err := w.prober.GetTime()
	if err != nil {
		return w.recordFailure("time_unreachable", err)
	}
	serverTime, err := tr.Time()
	if err != nil {
		return w.recordFailure("time_invalid", err)
	}
	offset := serverTime.Sub(w.now())
	w.mu.Lock()
	w.offset = offset
	w.mu.Unlock()

	if w.cfg.MaxClockSkew > 0 && (offset > w.cfg.MaxClockSkew || offset < -w.cfg.MaxClockSkew) {
		return w.recordFailure("clock_skew", fmt.Errorf("时钟偏差 %s 超过上限 %s", offset, w.cfg.MaxClockSkew))
	}

	w.recordSuccess()
	return nil
}

func (w *Watchdog) recordFailure(reason string, err error) error {
	metrics.RecordProbeFailure(reason)

	w.mu.Lock()
	w.failures++
	w.recoveries = 0
	w.lastErr = err.Error()
	w.checkedAt = w.now()
	trip := w.failures >= w.cfg.FailureThreshold && !w.unhealthy
	if trip {
		w.unhealthy = true
	}
	failures := w.failures
	w.mu.Unlock()

	log.Error().Err(err).Str("reason", reason).Int("failures", failures).Msg("索引器探测失败")
	if trip {
		log.Error().Str("reason", reason).Msg("索引器连续探测失败，标记为不健康")
		if w.hooks != nil {
			w.hooks.OnUnhealthy(reason)
		}
	}
	w.publish()
	return fmt.Errorf("%s: %w", reason, err)
}

func (w *Watchdog) recordSuccess() {
	w.mu.Lock()
	recovered := false
	if w.unhealthy {
		w.recoveries++
		if w.recoveries >= w.cfg.RecoveryThreshold {
			w.unhealthy = false
			w.recoveries = 0
			recovered = true
		}
	}
	w.failures = 0
	w.lastErr = ""
	w.checkedAt = w.now()
	height, offset := w.height, w.offset
	w.mu.Unlock()

	log.Debug().Int64("height", height).Dur("clock_offset", offset).Msg("索引器探测成功")
	if recovered {
		log.Info().Msg("索引器恢复健康")
		if w.hooks != nil {
			w.hooks.OnRecovered("indexer_recovered")
		}
	}
	w.publish()
}

func (w *Watchdog) publish() {
	st := w.Status()
	metrics.UpdateHealth(st.Healthy, st.Height, st.ClockOffset)
}

// Status 返回当前状态快照
func (w *Watchdog) Status() Status {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return Status{
		Healthy:          !w.unhealthy,
		Height:           w.height,
		LastHeightChange: w.lastHeightChange,
		ClockOffset:      w.offset,
		LastError:        w.lastErr,
		CheckedAt:        w.checkedAt,
	}
}
