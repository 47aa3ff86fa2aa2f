package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/newplayman/indexer-client/pkg/gateway"
	"github.com/newplayman/indexer-client/pkg/indexer"
)

// 网络名称
const (
	NetworkMainnet = "mainnet"
	NetworkTestnet = "testnet"
	NetworkCustom  = "custom"
)

// Config 全局配置结构
type Config struct {
	Global   GlobalConfig   `mapstructure:"global"`
	Indexer  IndexerConfig  `mapstructure:"indexer"`
	Watchdog WatchdogConfig `mapstructure:"watchdog"`
}

// GlobalConfig 全局配置
type GlobalConfig struct {
	LogLevel    string `mapstructure:"log_level"`    // 日志级别
	MetricsPort int    `mapstructure:"metrics_port"` // Prometheus 端口，0 表示随机端口
}

// IndexerConfig 索引器端点配置
type IndexerConfig struct {
	Network           string  `mapstructure:"network"`            // mainnet | testnet | custom
	RESTEndpoint      string  `mapstructure:"rest_endpoint"`      // 为空时使用网络预设
	WebsocketEndpoint string  `mapstructure:"websocket_endpoint"` // 为空时使用网络预设
	TimeoutMs         int     `mapstructure:"timeout_ms"`         // 单次请求超时 (ms)
	RateLimit         float64 `mapstructure:"rate_limit"`         // 每秒请求数，0 表示不限流
	RateBurst         int     `mapstructure:"rate_burst"`         // 令牌桶容量
}

// WatchdogConfig 健康探测配置
type WatchdogConfig struct {
	IntervalMs        int `mapstructure:"interval_ms"`        // 探测间隔 (ms)
	FailureThreshold  int `mapstructure:"failure_threshold"`  // 连续失败多少次判定不健康
	RecoveryThreshold int `mapstructure:"recovery_threshold"` // 连续成功多少次判定恢复
	StaleAfterMs      int `mapstructure:"stale_after_ms"`     // 区块高度多久不变视为停滞 (ms)
	MaxClockSkewMs    int `mapstructure:"max_clock_skew_ms"`  // 本地与索引器时钟最大偏差 (ms)
}

var (
	mu           sync.RWMutex
	globalConfig *Config
	configPath   string
	subscribers  []func(*Config)
)

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("global.log_level", "info")
	v.SetDefault("global.metrics_port", 9108)
	v.SetDefault("indexer.network", NetworkMainnet)
	v.SetDefault("indexer.timeout_ms", int(gateway.DefaultTimeout/time.Millisecond))
	v.SetDefault("indexer.rate_limit", 0)
	v.SetDefault("indexer.rate_burst", 1)
	v.SetDefault("watchdog.interval_ms", 5000)
	v.SetDefault("watchdog.failure_threshold", 3)
	v.SetDefault("watchdog.recovery_threshold", 2)
	v.SetDefault("watchdog.stale_after_ms", 60000)
	v.SetDefault("watchdog.max_clock_skew_ms", 2000)

	// 环境变量覆盖
	v.SetEnvPrefix("INDEXER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// 显式绑定常用字段
	v.BindEnv("indexer.network", "INDEXER_NETWORK")
	v.BindEnv("indexer.rest_endpoint", "INDEXER_REST_ENDPOINT")
	v.BindEnv("indexer.websocket_endpoint", "INDEXER_WEBSOCKET_ENDPOINT")
	v.BindEnv("indexer.timeout_ms", "INDEXER_TIMEOUT_MS")
	v.BindEnv("indexer.rate_limit", "INDEXER_RATE_LIMIT")
	v.BindEnv("global.log_level", "INDEXER_LOG_LEVEL")
	v.BindEnv("global.metrics_port", "INDEXER_METRICS_PORT")
	return v
}

// LoadConfig 加载配置文件。path 为空时只使用默认值与环境变量，且不监听文件变化。
func LoadConfig(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}

	mu.Lock()
	globalConfig = cfg
	configPath = path
	mu.Unlock()

	if path != "" {
		// 启动热重载监听
		watchConfig(v)
	}

	log.Info().Str("path", path).Str("network", cfg.Indexer.Network).Str("rest", cfg.Indexer.RESTEndpoint).Msg("配置加载成功")
	return cfg, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("配置验证失败: %w", err)
	}
	return &cfg, nil
}

// GetConfig 获取全局配置
func GetConfig() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return globalConfig
}

// OnChange 注册热重载回调，仅在新配置通过验证后调用。
func OnChange(fn func(*Config)) {
	mu.Lock()
	defer mu.Unlock()
	subscribers = append(subscribers, fn)
}

// validateConfig 验证配置有效性，并按网络预设补全端点
func validateConfig(cfg *Config) error {
	idx := &cfg.Indexer
	idx.Network = strings.ToLower(strings.TrimSpace(idx.Network))

	var preset indexer.IndexerConfig
	switch idx.Network {
	case NetworkMainnet:
		preset = indexer.MainnetConfig()
	case NetworkTestnet:
		preset = indexer.TestnetConfig()
	case NetworkCustom:
		if idx.RESTEndpoint == "" {
			return fmt.Errorf("network=custom 时 rest_endpoint 不能为空")
		}
	default:
		return fmt.Errorf("network 必须是 mainnet、testnet 或 custom，当前为 %q", idx.Network)
	}
	if idx.RESTEndpoint == "" {
		idx.RESTEndpoint = preset.RESTEndpoint
	}
	if idx.WebsocketEndpoint == "" {
		idx.WebsocketEndpoint = preset.WebsocketEndpoint
	}

	host, err := gateway.ValidateHost(idx.RESTEndpoint)
	if err != nil {
		return fmt.Errorf("rest_endpoint: %w", err)
	}
	idx.RESTEndpoint = host
	if idx.WebsocketEndpoint != "" && !gateway.IsURL(idx.WebsocketEndpoint) {
		return fmt.Errorf("websocket_endpoint 不是合法 URL: %s", idx.WebsocketEndpoint)
	}

	if idx.TimeoutMs < 100 || idx.TimeoutMs > 60000 {
		return fmt.Errorf("timeout_ms 必须在 100-60000 之间")
	}
	if idx.RateLimit < 0 {
		return fmt.Errorf("rate_limit 不能为负数")
	}
	if idx.RateBurst < 0 {
		return fmt.Errorf("rate_burst 不能为负数")
	}

	wd := cfg.Watchdog
	if wd.IntervalMs < 500 {
		return fmt.Errorf("watchdog.interval_ms 必须 >= 500")
	}
	if wd.FailureThreshold < 1 || wd.RecoveryThreshold < 1 {
		return fmt.Errorf("watchdog 的 failure_threshold 和 recovery_threshold 必须 >= 1")
	}
	if wd.StaleAfterMs > 0 && wd.StaleAfterMs < wd.IntervalMs {
		return fmt.Errorf("watchdog.stale_after_ms 必须 >= interval_ms")
	}
	if wd.MaxClockSkewMs < 0 {
		return fmt.Errorf("watchdog.max_clock_skew_ms 不能为负数")
	}

	if cfg.Global.MetricsPort < 0 || cfg.Global.MetricsPort > 65535 {
		return fmt.Errorf("metrics_port 必须在 0-65535 之间")
	}
	return nil
}

// watchConfig 监听配置文件变化并热重载
func watchConfig(v *viper.Viper) {
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Info().Str("file", e.Name).Msg("检测到配置文件变化，正在重载...")

		newCfg, err := decode(v)
		if err != nil {
			log.Error().Err(err).Msg("新配置验证失败，保持旧配置")
			return
		}

		mu.Lock()
		globalConfig = newCfg
		fns := append([]func(*Config){}, subscribers...)
		mu.Unlock()

		for _, fn := range fns {
			fn(newCfg)
		}
		log.Info().Msg("配置热重载成功")
	})
	v.WatchConfig()
}

// ClientConfig 转换为客户端配置
func (c *Config) ClientConfig() indexer.IndexerConfig {
	return indexer.IndexerConfig{
		RESTEndpoint:      c.Indexer.RESTEndpoint,
		WebsocketEndpoint: c.Indexer.WebsocketEndpoint,
		Timeout:           c.Indexer.Timeout(),
		RateLimit:         c.Indexer.RateLimit,
		RateBurst:         c.Indexer.RateBurst,
	}
}

// Timeout 请求超时
func (c IndexerConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// Interval 探测间隔
func (c WatchdogConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}

// StaleAfter 高度停滞判定时长，0 表示不检测
func (c WatchdogConfig) StaleAfter() time.Duration {
	return time.Duration(c.StaleAfterMs) * time.Millisecond
}

// MaxClockSkew 允许的时钟偏差，0 表示不检测
func (c WatchdogConfig) MaxClockSkew() time.Duration {
	return time.Duration(c.MaxClockSkewMs) * time.Millisecond
}

// Path 当前配置文件路径
func Path() string {
	mu.RLock()
	defer mu.RUnlock()
	return configPath
}
