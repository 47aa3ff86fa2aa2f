package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newplayman/indexer-client/pkg/indexer"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "indexer.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
global:
  log_level: "debug"
  metrics_port: 9200

indexer:
  network: custom
  rest_endpoint: "https://indexer.example.com/"
  websocket_endpoint: "wss://indexer.example.com/v4/ws"
  timeout_ms: 1500
  rate_limit: 10
  rate_burst: 5

watchdog:
  interval_ms: 1000
  failure_threshold: 2
  recovery_threshold: 1
  stale_after_ms: 30000
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Global.LogLevel != "debug" {
		t.Errorf("Expected LogLevel 'debug', got '%s'", cfg.Global.LogLevel)
	}
	if cfg.Indexer.RESTEndpoint != "https://indexer.example.com" {
		t.Errorf("Expected normalized endpoint, got %s", cfg.Indexer.RESTEndpoint)
	}
	if cfg.Indexer.Timeout() != 1500*time.Millisecond {
		t.Errorf("Expected timeout 1.5s, got %s", cfg.Indexer.Timeout())
	}
	// 未配置的字段取默认值
	if cfg.Watchdog.MaxClockSkewMs != 2000 {
		t.Errorf("Expected default max_clock_skew_ms 2000, got %d", cfg.Watchdog.MaxClockSkewMs)
	}

	clientCfg := cfg.ClientConfig()
	assert.Equal(t, indexer.IndexerConfig{
		RESTEndpoint:      "https://indexer.example.com",
		WebsocketEndpoint: "wss://indexer.example.com/v4/ws",
		Timeout:           1500 * time.Millisecond,
		RateLimit:         10,
		RateBurst:         5,
	}, clientCfg)
	assert.Equal(t, path, Path())
	assert.Same(t, cfg, GetConfig())
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, NetworkMainnet, cfg.Indexer.Network)
	assert.Equal(t, indexer.MainnetRESTEndpoint, cfg.Indexer.RESTEndpoint)
	assert.Equal(t, indexer.MainnetWebsocketEndpoint, cfg.Indexer.WebsocketEndpoint)
	assert.Equal(t, 3000*time.Millisecond, cfg.Indexer.Timeout())
	assert.Equal(t, 5*time.Second, cfg.Watchdog.Interval())
	assert.Equal(t, time.Minute, cfg.Watchdog.StaleAfter())
}

func TestLoadConfigTestnetPreset(t *testing.T) {
	path := writeConfig(t, "indexer:\n  network: TESTNET\n")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, NetworkTestnet, cfg.Indexer.Network)
	assert.Equal(t, indexer.TestnetRESTEndpoint, cfg.Indexer.RESTEndpoint)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("INDEXER_REST_ENDPOINT", "https://env.example.com")
	t.Setenv("INDEXER_TIMEOUT_MS", "2500")
	path := writeConfig(t, "indexer:\n  network: custom\n  rest_endpoint: https://file.example.com\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.Indexer.RESTEndpoint)
	assert.Equal(t, 2500, cfg.Indexer.TimeoutMs)
}

func TestValidateConfig(t *testing.T) {
	base := func() Config {
		return Config{
			Global:  GlobalConfig{LogLevel: "info", MetricsPort: 9108},
			Indexer: IndexerConfig{Network: NetworkMainnet, TimeoutMs: 3000, RateBurst: 1},
			Watchdog: WatchdogConfig{
				IntervalMs: 5000, FailureThreshold: 3, RecoveryThreshold: 2, StaleAfterMs: 60000, MaxClockSkewMs: 2000,
			},
		}
	}

	cases := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"unknown network", func(c *Config) { c.Indexer.Network = "devnet" }, "network"},
		{"custom without endpoint", func(c *Config) { c.Indexer.Network = NetworkCustom }, "rest_endpoint"},
		{"invalid endpoint", func(c *Config) { c.Indexer.RESTEndpoint = "not a url" }, "Provided api host is not a url"},
		{"invalid websocket", func(c *Config) { c.Indexer.WebsocketEndpoint = "ws endpoint" }, "websocket_endpoint"},
		{"timeout too small", func(c *Config) { c.Indexer.TimeoutMs = 10 }, "timeout_ms"},
		{"negative rate", func(c *Config) { c.Indexer.RateLimit = -1 }, "rate_limit"},
		{"interval too small", func(c *Config) { c.Watchdog.IntervalMs = 100 }, "interval_ms"},
		{"zero threshold", func(c *Config) { c.Watchdog.FailureThreshold = 0 }, "failure_threshold"},
		{"stale shorter than interval", func(c *Config) { c.Watchdog.StaleAfterMs = 1000 }, "stale_after_ms"},
		{"metrics port", func(c *Config) { c.Global.MetricsPort = 70000 }, "metrics_port"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(&cfg)
			err := validateConfig(&cfg)
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tc.errMsg), err.Error())
		})
	}

	cfg := base()
	require.NoError(t, validateConfig(&cfg))
	assert.Equal(t, indexer.MainnetRESTEndpoint, cfg.Indexer.RESTEndpoint)
}

func TestHotReloadNotifiesSubscribers(t *testing.T) {
	path := writeConfig(t, "indexer:\n  network: custom\n  rest_endpoint: https://a.example.com\n")
	_, err := LoadConfig(path)
	require.NoError(t, err)

	changed := make(chan *Config, 4)
	OnChange(func(c *Config) { changed <- c })

	// 非法配置不会通知
	require.NoError(t, os.WriteFile(path, []byte("indexer:\n  network: custom\n  rest_endpoint: not a url\n"), 0o644))
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("indexer:\n  network: custom\n  rest_endpoint: https://b.example.com/\n"), 0o644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-changed:
			// 写文件过程中可能读到截断的内容，只关心最终结果
			assert.NotEqual(t, "not a url", c.Indexer.RESTEndpoint)
			if c.Indexer.RESTEndpoint == "https://b.example.com" {
				assert.Equal(t, "https://b.example.com", GetConfig().Indexer.RESTEndpoint)
				return
			}
		case <-deadline:
			t.Fatal("config change not observed")
		}
	}
}
