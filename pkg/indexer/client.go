// Package indexer 提供 dYdX v4 索引器的类型化 REST 客户端。
//
// 每个方法对应一个 GET 接口：拼装路径与有序查询参数，交给 gateway 执行并解码为对应结构。
// 调用是同步阻塞的，超时由 IndexerConfig.Timeout 决定，失败时不会重试。
package indexer

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/newplayman/indexer-client/pkg/gateway"
	"github.com/newplayman/indexer-client/pkg/optional"
)

// IndexerConfig 索引器端点配置。WebsocketEndpoint 仅保存，本客户端不建立流式连接。
type IndexerConfig struct {
	RESTEndpoint      string
	WebsocketEndpoint string
	Timeout           time.Duration // <=0 使用 gateway.DefaultTimeout
	RateLimit         float64       // 每秒请求数，<=0 不限流
	RateBurst         int
}

// MainnetConfig 主网端点
func MainnetConfig() IndexerConfig {
	return IndexerConfig{
		RESTEndpoint:      MainnetRESTEndpoint,
		WebsocketEndpoint: MainnetWebsocketEndpoint,
		Timeout:           gateway.DefaultTimeout,
	}
}

// TestnetConfig 测试网端点
func TestnetConfig() IndexerConfig {
	return IndexerConfig{
		RESTEndpoint:      TestnetRESTEndpoint,
		WebsocketEndpoint: TestnetWebsocketEndpoint,
		Timeout:           gateway.DefaultTimeout,
	}
}

// AccountsClient 账户相关查询
type AccountsClient interface {
	GetSubaccounts(address string, limit optional.Value[uint32]) (AddressResponse, error)
	GetSubaccount(address string, subaccountNumber uint32) (SubaccountResponse, error)
	GetSubaccountPerpetualPositions(req PositionDetailsRequest) (PerpetualPositionResponse, error)
	GetSubaccountAssetPositions(req PositionDetailsRequest) (AssetPositionResponse, error)
	GetSubaccountTransfers(address string, subaccountNumber uint32, limit optional.Value[uint32],
		createdBeforeOrAtHeight optional.Value[uint32], createdBeforeOrAt optional.Value[time.Time]) (TransferResponse, error)
	GetSubaccountOrders(req SubaccountOrdersRequest) ([]OrderResponseObject, error)
	GetOrder(orderID string) (OrderResponseObject, error)
	GetSubaccountFills(address string, subaccountNumber uint32, ticker optional.Value[string], tickerType TickerType,
		limit optional.Value[uint32], createdBeforeOrAtHeight optional.Value[uint32],
		createdBeforeOrAt optional.Value[time.Time]) (FillResponse, error)
	GetSubaccountHistoricalPnls(address string, subaccountNumber uint32,
		effectiveBeforeOrAt, effectiveAtOrAfter optional.Value[time.Time]) (HistoricalPnlResponse, error)
}

// MarketsClient 市场行情查询
type MarketsClient interface {
	GetPerpetualMarkets(market optional.Value[string]) (PerpetualMarketsResponse, error)
	GetPerpetualMarketOrderbook(market string) (OrderbookResponse, error)
	GetPerpetualMarketTrades(market string, createdBeforeOrAtHeight, limit optional.Value[uint32]) (TradeResponse, error)
	GetPerpetualMarketCandles(market string, resolution CandleResolution, fromISO, toISO optional.Value[time.Time],
		limit optional.Value[uint32]) (CandleResponse, error)
	GetPerpetualMarketHistoricalFunding(market string, effectiveBeforeOrAt optional.Value[time.Time],
		effectiveBeforeOrAtHeight, limit optional.Value[uint32]) (HistoricalFundingResponse, error)
	GetPerpetualMarketSparklines(period TimePeriod) (SparklineResponse, error)
}

// UtilityClient 服务器时间、区块高度与地址合规检查
type UtilityClient interface {
	GetTime() (TimeResponse, error)
	GetHeight() (HeightResponse, error)
	Screen(address string) (ComplianceResponse, error)
}

var (
	_ AccountsClient = (*Client)(nil)
	_ MarketsClient  = (*Client)(nil)
	_ UtilityClient  = (*Client)(nil)
)

// Client 索引器客户端，可并发使用。
type Client struct {
	mu      sync.Mutex // 保护 config 的写入
	config  IndexerConfig
	limiter gateway.RateLimiter
	handler atomic.Pointer[gateway.RESTHandler]
}

// NewClient 校验配置并创建客户端。host 非法时返回 *gateway.ConfigurationError 且不返回客户端。
func NewClient(cfg IndexerConfig) (*Client, error) {
	var limiter gateway.RateLimiter
	if cfg.RateLimit > 0 {
		l, err := gateway.NewTokenBucketLimiter(cfg.RateLimit, cfg.RateBurst)
		if err != nil {
			return nil, err
		}
		limiter = l
	}
	handler, err := gateway.NewRESTHandler(cfg.RESTEndpoint, cfg.Timeout, limiter)
	if err != nil {
		return nil, err
	}
	cfg.RESTEndpoint = handler.Host()
	cfg.Timeout = handler.Timeout()

	c := &Client{config: cfg, limiter: limiter}
	c.handler.Store(handler)
	log.Debug().
		Str("rest", cfg.RESTEndpoint).
		Dur("timeout", cfg.Timeout).
		Float64("rate_limit", cfg.RateLimit).
		Msg("索引器客户端已创建")
	return c, nil
}

// Config 返回当前配置副本
func (c *Client) Config() IndexerConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config
}

// RESTHandler 返回当前使用的请求引擎
func (c *Client) RESTHandler() *gateway.RESTHandler {
	return c.handler.Load()
}

// SetRESTEndpoint 切换 REST host 并重建请求引擎；校验失败时保留原引擎。
// 已发出的请求继续使用旧引擎完成。
func (c *Client) SetRESTEndpoint(host string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	handler, err := gateway.NewRESTHandler(host, c.config.Timeout, c.limiter)
	if err != nil {
		return err
	}
	old := c.config.RESTEndpoint
	c.handler.Store(handler)
	c.config.RESTEndpoint = handler.Host()
	log.Info().Str("old", old).Str("new", handler.Host()).Msg("索引器 REST 端点已切换")
	return nil
}
