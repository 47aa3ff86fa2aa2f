package indexer

import (
	"fmt"
	"time"

	"github.com/newplayman/indexer-client/pkg/gateway"
	"github.com/newplayman/indexer-client/pkg/optional"
)

// GetPerpetualMarkets 查询永续市场，market 为空时返回全部
func (c *Client) GetPerpetualMarkets(market optional.Value[string]) (PerpetualMarketsResponse, error) {
	return gateway.Get[PerpetualMarketsResponse](c.RESTHandler(), "/v4/perpetualMarkets", gateway.Params{
		gateway.Optional("market", market),
	})
}

// GetPerpetualMarketOrderbook 查询订单簿
func (c *Client) GetPerpetualMarketOrderbook(market string) (OrderbookResponse, error) {
	return gateway.Get[OrderbookResponse](c.RESTHandler(),
		fmt.Sprintf("/v4/orderbooks/perpetualMarket/%s", gateway.PathSegment(market)), nil)
}

// GetPerpetualMarketTrades 查询最近成交
func (c *Client) GetPerpetualMarketTrades(
	market string,
	createdBeforeOrAtHeight optional.Value[uint32],
	limit optional.Value[uint32],
) (TradeResponse, error) {
	return gateway.Get[TradeResponse](c.RESTHandler(),
		fmt.Sprintf("/v4/trades/perpetualMarket/%s", gateway.PathSegment(market)),
		gateway.Params{
			gateway.Optional("created_before_or_at_height", createdBeforeOrAtHeight),
			gateway.Optional("limit", limit),
		})
}

// GetPerpetualMarketCandles 查询 K 线。fromISO/toISO 的参数名不做大小写转换。
func (c *Client) GetPerpetualMarketCandles(
	market string,
	resolution CandleResolution,
	fromISO optional.Value[time.Time],
	toISO optional.Value[time.Time],
	limit optional.Value[uint32],
) (CandleResponse, error) {
	return gateway.Get[CandleResponse](c.RESTHandler(),
		fmt.Sprintf("/v4/candles/perpetualMarket/%s", gateway.PathSegment(market)),
		gateway.Params{
			gateway.Required("resolution", resolution),
			gateway.Optional("fromISO", fromISO),
			gateway.Optional("toISO", toISO),
			gateway.Optional("limit", limit),
		})
}

// GetPerpetualMarketHistoricalFunding 查询历史资金费率
func (c *Client) GetPerpetualMarketHistoricalFunding(
	market string,
	effectiveBeforeOrAt optional.Value[time.Time],
	effectiveBeforeOrAtHeight optional.Value[uint32],
	limit optional.Value[uint32],
) (HistoricalFundingResponse, error) {
	return gateway.Get[HistoricalFundingResponse](c.RESTHandler(),
		fmt.Sprintf("/v4/historicalFunding/%s", gateway.PathSegment(market)),
		gateway.Params{
			gateway.Optional("effective_before_or_at", effectiveBeforeOrAt),
			gateway.Optional("effective_before_or_at_height", effectiveBeforeOrAtHeight),
			gateway.Optional("limit", limit),
		})
}

// GetPerpetualMarketSparklines 查询各市场走势图价格
func (c *Client) GetPerpetualMarketSparklines(period TimePeriod) (SparklineResponse, error) {
	return gateway.Get[SparklineResponse](c.RESTHandler(), "/v4/sparklines", gateway.Params{
		gateway.Required("time_period", period),
	})
}
