package indexer

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// 响应结构中标注 validate:"required" 的字段在解码后必须存在，
// 缺失时请求按解码失败处理（索引器的错误响应体不会被当作空结果返回）。

// SubaccountResponseObject 子账户快照
type SubaccountResponseObject struct {
	Address                string                                     `json:"address" validate:"required"`
	SubaccountNumber       uint32                                     `json:"subaccountNumber"`
	Equity                 decimal.Decimal                            `json:"equity"`
	FreeCollateral         decimal.Decimal                            `json:"freeCollateral"`
	OpenPerpetualPositions map[string]PerpetualPositionResponseObject `json:"openPerpetualPositions"`
	AssetPositions         map[string]AssetPositionResponseObject     `json:"assetPositions"`
	MarginEnabled          bool                                       `json:"marginEnabled"`
	UpdatedAtHeight        string                                     `json:"updatedAtHeight,omitempty"`
}

// AddressResponse /v4/addresses/{address}
type AddressResponse struct {
	Subaccounts         []SubaccountResponseObject `json:"subaccounts" validate:"required"`
	TotalTradingRewards decimal.Decimal            `json:"totalTradingRewards"`
}

// SubaccountResponse /v4/addresses/{address}/subaccountNumber/{n}
type SubaccountResponse struct {
	Subaccount SubaccountResponseObject `json:"subaccount"`
}

// PerpetualPositionResponseObject 永续仓位
type PerpetualPositionResponseObject struct {
	Market           string                  `json:"market" validate:"required"`
	Status           PerpetualPositionStatus `json:"status"`
	Side             PositionSide            `json:"side"`
	Size             decimal.Decimal         `json:"size"`
	MaxSize          decimal.Decimal         `json:"maxSize"`
	EntryPrice       decimal.Decimal         `json:"entryPrice"`
	RealizedPnl      decimal.Decimal         `json:"realizedPnl"`
	CreatedAt        string                  `json:"createdAt"`
	CreatedAtHeight  string                  `json:"createdAtHeight"`
	SumOpen          decimal.Decimal         `json:"sumOpen"`
	SumClose         decimal.Decimal         `json:"sumClose"`
	NetFunding       decimal.Decimal         `json:"netFunding"`
	UnrealizedPnl    decimal.Decimal         `json:"unrealizedPnl"`
	ClosedAt         *string                 `json:"closedAt,omitempty"`
	ExitPrice        decimal.NullDecimal     `json:"exitPrice"`
	SubaccountNumber uint32                  `json:"subaccountNumber"`
}

// PerpetualPositionResponse /v4/perpetualPositions
type PerpetualPositionResponse struct {
	Positions []PerpetualPositionResponseObject `json:"positions" validate:"required"`
}

// AssetPositionResponseObject 资产仓位
type AssetPositionResponseObject struct {
	Symbol           string          `json:"symbol" validate:"required"`
	Side             PositionSide    `json:"side"`
	Size             decimal.Decimal `json:"size"`
	AssetID          string          `json:"assetId"`
	SubaccountNumber uint32          `json:"subaccountNumber"`
}

// AssetPositionResponse /v4/assetPositions
type AssetPositionResponse struct {
	Positions []AssetPositionResponseObject `json:"positions" validate:"required"`
}

// TransferAccount 划转的一端
type TransferAccount struct {
	Address          string  `json:"address"`
	SubaccountNumber *uint32 `json:"subaccountNumber,omitempty"`
}

// TransferResponseObject 划转记录
type TransferResponseObject struct {
	ID              string          `json:"id" validate:"required"`
	Sender          TransferAccount `json:"sender"`
	Recipient       TransferAccount `json:"recipient"`
	Size            decimal.Decimal `json:"size"`
	CreatedAt       string          `json:"createdAt"`
	CreatedAtHeight string          `json:"createdAtHeight"`
	Symbol          string          `json:"symbol"`
	Type            TransferType    `json:"type"`
	TransactionHash string          `json:"transactionHash"`
}

// TransferResponse /v4/transfers
type TransferResponse struct {
	Transfers []TransferResponseObject `json:"transfers" validate:"required"`
}

// OrderResponseObject 订单
type OrderResponseObject struct {
	ID               string              `json:"id" validate:"required"`
	SubaccountID     string              `json:"subaccountId"`
	ClientID         string              `json:"clientId"`
	ClobPairID       string              `json:"clobPairId"`
	Side             OrderSide           `json:"side"`
	Size             decimal.Decimal     `json:"size"`
	TotalFilled      decimal.Decimal     `json:"totalFilled"`
	Price            decimal.Decimal     `json:"price"`
	Type             OrderType           `json:"type"`
	ReduceOnly       bool                `json:"reduceOnly"`
	OrderFlags       string              `json:"orderFlags"`
	GoodTilBlock     *string             `json:"goodTilBlock,omitempty"`
	GoodTilBlockTime *string             `json:"goodTilBlockTime,omitempty"`
	CreatedAtHeight  *string             `json:"createdAtHeight,omitempty"`
	ClientMetadata   string              `json:"clientMetadata"`
	TriggerPrice     decimal.NullDecimal `json:"triggerPrice"`
	TimeInForce      OrderTimeInForce    `json:"timeInForce"`
	Status           OrderStatus         `json:"status"`
	PostOnly         bool                `json:"postOnly"`
	Ticker           string              `json:"ticker"`
	UpdatedAt        *string             `json:"updatedAt,omitempty"`
	UpdatedAtHeight  *string             `json:"updatedAtHeight,omitempty"`
	SubaccountNumber uint32              `json:"subaccountNumber"`
}

// FillResponseObject 成交
type FillResponseObject struct {
	ID               string          `json:"id" validate:"required"`
	Side             OrderSide       `json:"side"`
	Liquidity        Liquidity       `json:"liquidity"`
	Type             FillType        `json:"type"`
	Market           string          `json:"market"`
	MarketType       TickerType      `json:"marketType"`
	Price            decimal.Decimal `json:"price"`
	Size             decimal.Decimal `json:"size"`
	Fee              decimal.Decimal `json:"fee"`
	CreatedAt        string          `json:"createdAt"`
	CreatedAtHeight  string          `json:"createdAtHeight"`
	OrderID          *string         `json:"orderId,omitempty"`
	ClientMetadata   *string         `json:"clientMetadata,omitempty"`
	SubaccountNumber uint32          `json:"subaccountNumber"`
}

// FillResponse /v4/fills
type FillResponse struct {
	Fills []FillResponseObject `json:"fills" validate:"required"`
}

// PnlTicksResponseObject 历史盈亏采样点
type PnlTicksResponseObject struct {
	ID           string          `json:"id"`
	SubaccountID string          `json:"subaccountId"`
	Equity       decimal.Decimal `json:"equity"`
	TotalPnl     decimal.Decimal `json:"totalPnl"`
	NetTransfers decimal.Decimal `json:"netTransfers"`
	CreatedAt    string          `json:"createdAt"`
	BlockHeight  string          `json:"blockHeight"`
	BlockTime    string          `json:"blockTime"`
}

// HistoricalPnlResponse /v4/historical-pnl
type HistoricalPnlResponse struct {
	HistoricalPnl []PnlTicksResponseObject `json:"historicalPnl" validate:"required"`
}

// PerpetualMarket 永续市场参数与 24h 统计
type PerpetualMarket struct {
	ClobPairID                string                `json:"clobPairId"`
	Ticker                    string                `json:"ticker" validate:"required"`
	Status                    PerpetualMarketStatus `json:"status"`
	OraclePrice               decimal.NullDecimal   `json:"oraclePrice"`
	PriceChange24H            decimal.Decimal       `json:"priceChange24H"`
	Volume24H                 decimal.Decimal       `json:"volume24H"`
	Trades24H                 int64                 `json:"trades24H"`
	NextFundingRate           decimal.Decimal       `json:"nextFundingRate"`
	InitialMarginFraction     decimal.Decimal       `json:"initialMarginFraction"`
	MaintenanceMarginFraction decimal.Decimal       `json:"maintenanceMarginFraction"`
	OpenInterest              decimal.Decimal       `json:"openInterest"`
	AtomicResolution          int32                 `json:"atomicResolution"`
	QuantumConversionExponent int32                 `json:"quantumConversionExponent"`
	TickSize                  decimal.Decimal       `json:"tickSize"`
	StepSize                  decimal.Decimal       `json:"stepSize"`
	StepBaseQuantums          int64                 `json:"stepBaseQuantums"`
	SubticksPerTick           int64                 `json:"subticksPerTick"`
	MarketType                string                `json:"marketType,omitempty"`
}

// PerpetualMarketsResponse /v4/perpetualMarkets，按 ticker 索引
type PerpetualMarketsResponse struct {
	Markets map[string]PerpetualMarket `json:"markets" validate:"required"`
}

// OrderbookLevel 订单簿一档
type OrderbookLevel struct {
	Price decimal.Decimal `json:"price"`
	Size  decimal.Decimal `json:"size"`
}

// OrderbookResponse /v4/orderbooks/perpetualMarket/{market}
type OrderbookResponse struct {
	Bids []OrderbookLevel `json:"bids" validate:"required"`
	Asks []OrderbookLevel `json:"asks" validate:"required"`
}

// TradeResponseObject 公共成交
type TradeResponseObject struct {
	ID              string          `json:"id" validate:"required"`
	Side            OrderSide       `json:"side"`
	Size            decimal.Decimal `json:"size"`
	Price           decimal.Decimal `json:"price"`
	Type            FillType        `json:"type"`
	CreatedAt       string          `json:"createdAt"`
	CreatedAtHeight string          `json:"createdAtHeight"`
}

// TradeResponse /v4/trades/perpetualMarket/{market}
type TradeResponse struct {
	Trades []TradeResponseObject `json:"trades" validate:"required"`
}

// CandleResponseObject K 线
type CandleResponseObject struct {
	StartedAt            string           `json:"startedAt" validate:"required"`
	Ticker               string           `json:"ticker"`
	Resolution           CandleResolution `json:"resolution"`
	Low                  decimal.Decimal  `json:"low"`
	High                 decimal.Decimal  `json:"high"`
	Open                 decimal.Decimal  `json:"open"`
	Close                decimal.Decimal  `json:"close"`
	BaseTokenVolume      decimal.Decimal  `json:"baseTokenVolume"`
	USDVolume            decimal.Decimal  `json:"usdVolume"`
	Trades               int64            `json:"trades"`
	StartingOpenInterest decimal.Decimal  `json:"startingOpenInterest"`
}

// CandleResponse /v4/candles/perpetualMarket/{market}
type CandleResponse struct {
	Candles []CandleResponseObject `json:"candles" validate:"required"`
}

// HistoricalFundingResponseObject 资金费率记录
type HistoricalFundingResponseObject struct {
	Ticker            string          `json:"ticker" validate:"required"`
	Rate              decimal.Decimal `json:"rate"`
	Price             decimal.Decimal `json:"price"`
	EffectiveAt       string          `json:"effectiveAt"`
	EffectiveAtHeight string          `json:"effectiveAtHeight"`
}

// HistoricalFundingResponse /v4/historicalFunding/{market}
type HistoricalFundingResponse struct {
	HistoricalFunding []HistoricalFundingResponseObject `json:"historicalFunding" validate:"required"`
}

// SparklineResponse ticker -> 价格序列（新到旧）
type SparklineResponse map[string][]decimal.Decimal

// TimeResponse /v4/time
type TimeResponse struct {
	ISO   string  `json:"iso" validate:"required"`
	Epoch float64 `json:"epoch"`
}

// Time 解析 ISO 字段
func (r TimeResponse) Time() (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, r.ISO)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse indexer time %q: %w", r.ISO, err)
	}
	return t, nil
}

// HeightResponse /v4/height
type HeightResponse struct {
	Height string `json:"height" validate:"required"`
	Time   string `json:"time"`
}

// BlockHeight 将字符串高度解析为整数
func (r HeightResponse) BlockHeight() (int64, error) {
	h, err := strconv.ParseInt(r.Height, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse indexer height %q: %w", r.Height, err)
	}
	return h, nil
}

// ComplianceResponse /v4/screen
type ComplianceResponse struct {
	Restricted *bool  `json:"restricted" validate:"required"`
	Reason     string `json:"reason,omitempty"`
}

// IsRestricted 地址是否被限制
func (r ComplianceResponse) IsRestricted() bool {
	return r.Restricted != nil && *r.Restricted
}
