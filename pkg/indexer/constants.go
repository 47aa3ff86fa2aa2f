package indexer

// 网络预设
const (
	MainnetRESTEndpoint      = "https://indexer.dydx.trade"
	MainnetWebsocketEndpoint = "wss://indexer.dydx.trade/v4/ws"
	TestnetRESTEndpoint      = "https://indexer.v4testnet.dydx.exchange"
	TestnetWebsocketEndpoint = "wss://indexer.v4testnet.dydx.exchange/v4/ws"
)

// TickerType 行情代码类型
type TickerType string

const (
	TickerPerpetual TickerType = "PERPETUAL"
)

func (t TickerType) String() string { return string(t) }

// PerpetualPositionStatus 永续仓位状态
type PerpetualPositionStatus string

const (
	PositionStatusOpen       PerpetualPositionStatus = "OPEN"
	PositionStatusClosed     PerpetualPositionStatus = "CLOSED"
	PositionStatusLiquidated PerpetualPositionStatus = "LIQUIDATED"
)

func (s PerpetualPositionStatus) String() string { return string(s) }

// PositionSide 仓位方向
type PositionSide string

const (
	PositionLong  PositionSide = "LONG"
	PositionShort PositionSide = "SHORT"
)

func (s PositionSide) String() string { return string(s) }

// OrderStatus 订单状态
type OrderStatus string

const (
	OrderStatusBestEffortOpened   OrderStatus = "BEST_EFFORT_OPENED"
	OrderStatusOpen               OrderStatus = "OPEN"
	OrderStatusFilled             OrderStatus = "FILLED"
	OrderStatusBestEffortCanceled OrderStatus = "BEST_EFFORT_CANCELED"
	OrderStatusCanceled           OrderStatus = "CANCELED"
	OrderStatusUntriggered        OrderStatus = "UNTRIGGERED"
)

func (s OrderStatus) String() string { return string(s) }

// OrderSide 买卖方向
type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

func (s OrderSide) String() string { return string(s) }

// OrderType 订单类型
type OrderType string

const (
	OrderTypeLimit            OrderType = "LIMIT"
	OrderTypeMarket           OrderType = "MARKET"
	OrderTypeStopLimit        OrderType = "STOP_LIMIT"
	OrderTypeTakeProfitLimit  OrderType = "TAKE_PROFIT_LIMIT"
	OrderTypeStopMarket       OrderType = "STOP_MARKET"
	OrderTypeTakeProfitMarket OrderType = "TAKE_PROFIT_MARKET"
)

func (t OrderType) String() string { return string(t) }

// OrderTimeInForce 订单有效期类型
type OrderTimeInForce string

const (
	TimeInForceGTT OrderTimeInForce = "GTT"
	TimeInForceIOC OrderTimeInForce = "IOC"
	TimeInForceFOK OrderTimeInForce = "FOK"
)

func (t OrderTimeInForce) String() string { return string(t) }

// TimePeriod sparkline 时间窗口
type TimePeriod string

const (
	TimePeriodOneDay    TimePeriod = "ONE_DAY"
	TimePeriodSevenDays TimePeriod = "SEVEN_DAYS"
)

func (p TimePeriod) String() string { return string(p) }

// CandleResolution K 线周期
type CandleResolution string

const (
	Resolution1Min   CandleResolution = "1MIN"
	Resolution5Mins  CandleResolution = "5MINS"
	Resolution15Mins CandleResolution = "15MINS"
	Resolution30Mins CandleResolution = "30MINS"
	Resolution1Hour  CandleResolution = "1HOUR"
	Resolution4Hours CandleResolution = "4HOURS"
	Resolution1Day   CandleResolution = "1DAY"
)

func (r CandleResolution) String() string { return string(r) }

// Liquidity 成交中的流动性角色
type Liquidity string

const (
	LiquidityTaker Liquidity = "TAKER"
	LiquidityMaker Liquidity = "MAKER"
)

// FillType 成交类型
type FillType string

const (
	FillTypeLimit       FillType = "LIMIT"
	FillTypeLiquidated  FillType = "LIQUIDATED"
	FillTypeLiquidation FillType = "LIQUIDATION"
	FillTypeDeleveraged FillType = "DELEVERAGED"
	FillTypeOffsetting  FillType = "OFFSETTING"
)

// TransferType 划转类型
type TransferType string

const (
	TransferIn         TransferType = "TRANSFER_IN"
	TransferOut        TransferType = "TRANSFER_OUT"
	TransferDeposit    TransferType = "DEPOSIT"
	TransferWithdrawal TransferType = "WITHDRAWAL"
)

// PerpetualMarketStatus 市场状态
type PerpetualMarketStatus string

const (
	MarketStatusActive          PerpetualMarketStatus = "ACTIVE"
	MarketStatusPaused          PerpetualMarketStatus = "PAUSED"
	MarketStatusCancelOnly      PerpetualMarketStatus = "CANCEL_ONLY"
	MarketStatusPostOnly        PerpetualMarketStatus = "POST_ONLY"
	MarketStatusInitializing    PerpetualMarketStatus = "INITIALIZING"
	MarketStatusFinalSettlement PerpetualMarketStatus = "FINAL_SETTLEMENT"
)
