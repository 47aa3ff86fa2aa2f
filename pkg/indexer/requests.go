package indexer

import (
	"time"

	"github.com/newplayman/indexer-client/pkg/gateway"
	"github.com/newplayman/indexer-client/pkg/optional"
)

// PositionDetailsRequest 仓位查询条件，永续仓位与资产仓位共用。
type PositionDetailsRequest struct {
	Address                 string
	SubaccountNumber        uint32
	Status                  optional.Value[PerpetualPositionStatus]
	Limit                   optional.Value[uint32]
	CreatedBeforeOrAtHeight optional.Value[uint32]
	CreatedBeforeOrAt       optional.Value[time.Time]
}

// Params 按固定顺序生成查询参数
func (r PositionDetailsRequest) Params() gateway.Params {
	return gateway.Params{
		gateway.Required("address", r.Address),
		gateway.Required("sub_account_number", r.SubaccountNumber),
		gateway.Optional("status", r.Status),
		gateway.Optional("limit", r.Limit),
		gateway.Optional("created_before_or_at_height", r.CreatedBeforeOrAtHeight),
		gateway.Optional("created_before_or_at", r.CreatedBeforeOrAt),
	}
}

// SubaccountOrdersRequest 订单列表查询条件。TickerType 为空时按 PERPETUAL 发送。
type SubaccountOrdersRequest struct {
	Address                    string
	SubaccountNumber           uint32
	Ticker                     optional.Value[string]
	TickerType                 TickerType
	Side                       optional.Value[OrderSide]
	Status                     optional.Value[OrderStatus]
	OrderType                  optional.Value[OrderType]
	Limit                      optional.Value[uint32]
	GoodTilBlockBeforeOrAt     optional.Value[uint64]
	GoodTilBlockTimeBeforeOrAt optional.Value[time.Time]
	ReturnLatestOrders         optional.Value[bool]
}

// Params 按固定顺序生成查询参数
func (r SubaccountOrdersRequest) Params() gateway.Params {
	tickerType := r.TickerType
	if tickerType == "" {
		tickerType = TickerPerpetual
	}
	return gateway.Params{
		gateway.Required("address", r.Address),
		gateway.Required("sub_account_number", r.SubaccountNumber),
		gateway.Optional("ticker", r.Ticker),
		gateway.Required("ticker_type", tickerType),
		gateway.Optional("side", r.Side),
		gateway.Optional("status", r.Status),
		gateway.Optional("order_type", r.OrderType),
		gateway.Optional("limit", r.Limit),
		gateway.Optional("good_til_block_before_or_at", r.GoodTilBlockBeforeOrAt),
		gateway.Optional("good_til_block_time_before_or_at", r.GoodTilBlockTimeBeforeOrAt),
		gateway.Optional("return_latest_orders", r.ReturnLatestOrders),
	}
}
