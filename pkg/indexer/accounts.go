package indexer

import (
	"fmt"
	"time"

	"github.com/newplayman/indexer-client/pkg/gateway"
	"github.com/newplayman/indexer-client/pkg/optional"
)

// GetSubaccounts 查询地址下的全部子账户
func (c *Client) GetSubaccounts(address string, limit optional.Value[uint32]) (AddressResponse, error) {
	return gateway.Get[AddressResponse](c.RESTHandler(),
		fmt.Sprintf("/v4/addresses/%s", gateway.PathSegment(address)),
		gateway.Params{
			gateway.Optional("limit", limit),
		})
}

// GetSubaccount 查询单个子账户
func (c *Client) GetSubaccount(address string, subaccountNumber uint32) (SubaccountResponse, error) {
	return gateway.Get[SubaccountResponse](c.RESTHandler(),
		fmt.Sprintf("/v4/addresses/%s/subaccountNumber/%d", gateway.PathSegment(address), subaccountNumber),
		nil)
}

// GetSubaccountPerpetualPositions 查询永续仓位
func (c *Client) GetSubaccountPerpetualPositions(req PositionDetailsRequest) (PerpetualPositionResponse, error) {
	return gateway.Get[PerpetualPositionResponse](c.RESTHandler(), "/v4/perpetualPositions", req.Params())
}

// GetSubaccountAssetPositions 查询资产仓位
func (c *Client) GetSubaccountAssetPositions(req PositionDetailsRequest) (AssetPositionResponse, error) {
	return gateway.Get[AssetPositionResponse](c.RESTHandler(), "/v4/assetPositions", req.Params())
}

// GetSubaccountTransfers 查询划转记录
func (c *Client) GetSubaccountTransfers(
	address string,
	subaccountNumber uint32,
	limit optional.Value[uint32],
	createdBeforeOrAtHeight optional.Value[uint32],
	createdBeforeOrAt optional.Value[time.Time],
) (TransferResponse, error) {
	return gateway.Get[TransferResponse](c.RESTHandler(), "/v4/transfers", gateway.Params{
		gateway.Required("address", address),
		gateway.Required("sub_account_number", subaccountNumber),
		gateway.Optional("limit", limit),
		gateway.Optional("created_before_or_at_height", createdBeforeOrAtHeight),
		gateway.Optional("created_before_or_at", createdBeforeOrAt),
	})
}

// GetSubaccountOrders 查询订单列表（响应为数组）
func (c *Client) GetSubaccountOrders(req SubaccountOrdersRequest) ([]OrderResponseObject, error) {
	return gateway.Get[[]OrderResponseObject](c.RESTHandler(), "/v4/orders", req.Params())
}

// GetOrder 按订单 ID 查询
func (c *Client) GetOrder(orderID string) (OrderResponseObject, error) {
	return gateway.Get[OrderResponseObject](c.RESTHandler(),
		fmt.Sprintf("/v4/orders/%s", gateway.PathSegment(orderID)), nil)
}

// GetSubaccountFills 查询成交记录
func (c *Client) GetSubaccountFills(
	address string,
	subaccountNumber uint32,
	ticker optional.Value[string],
	tickerType TickerType,
	limit optional.Value[uint32],
	createdBeforeOrAtHeight optional.Value[uint32],
	createdBeforeOrAt optional.Value[time.Time],
) (FillResponse, error) {
	return gateway.Get[FillResponse](c.RESTHandler(), "/v4/fills", gateway.Params{
		gateway.Required("address", address),
		gateway.Required("sub_account_number", subaccountNumber),
		gateway.Optional("ticker", ticker),
		gateway.Required("ticker_type", tickerType),
		gateway.Optional("limit", limit),
		gateway.Optional("created_before_or_at_height", createdBeforeOrAtHeight),
		gateway.Optional("created_before_or_at", createdBeforeOrAt),
	})
}

// GetSubaccountHistoricalPnls 查询历史盈亏
func (c *Client) GetSubaccountHistoricalPnls(
	address string,
	subaccountNumber uint32,
	effectiveBeforeOrAt optional.Value[time.Time],
	effectiveAtOrAfter optional.Value[time.Time],
) (HistoricalPnlResponse, error) {
	return gateway.Get[HistoricalPnlResponse](c.RESTHandler(), "/v4/historical-pnl", gateway.Params{
		gateway.Required("address", address),
		gateway.Required("sub_account_number", subaccountNumber),
		gateway.Optional("effective_before_or_at", effectiveBeforeOrAt),
		gateway.Optional("effective_at_or_after", effectiveAtOrAfter),
	})
}
