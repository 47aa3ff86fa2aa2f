package indexer

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newplayman/indexer-client/pkg/gateway"
	"github.com/newplayman/indexer-client/pkg/optional"
)

var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

const subaccountBody = `{"subaccount":{
	"address":"dydx1abc",
	"subaccountNumber":5,
	"equity":"1012.5",
	"freeCollateral":"900.25",
	"openPerpetualPositions":{
		"BTC-USD":{"market":"BTC-USD","status":"OPEN","side":"LONG","size":"0.01","maxSize":"0.02",
			"entryPrice":"65000","realizedPnl":"0","createdAt":"2024-03-01T00:00:00.000Z","createdAtHeight":"100",
			"sumOpen":"0.01","sumClose":"0","netFunding":"-0.12","unrealizedPnl":"12.5","closedAt":null,
			"exitPrice":null,"subaccountNumber":5}
	},
	"assetPositions":{"USDC":{"symbol":"USDC","side":"LONG","size":"1000","assetId":"0","subaccountNumber":5}},
	"marginEnabled":true,
	"updatedAtHeight":"120"
}}`

func TestGetSubaccount(t *testing.T) {
	f := newFakeIndexer(t, subaccountBody)
	c := f.client(t)

	resp, err := c.GetSubaccount("dydx1abc", 5)
	require.NoError(t, err)

	req := f.last(t)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/v4/addresses/dydx1abc/subaccountNumber/5", req.Path)
	assert.Equal(t, "", req.Query)

	sub := resp.Subaccount
	assert.Equal(t, "dydx1abc", sub.Address)
	assert.EqualValues(t, 5, sub.SubaccountNumber)
	assert.True(t, sub.Equity.Equal(decimal.RequireFromString("1012.5")))
	assert.True(t, sub.MarginEnabled)

	pos, ok := sub.OpenPerpetualPositions["BTC-USD"]
	require.True(t, ok)
	assert.Equal(t, PositionStatusOpen, pos.Status)
	assert.Equal(t, PositionLong, pos.Side)
	assert.True(t, pos.NetFunding.Equal(decimal.RequireFromString("-0.12")))
	assert.False(t, pos.ExitPrice.Valid)
	assert.Nil(t, pos.ClosedAt)

	usdc := sub.AssetPositions["USDC"]
	assert.Equal(t, "USDC", usdc.Symbol)
	assert.True(t, usdc.Size.Equal(decimal.NewFromInt(1000)))
}

func TestGetSubaccountErrorBody(t *testing.T) {
	f := newFakeIndexer(t, `{"errors":[{"msg":"No subaccount found with address dydx1abc and subaccountNumber 5"}]}`)
	f.respond(http.StatusNotFound, f.body)
	c := f.client(t)

	resp, err := c.GetSubaccount("dydx1abc", 5)
	require.Error(t, err)
	var reqErr *gateway.RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, gateway.FailureDecode, reqErr.Kind)
	if diff := cmp.Diff(SubaccountResponse{}, resp, decimalComparer); diff != "" {
		t.Fatalf("expected zero value on failure (-want +got):\n%s", diff)
	}
}

func TestGetSubaccountIncompletePosition(t *testing.T) {
	body := strings.Replace(subaccountBody, `{"market":"BTC-USD","status":"OPEN"`, `{"status":"OPEN"`, 1)
	require.NotEqual(t, subaccountBody, body)
	f := newFakeIndexer(t, body)
	c := f.client(t)

	resp, err := c.GetSubaccount("dydx1abc", 5)
	var reqErr *gateway.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, gateway.FailureDecode, reqErr.Kind)
	assert.Empty(t, resp.Subaccount.Address)
	assert.Nil(t, resp.Subaccount.OpenPerpetualPositions)
}

func TestGetSubaccountEscapesAddress(t *testing.T) {
	f := newFakeIndexer(t, subaccountBody)
	c := f.client(t)

	_, err := c.GetSubaccount("dydx1abc?limit=1#", 0)
	require.NoError(t, err)

	req := f.last(t)
	assert.Equal(t, "/v4/addresses/dydx1abc?limit=1#/subaccountNumber/0", req.Path)
	assert.Equal(t, "", req.Query)
}

func TestGetSubaccounts(t *testing.T) {
	f := newFakeIndexer(t, `{"subaccounts":[{"address":"dydx1abc","subaccountNumber":0,"equity":"1","freeCollateral":"1",
		"openPerpetualPositions":{},"assetPositions":{},"marginEnabled":true}],"totalTradingRewards":"0.5"}`)
	c := f.client(t)

	resp, err := c.GetSubaccounts("dydx1abc", optional.None[uint32]())
	require.NoError(t, err)
	assert.Equal(t, "/v4/addresses/dydx1abc", f.last(t).Path)
	assert.Equal(t, "", f.last(t).Query)
	require.Len(t, resp.Subaccounts, 1)
	assert.True(t, resp.TotalTradingRewards.Equal(decimal.RequireFromString("0.5")))

	_, err = c.GetSubaccounts("dydx1abc", optional.Some(uint32(3)))
	require.NoError(t, err)
	assert.Equal(t, "limit=3", f.last(t).Query)
}

func TestGetSubaccountOrdersQuery(t *testing.T) {
	f := newFakeIndexer(t, `[{"id":"order-1","subaccountId":"sub-1","clientId":"42","clobPairId":"0","side":"BUY",
		"size":"0.01","totalFilled":"0","price":"65000","type":"LIMIT","reduceOnly":false,"orderFlags":"64",
		"goodTilBlockTime":"2024-03-02T00:00:00.000Z","clientMetadata":"0","timeInForce":"GTT","status":"OPEN",
		"postOnly":true,"ticker":"BTC-USD","subaccountNumber":5}]`)
	c := f.client(t)

	orders, err := c.GetSubaccountOrders(SubaccountOrdersRequest{
		Address:          "dydx1abc",
		SubaccountNumber: 5,
		Limit:            optional.Some(uint32(10)),
	})
	require.NoError(t, err)

	query := f.last(t).Query
	assert.Equal(t, "/v4/orders", f.last(t).Path)
	assert.True(t, strings.HasPrefix(query, "address=dydx1abc&subAccountNumber=5"), query)
	assert.Contains(t, query, "limit=10")
	assert.NotContains(t, query, "side=")
	assert.Equal(t, "address=dydx1abc&subAccountNumber=5&tickerType=PERPETUAL&limit=10", query)

	require.Len(t, orders, 1)
	assert.Equal(t, OrderSideBuy, orders[0].Side)
	assert.Equal(t, TimeInForceGTT, orders[0].TimeInForce)
	assert.Equal(t, OrderStatusOpen, orders[0].Status)
	assert.False(t, orders[0].TriggerPrice.Valid)
}

func TestGetSubaccountOrdersAllFilters(t *testing.T) {
	f := newFakeIndexer(t, `[]`)
	c := f.client(t)

	_, err := c.GetSubaccountOrders(SubaccountOrdersRequest{
		Address:                    "dydx1abc",
		SubaccountNumber:           0,
		Ticker:                     optional.Some("ETH-USD"),
		TickerType:                 TickerPerpetual,
		Side:                       optional.Some(OrderSideSell),
		Status:                     optional.Some(OrderStatusBestEffortCanceled),
		OrderType:                  optional.Some(OrderTypeStopLimit),
		Limit:                      optional.Some(uint32(50)),
		GoodTilBlockBeforeOrAt:     optional.Some(uint64(123456)),
		GoodTilBlockTimeBeforeOrAt: optional.Some(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
		ReturnLatestOrders:         optional.Some(true),
	})
	require.NoError(t, err)
	want := "address=dydx1abc&subAccountNumber=0&ticker=ETH-USD&tickerType=PERPETUAL&side=SELL" +
		"&status=BEST_EFFORT_CANCELED&orderType=STOP_LIMIT&limit=50&goodTilBlockBeforeOrAt=123456" +
		"&goodTilBlockTimeBeforeOrAt=2024-03-01T00:00:00Z&returnLatestOrders=true"
	assert.Equal(t, want, f.last(t).Query)
}

func TestGetSubaccountOrdersRejectsErrorElement(t *testing.T) {
	f := newFakeIndexer(t, `[{"ticker":"BTC-USD"}]`)
	c := f.client(t)
	orders, err := c.GetSubaccountOrders(SubaccountOrdersRequest{Address: "dydx1abc"})
	assert.True(t, gateway.IsRequestError(err))
	assert.Nil(t, orders)
}

func TestGetOrder(t *testing.T) {
	f := newFakeIndexer(t, `{"id":"abc-123","side":"SELL","size":"1","price":"10","type":"STOP_LIMIT",
		"triggerPrice":"9.5","timeInForce":"IOC","status":"UNTRIGGERED","ticker":"ETH-USD"}`)
	c := f.client(t)

	order, err := c.GetOrder("abc-123")
	require.NoError(t, err)
	assert.Equal(t, "/v4/orders/abc-123", f.last(t).Path)
	assert.Equal(t, OrderStatusUntriggered, order.Status)
	require.True(t, order.TriggerPrice.Valid)
	assert.True(t, order.TriggerPrice.Decimal.Equal(decimal.RequireFromString("9.5")))
}

func TestPositionQueries(t *testing.T) {
	f := newFakeIndexer(t, `{"positions":[]}`)
	c := f.client(t)
	req := PositionDetailsRequest{
		Address:           "dydx1abc",
		SubaccountNumber:  1,
		Status:            optional.Some(PositionStatusClosed),
		CreatedBeforeOrAt: optional.Some(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)),
	}

	perp, err := c.GetSubaccountPerpetualPositions(req)
	require.NoError(t, err)
	assert.Empty(t, perp.Positions)
	assert.Equal(t, "/v4/perpetualPositions", f.last(t).Path)
	assert.Equal(t, "address=dydx1abc&subAccountNumber=1&status=CLOSED&createdBeforeOrAt=2024-01-02T03:04:05Z", f.last(t).Query)

	_, err = c.GetSubaccountAssetPositions(req)
	require.NoError(t, err)
	assert.Equal(t, "/v4/assetPositions", f.last(t).Path)
}

func TestGetSubaccountTransfers(t *testing.T) {
	f := newFakeIndexer(t, `{"transfers":[{"id":"t1","sender":{"address":"dydx1src"},
		"recipient":{"address":"dydx1abc","subaccountNumber":0},"size":"25","createdAt":"2024-03-01T00:00:00.000Z",
		"createdAtHeight":"10","symbol":"USDC","type":"DEPOSIT","transactionHash":"0xabc"}]}`)
	c := f.client(t)

	resp, err := c.GetSubaccountTransfers("dydx1abc", 0, optional.Some(uint32(5)),
		optional.Some(uint32(1000)), optional.None[time.Time]())
	require.NoError(t, err)
	assert.Equal(t, "address=dydx1abc&subAccountNumber=0&limit=5&createdBeforeOrAtHeight=1000", f.last(t).Query)
	require.Len(t, resp.Transfers, 1)
	assert.Equal(t, TransferDeposit, resp.Transfers[0].Type)
	assert.Nil(t, resp.Transfers[0].Sender.SubaccountNumber)
	require.NotNil(t, resp.Transfers[0].Recipient.SubaccountNumber)
}

func TestGetSubaccountFills(t *testing.T) {
	f := newFakeIndexer(t, `{"fills":[{"id":"f1","side":"BUY","liquidity":"TAKER","type":"LIMIT","market":"BTC-USD",
		"marketType":"PERPETUAL","price":"65000","size":"0.01","fee":"0.325","createdAt":"2024-03-01T00:00:00.000Z",
		"createdAtHeight":"11","orderId":"order-1","subaccountNumber":0}]}`)
	c := f.client(t)

	resp, err := c.GetSubaccountFills("dydx1abc", 0, optional.Some("BTC-USD"), TickerPerpetual,
		optional.None[uint32](), optional.None[uint32](), optional.None[time.Time]())
	require.NoError(t, err)
	assert.Equal(t, "/v4/fills", f.last(t).Path)
	assert.Equal(t, "address=dydx1abc&subAccountNumber=0&ticker=BTC-USD&tickerType=PERPETUAL", f.last(t).Query)
	require.Len(t, resp.Fills, 1)
	assert.Equal(t, LiquidityTaker, resp.Fills[0].Liquidity)
	assert.True(t, resp.Fills[0].Fee.Equal(decimal.RequireFromString("0.325")))
}

func TestGetSubaccountHistoricalPnls(t *testing.T) {
	f := newFakeIndexer(t, `{"historicalPnl":[{"id":"p1","subaccountId":"sub-1","equity":"100","totalPnl":"5",
		"netTransfers":"95","createdAt":"2024-03-01T00:00:00.000Z","blockHeight":"12","blockTime":"2024-03-01T00:00:00.000Z"}]}`)
	c := f.client(t)

	after := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	resp, err := c.GetSubaccountHistoricalPnls("dydx1abc", 0, optional.None[time.Time](), optional.Some(after))
	require.NoError(t, err)
	assert.Equal(t, "/v4/historical-pnl", f.last(t).Path)
	assert.Equal(t, "address=dydx1abc&subAccountNumber=0&effectiveAtOrAfter=2024-02-01T00:00:00Z", f.last(t).Query)
	require.Len(t, resp.HistoricalPnl, 1)
	assert.True(t, resp.HistoricalPnl[0].TotalPnl.Equal(decimal.NewFromInt(5)))
}
