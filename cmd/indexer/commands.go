package main

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"strings"

	"github.com/newplayman/indexer-client/internal/config"
	"github.com/newplayman/indexer-client/pkg/indexer"
)

type env struct {
	client *indexer.Client
	cfg    *config.Config
}

type command struct {
	summary string
	run     func(e *env, args []string) (any, error)
}

var commands = map[string]command{
	"markets":     {"永续市场列表 [-market BTC-USD]", runMarkets},
	"orderbook":   {"订单簿 <market>", runOrderbook},
	"trades":      {"公共成交 <market> [-height N] [-limit N]", runTrades},
	"candles":     {"K 线 <market> -resolution 1HOUR [-from T] [-to T] [-limit N]", runCandles},
	"funding":     {"历史资金费率 <market> [-before T] [-height N] [-limit N]", runFunding},
	"sparklines":  {"价格迷你图 [-period ONE_DAY|SEVEN_DAYS]", runSparklines},
	"subaccounts": {"地址下的子账户 -address A [-limit N]", runSubaccounts},
	"subaccount":  {"单个子账户 -address A -number N", runSubaccount},
	"positions":   {"永续仓位 -address A -number N [-status OPEN]", runPositions},
	"assets":      {"资产仓位 -address A -number N", runAssets},
	"transfers":   {"划转记录 -address A -number N", runTransfers},
	"orders":      {"订单列表 -address A -number N [-ticker] [-side] [-status] [-type]", runOrders},
	"order":       {"按 ID 查询订单 <order-id>", runOrder},
	"fills":       {"成交记录 -address A -number N [-ticker]", runFills},
	"pnl":         {"历史盈亏 -address A -number N", runPnl},
	"time":        {"索引器服务器时间", runTime},
	"height":      {"索引器最新区块高度", runHeight},
	"screen":      {"地址合规检查 <address>", runScreen},
	"watch":       {"持续探测索引器健康状态并暴露 Prometheus 指标", runWatch},
}

// subaccountFlags 账户类命令共用的 -address / -number
type subaccountFlags struct {
	address string
	number  uint64
}

func addSubaccountFlags(fs *flag.FlagSet) *subaccountFlags {
	f := &subaccountFlags{}
	fs.StringVar(&f.address, "address", "", "dYdX 地址（必填）")
	fs.Uint64Var(&f.number, "number", 0, "子账户编号")
	return f
}

func (f *subaccountFlags) validate() error {
	if f.address == "" {
		return errors.New("-address 不能为空")
	}
	if f.number > math.MaxUint32 {
		return fmt.Errorf("-number 超出范围: %d", f.number)
	}
	return nil
}

// parseArgs 解析参数，positional 为需要的位置参数个数
func parseArgs(fs *flag.FlagSet, args []string, positional int) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	rest := fs.Args()
	if len(rest) != positional {
		return nil, fmt.Errorf("%s 需要 %d 个位置参数，实际 %d 个", fs.Name(), positional, len(rest))
	}
	return rest, nil
}

func runMarkets(e *env, args []string) (any, error) {
	fs := flag.NewFlagSet("markets", flag.ContinueOnError)
	market := optString(fs, "market", "只查询该市场")
	if _, err := parseArgs(fs, args, 0); err != nil {
		return nil, err
	}
	return e.client.GetPerpetualMarkets(market.Value())
}

func runOrderbook(e *env, args []string) (any, error) {
	fs := flag.NewFlagSet("orderbook", flag.ContinueOnError)
	rest, err := parseArgs(fs, args, 1)
	if err != nil {
		return nil, err
	}
	return e.client.GetPerpetualMarketOrderbook(rest[0])
}

func runTrades(e *env, args []string) (any, error) {
	fs := flag.NewFlagSet("trades", flag.ContinueOnError)
	height := optUint32(fs, "height", "只返回该高度及之前的成交")
	limit := optUint32(fs, "limit", "返回条数")
	rest, err := parseArgs(fs, reorder(args), 1)
	if err != nil {
		return nil, err
	}
	return e.client.GetPerpetualMarketTrades(rest[0], height.Value(), limit.Value())
}

func runCandles(e *env, args []string) (any, error) {
	fs := flag.NewFlagSet("candles", flag.ContinueOnError)
	resolution := fs.String("resolution", string(indexer.Resolution1Hour), "K 线周期: 1MIN, 5MINS, 15MINS, 30MINS, 1HOUR, 4HOURS, 1DAY")
	from := optTime(fs, "from", "起始时间 (RFC3339)")
	to := optTime(fs, "to", "结束时间 (RFC3339)")
	limit := optUint32(fs, "limit", "返回条数")
	rest, err := parseArgs(fs, reorder(args), 1)
	if err != nil {
		return nil, err
	}
	res := indexer.CandleResolution(strings.ToUpper(*resolution))
	return e.client.GetPerpetualMarketCandles(rest[0], res, from.Value(), to.Value(), limit.Value())
}

func runFunding(e *env, args []string) (any, error) {
	fs := flag.NewFlagSet("funding", flag.ContinueOnError)
	before := optTime(fs, "before", "只返回该时间及之前的记录 (RFC3339)")
	height := optUint32(fs, "height", "只返回该高度及之前的记录")
	limit := optUint32(fs, "limit", "返回条数")
	rest, err := parseArgs(fs, reorder(args), 1)
	if err != nil {
		return nil, err
	}
	return e.client.GetPerpetualMarketHistoricalFunding(rest[0], before.Value(), height.Value(), limit.Value())
}

func runSparklines(e *env, args []string) (any, error) {
	fs := flag.NewFlagSet("sparklines", flag.ContinueOnError)
	period := fs.String("period", string(indexer.TimePeriodOneDay), "时间窗口: ONE_DAY | SEVEN_DAYS")
	if _, err := parseArgs(fs, args, 0); err != nil {
		return nil, err
	}
	return e.client.GetPerpetualMarketSparklines(indexer.TimePeriod(strings.ToUpper(*period)))
}

func runSubaccounts(e *env, args []string) (any, error) {
	fs := flag.NewFlagSet("subaccounts", flag.ContinueOnError)
	sub := addSubaccountFlags(fs)
	limit := optUint32(fs, "limit", "返回条数")
	if _, err := parseArgs(fs, args, 0); err != nil {
		return nil, err
	}
	if err := sub.validate(); err != nil {
		return nil, err
	}
	return e.client.GetSubaccounts(sub.address, limit.Value())
}

func runSubaccount(e *env, args []string) (any, error) {
	fs := flag.NewFlagSet("subaccount", flag.ContinueOnError)
	sub := addSubaccountFlags(fs)
	if _, err := parseArgs(fs, args, 0); err != nil {
		return nil, err
	}
	if err := sub.validate(); err != nil {
		return nil, err
	}
	return e.client.GetSubaccount(sub.address, uint32(sub.number))
}

func positionRequest(name string, args []string) (indexer.PositionDetailsRequest, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	sub := addSubaccountFlags(fs)
	status := optEnum[indexer.PerpetualPositionStatus](fs, "status", "仓位状态: OPEN, CLOSED, LIQUIDATED")
	limit := optUint32(fs, "limit", "返回条数")
	height := optUint32(fs, "height", "只返回该高度及之前创建的仓位")
	before := optTime(fs, "before", "只返回该时间及之前创建的仓位 (RFC3339)")
	if _, err := parseArgs(fs, args, 0); err != nil {
		return indexer.PositionDetailsRequest{}, err
	}
	if err := sub.validate(); err != nil {
		return indexer.PositionDetailsRequest{}, err
	}
	return indexer.PositionDetailsRequest{
		Address:                 sub.address,
		SubaccountNumber:        uint32(sub.number),
		Status:                  status.Value(),
		Limit:                   limit.Value(),
		CreatedBeforeOrAtHeight: height.Value(),
		CreatedBeforeOrAt:       before.Value(),
	}, nil
}

func runPositions(e *env, args []string) (any, error) {
	req, err := positionRequest("positions", args)
	if err != nil {
		return nil, err
	}
	return e.client.GetSubaccountPerpetualPositions(req)
}

func runAssets(e *env, args []string) (any, error) {
	req, err := positionRequest("assets", args)
	if err != nil {
		return nil, err
	}
	return e.client.GetSubaccountAssetPositions(req)
}

func runTransfers(e *env, args []string) (any, error) {
	fs := flag.NewFlagSet("transfers", flag.ContinueOnError)
	sub := addSubaccountFlags(fs)
	limit := optUint32(fs, "limit", "返回条数")
	height := optUint32(fs, "height", "只返回该高度及之前的划转")
	before := optTime(fs, "before", "只返回该时间及之前的划转 (RFC3339)")
	if _, err := parseArgs(fs, args, 0); err != nil {
		return nil, err
	}
	if err := sub.validate(); err != nil {
		return nil, err
	}
	return e.client.GetSubaccountTransfers(sub.address, uint32(sub.number), limit.Value(), height.Value(), before.Value())
}

func runOrders(e *env, args []string) (any, error) {
	fs := flag.NewFlagSet("orders", flag.ContinueOnError)
	sub := addSubaccountFlags(fs)
	ticker := optString(fs, "ticker", "市场，例如 BTC-USD")
	side := optEnum[indexer.OrderSide](fs, "side", "BUY | SELL")
	status := optEnum[indexer.OrderStatus](fs, "status", "订单状态，例如 OPEN")
	orderType := optEnum[indexer.OrderType](fs, "type", "订单类型，例如 LIMIT")
	limit := optUint32(fs, "limit", "返回条数")
	gtb := optUint64(fs, "good-til-block", "goodTilBlock 上限")
	gtbt := optTime(fs, "good-til-time", "goodTilBlockTime 上限 (RFC3339)")
	latest := optBool(fs, "latest", "只返回每个订单的最新状态 (-latest=true)")
	if _, err := parseArgs(fs, args, 0); err != nil {
		return nil, err
	}
	if err := sub.validate(); err != nil {
		return nil, err
	}
	return e.client.GetSubaccountOrders(indexer.SubaccountOrdersRequest{
		Address:                    sub.address,
		SubaccountNumber:           uint32(sub.number),
		Ticker:                     ticker.Value(),
		TickerType:                 indexer.TickerPerpetual,
		Side:                       side.Value(),
		Status:                     status.Value(),
		OrderType:                  orderType.Value(),
		Limit:                      limit.Value(),
		GoodTilBlockBeforeOrAt:     gtb.Value(),
		GoodTilBlockTimeBeforeOrAt: gtbt.Value(),
		ReturnLatestOrders:         latest.Value(),
	})
}

func runOrder(e *env, args []string) (any, error) {
	fs := flag.NewFlagSet("order", flag.ContinueOnError)
	rest, err := parseArgs(fs, args, 1)
	if err != nil {
		return nil, err
	}
	return e.client.GetOrder(rest[0])
}

func runFills(e *env, args []string) (any, error) {
	fs := flag.NewFlagSet("fills", flag.ContinueOnError)
	sub := addSubaccountFlags(fs)
	ticker := optString(fs, "ticker", "市场，例如 BTC-USD")
	limit := optUint32(fs, "limit", "返回条数")
	height := optUint32(fs, "height", "只返回该高度及之前的成交")
	before := optTime(fs, "before", "只返回该时间及之前的成交 (RFC3339)")
	if _, err := parseArgs(fs, args, 0); err != nil {
		return nil, err
	}
	if err := sub.validate(); err != nil {
		return nil, err
	}
	return e.client.GetSubaccountFills(sub.address, uint32(sub.number), ticker.Value(), indexer.TickerPerpetual,
		limit.Value(), height.Value(), before.Value())
}

func runPnl(e *env, args []string) (any, error) {
	fs := flag.NewFlagSet("pnl", flag.ContinueOnError)
	sub := addSubaccountFlags(fs)
	before := optTime(fs, "before", "effectiveBeforeOrAt (RFC3339)")
	after := optTime(fs, "after", "effectiveAtOrAfter (RFC3339)")
	if _, err := parseArgs(fs, args, 0); err != nil {
		return nil, err
	}
	if err := sub.validate(); err != nil {
		return nil, err
	}
	return e.client.GetSubaccountHistoricalPnls(sub.address, uint32(sub.number), before.Value(), after.Value())
}

func runTime(e *env, args []string) (any, error) {
	if _, err := parseArgs(flag.NewFlagSet("time", flag.ContinueOnError), args, 0); err != nil {
		return nil, err
	}
	return e.client.GetTime()
}

func runHeight(e *env, args []string) (any, error) {
	if _, err := parseArgs(flag.NewFlagSet("height", flag.ContinueOnError), args, 0); err != nil {
		return nil, err
	}
	return e.client.GetHeight()
}

func runScreen(e *env, args []string) (any, error) {
	rest, err := parseArgs(flag.NewFlagSet("screen", flag.ContinueOnError), args, 1)
	if err != nil {
		return nil, err
	}
	return e.client.Screen(rest[0])
}

// reorder 把位置参数移到末尾，允许 "trades BTC-USD -limit 5" 的写法
func reorder(args []string) []string {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return args
	}
	return append(append([]string{}, args[1:]...), args[0])
}
