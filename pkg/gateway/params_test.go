package gateway

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/newplayman/indexer-client/pkg/optional"
)

func TestToCamelCase(t *testing.T) {
	cases := map[string]string{
		"sub_account_number":               "subAccountNumber",
		"address":                          "address",
		"created_before_or_at_height":      "createdBeforeOrAtHeight",
		"good_til_block_time_before_or_at": "goodTilBlockTimeBeforeOrAt",
		"":                                 "",
		"trailing_":                        "trailing",
		"a__b":                             "aB",
		"from_i_s_o":                       "fromISO",
	}
	for in, want := range cases {
		if got := ToCamelCase(in); got != want {
			t.Fatalf("ToCamelCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestToCamelCaseIdempotent(t *testing.T) {
	for _, in := range []string{"subAccountNumber", "tickerType", "createdBeforeOrAt", "market", "x"} {
		assert.Equal(t, in, ToCamelCase(in))
		assert.Equal(t, ToCamelCase(in), ToCamelCase(ToCamelCase(in)))
	}
}

type side string

func (s side) String() string { return string(s) }

func TestParamsEncodeOrderAndAbsence(t *testing.T) {
	params := Params{
		Required("address", "dydx1abc"),
		Required("sub_account_number", uint32(5)),
		Optional("side", optional.None[side]()),
		Optional("limit", optional.Some(uint32(10))),
	}
	assert.Equal(t, "address=dydx1abc&subAccountNumber=5&limit=10", params.Encode())
	assert.Equal(t, []string{"address", "subAccountNumber", "limit"}, params.Keys())
	assert.NotContains(t, params.Encode(), "side=")
}

func TestParamsEncodeKeepsCallerOrder(t *testing.T) {
	params := Params{
		Required("zeta", 1),
		Required("alpha", 2),
		Required("mid", 3),
	}
	assert.Equal(t, "zeta=1&alpha=2&mid=3", params.Encode())
}

func TestParamsEncodeEmptyStringIsPresent(t *testing.T) {
	params := Params{
		Required("ticker", ""),
		Optional("status", optional.Some("")),
		Optional("limit", optional.None[int]()),
	}
	assert.Equal(t, "ticker=&status=", params.Encode())
}

func TestParamsEncodeAllAbsent(t *testing.T) {
	params := Params{
		Optional("limit", optional.None[uint32]()),
		Optional("side", optional.None[side]()),
	}
	assert.Equal(t, "", params.Encode())
	assert.Empty(t, params.Keys())
	assert.Equal(t, "", Params(nil).Encode())
}

func TestFormatValue(t *testing.T) {
	ts := time.Date(2024, 3, 1, 8, 30, 0, 0, time.FixedZone("UTC+8", 8*3600))
	cases := []struct {
		name string
		in   any
		want string
	}{
		{"string", "BTC-USD", "BTC-USD"},
		{"stringer", side("BUY"), "BUY"},
		{"bool", true, "true"},
		{"int", -3, "-3"},
		{"int64", int64(1 << 40), "1099511627776"},
		{"uint32", uint32(7), "7"},
		{"float", 0.25, "0.25"},
		{"float no exponent", 1e21, "1000000000000000000000"},
		{"time utc", ts, "2024-03-01T00:30:00Z"},
		{"decimal", decimal.RequireFromString("1.50"), "1.5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, formatValue(tc.in))
		})
	}
}
