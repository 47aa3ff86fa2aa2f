package indexer

import (
	"github.com/newplayman/indexer-client/pkg/gateway"
)

// GetTime 索引器服务器时间
func (c *Client) GetTime() (TimeResponse, error) {
	return gateway.Get[TimeResponse](c.RESTHandler(), "/v4/time", nil)
}

// GetHeight 索引器已处理的最新区块高度
func (c *Client) GetHeight() (HeightResponse, error) {
	return gateway.Get[HeightResponse](c.RESTHandler(), "/v4/height", nil)
}

// Screen 地址合规检查
func (c *Client) Screen(address string) (ComplianceResponse, error) {
	return gateway.Get[ComplianceResponse](c.RESTHandler(), "/v4/screen", gateway.Params{
		gateway.Required("address", address),
	})
}
