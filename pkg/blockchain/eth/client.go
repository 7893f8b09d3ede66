package eth

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
)

// Client is a read-only ethereum client to call credential registry view
// methods. Each verification run builds its own Client so concurrent runs do
// not share connection state.
type Client struct {
	client *ethclient.Client
	Config *ClientConfig
}

// ClientConfig eth client config
type ClientConfig struct {
	RPCResponseTimeout time.Duration `json:"rpc_response_time_out"`
}

// NewClient creates a Client instance.
func NewClient(client *ethclient.Client, c *ClientConfig) *Client {
	return &Client{client: client, Config: c}
}

// ChainID returns the chain id of the connected node
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	_ctx, cancel := context.WithTimeout(ctx, c.Config.RPCResponseTimeout)
	defer cancel()
	return c.client.ChainID(_ctx)
}

// Call executes fn against the underlying connection
func (c *Client) Call(fn func(*ethclient.Client) error) error {
	return fn(c.client)
}
