// Package chain implements the typed gateway over the marketplace
// contract using go-ethereum. All fixed-point conversion between
// on-chain integers and human decimals happens in this package.
package chain

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/ethclient"
)

// Dial connects to the RPC endpoint and verifies it serves the
// expected chain before handing the client to the gateway.
func Dial(ctx context.Context, rpcURL string, chainID int64) (*ethclient.Client, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("chain: dial %s: %w", rpcURL, err)
	}

	got, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("chain: chain id: %w", err)
	}
	if got.Int64() != chainID {
		client.Close()
		return nil, fmt.Errorf("chain: endpoint serves chain %d, config expects %d", got.Int64(), chainID)
	}

	return client, nil
}
