package p2p

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"minichain_go/blockchain"
)

// peerRequestTimeout bounds every round-trip to a peer so one slow node
// cannot stall a whole conflict-resolution round.
const peerRequestTimeout = 5 * time.Second

// HTTPChainFetcher fetches peer chains from their /chain endpoint. It
// satisfies consensus.ChainFetcher.
type HTTPChainFetcher struct {
	client *http.Client
}

// NewHTTPChainFetcher creates a fetcher with a bounded per-call timeout.
func NewHTTPChainFetcher() *HTTPChainFetcher {
	return &HTTPChainFetcher{
		client: &http.Client{Timeout: peerRequestTimeout},
	}
}

// FetchChain retrieves the full chain the peer at address is advertising.
// Transport failures, non-200 answers, and malformed payloads are all
// reported as errors; the resolver treats any of them as an unreachable peer
// and moves on.
func (f *HTTPChainFetcher) FetchChain(ctx context.Context, address string) ([]*blockchain.Block, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("http://%s/chain", address), nil)
	if err != nil {
		return nil, fmt.Errorf("building request for peer %s: %w", address, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("peer %s unreachable: %w", address, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("peer %s answered status %d", address, resp.StatusCode)
	}

	var payload ChainResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("peer %s sent a malformed chain: %w", address, err)
	}
	if payload.Length != len(payload.Chain) {
		return nil, fmt.Errorf("peer %s reported length %d but sent %d blocks", address, payload.Length, len(payload.Chain))
	}

	return payload.Chain, nil
}
