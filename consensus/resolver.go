package consensus

import (
	"context"

	"minichain_go/blockchain"
	"minichain_go/utils"
)

// ChainFetcher retrieves the full chain a peer is advertising.
// Implementations live at the transport layer; any transport or decode
// failure is reported as an error and makes the resolver skip that peer.
type ChainFetcher interface {
	FetchChain(ctx context.Context, address string) ([]*blockchain.Block, error)
}

// Resolver applies the longest-valid-chain rule over a set of peer ledgers.
type Resolver struct {
	chain   *blockchain.Blockchain
	fetcher ChainFetcher
}

// NewResolver creates a resolver for the given ledger.
func NewResolver(chain *blockchain.Blockchain, fetcher ChainFetcher) *Resolver {
	return &Resolver{
		chain:   chain,
		fetcher: fetcher,
	}
}

/**
 * ResolveConflicts consults every peer and adopts the longest chain that is
 * strictly longer than the local one and passes full validation. An
 * unreachable peer or one advertising an invalid chain never aborts the
 * round; it is skipped and the remaining peers are still consulted. The
 * replacement, if any, happens once, after all peers have answered or
 * failed.
 *
 * Among peers advertising equally long valid chains, the first in iteration
 * order wins.
 *
 * Returns true when the local chain was replaced.
 */
func (r *Resolver) ResolveConflicts(ctx context.Context, peers []string) bool {
	maxLength := r.chain.Length()
	var best []*blockchain.Block

	for _, peer := range peers {
		candidate, err := r.fetcher.FetchChain(ctx, peer)
		if err != nil {
			utils.LogDebug("Skipping peer %s: %v", peer, err)
			continue
		}
		if len(candidate) <= maxLength {
			continue
		}
		if !blockchain.IsValidChain(candidate, r.chain.Difficulty()) {
			utils.LogInfo("Peer %s advertised an invalid chain of length %d", peer, len(candidate))
			continue
		}

		maxLength = len(candidate)
		best = candidate
	}

	if best == nil {
		return false
	}

	// ReplaceChain re-checks length under the ledger lock: a block forged
	// between the scan and the swap can make the local chain catch up, in
	// which case the candidate no longer wins.
	if !r.chain.ReplaceChain(best) {
		return false
	}

	utils.LogInfo("Local chain replaced by a peer chain of length %d", maxLength)
	return true
}
