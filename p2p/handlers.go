package p2p

import (
	"encoding/json"
	"fmt"
	"net/http"

	"minichain_go/blockchain"
	"minichain_go/utils"
)

// NewTransactionRequest is used to parse the JSON request for submitting a
// transaction. Pointer fields distinguish a missing key from a zero value;
// presence is the only check the boundary performs.
type NewTransactionRequest struct {
	Sender    *string  `json:"sender"`
	Recipient *string  `json:"recipient"`
	Amount    *float64 `json:"amount"`
}

// RegisterNodesRequest is used to parse the JSON request for registering
// peer nodes.
type RegisterNodesRequest struct {
	Nodes []string `json:"nodes"`
}

// ChainResponse is the wire form of a full chain, shared by the /chain
// handler and the peer client that consumes other nodes' /chain endpoints.
type ChainResponse struct {
	Chain  []*blockchain.Block `json:"chain"`
	Length int                 `json:"length"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		utils.LogError("Error encoding response: %v", err)
	}
}

// PingHandler answers liveness probes.
func (s *Server) PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		utils.LogError("PingHandler: error writing response: %v", err)
	}
}

// NewTransactionHandler queues a transaction for the next forged block and
// reports which block will contain it.
func (s *Server) NewTransactionHandler(w http.ResponseWriter, r *http.Request) {
	var req NewTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Error decoding request body: "+err.Error(), http.StatusBadRequest)
		utils.LogError("NewTransactionHandler: error decoding request body: %v", err)
		return
	}
	defer r.Body.Close()

	if req.Sender == nil || req.Recipient == nil || req.Amount == nil {
		http.Error(w, "Missing values", http.StatusBadRequest)
		return
	}

	index := s.Chain.NewTransaction(*req.Sender, *req.Recipient, *req.Amount)
	utils.LogDebug("Transaction %s -> %s queued for block %d", *req.Sender, *req.Recipient, index)

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": fmt.Sprintf("Transaction will be added to Block %d", index),
	})
}

/**
 * MineHandler runs the proof search against the current last block, mints
 * the reward transaction to this node, and commits the resulting block. The
 * search runs under the request context, so a dropped connection cancels it
 * instead of leaving an unbounded loop behind.
 */
func (s *Server) MineHandler(w http.ResponseWriter, r *http.Request) {
	last, err := s.Chain.LastBlock()
	if err != nil {
		http.Error(w, "Chain invariant violated", http.StatusInternalServerError)
		utils.LogError("MineHandler: %v", err)
		return
	}

	// CPU-bound search, deliberately outside any ledger lock so submissions
	// and chain reads stay responsive while it runs.
	proof, err := blockchain.FindProof(r.Context(), last.Proof, s.Chain.Difficulty())
	if err != nil {
		http.Error(w, "Mining cancelled", http.StatusServiceUnavailable)
		utils.LogInfo("MineHandler: proof search cancelled: %v", err)
		return
	}

	s.Chain.NewTransaction(blockchain.MintAddress, s.Node.ID, blockchain.MiningReward)
	block := s.Chain.NewBlock(proof, "")

	utils.LogInfo("Forged block %d with %d transactions", block.Index, len(block.Transactions))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":       "New Block Forged",
		"index":         block.Index,
		"transactions":  block.Transactions,
		"proof":         block.Proof,
		"previous_hash": block.PreviousHash,
	})
}

// ChainHandler returns the full committed chain and its length.
func (s *Server) ChainHandler(w http.ResponseWriter, r *http.Request) {
	blocks := s.Chain.Blocks()
	writeJSON(w, http.StatusOK, ChainResponse{
		Chain:  blocks,
		Length: len(blocks),
	})
}

// MempoolHandler returns the transactions awaiting inclusion in a block.
func (s *Server) MempoolHandler(w http.ResponseWriter, r *http.Request) {
	pending := s.Chain.Pending()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": pending,
		"count":        len(pending),
	})
}

// RegisterNodesHandler adds one or more peer addresses to the known set.
func (s *Server) RegisterNodesHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterNodesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Error decoding request body: "+err.Error(), http.StatusBadRequest)
		utils.LogError("RegisterNodesHandler: error decoding request body: %v", err)
		return
	}
	defer r.Body.Close()

	if len(req.Nodes) == 0 {
		http.Error(w, "Error: Please supply a valid list of nodes", http.StatusBadRequest)
		return
	}

	for _, address := range req.Nodes {
		normalized, err := s.Node.RegisterPeer(address)
		if err != nil {
			http.Error(w, "Invalid node address: "+address, http.StatusBadRequest)
			utils.LogError("RegisterNodesHandler: rejecting %q: %v", address, err)
			return
		}
		utils.LogInfo("Registered peer %s", normalized)
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":     "New nodes have been added",
		"total_nodes": s.Node.Peers(),
	})
}

// ResolveHandler runs conflict resolution against every known peer and
// reports whether the local chain was replaced.
func (s *Server) ResolveHandler(w http.ResponseWriter, r *http.Request) {
	replaced := s.Resolver.ResolveConflicts(r.Context(), s.Node.Peers())

	if replaced {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message":   "Our chain was replaced",
			"new_chain": s.Chain.Blocks(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Our chain is authoritative",
		"chain":   s.Chain.Blocks(),
	})
}

// GetNodesHandler returns the registered peer addresses.
func (s *Server) GetNodesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"nodes": s.Node.Peers(),
		"count": s.Node.PeerCount(),
	})
}
