package blockchain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

/**
 * Block is one committed unit of the ledger. It is immutable once appended:
 * nothing in this package mutates a block after NewBlock returns it, and the
 * digest of its encoding is what the next block links to.
 */
type Block struct {
	Index        uint64         `json:"index"`         // 1-based position in the chain
	Timestamp    string         `json:"timestamp"`     // Time when the block was created (UTC, RFC3339)
	Transactions []*Transaction `json:"transactions"`  // Pending pool captured at commit time
	Proof        uint64         `json:"proof"`         // Value satisfying the puzzle against the previous proof
	PreviousHash string         `json:"previous_hash"` // Digest of the preceding block, sentinel for genesis
}

// HashBlock returns the hex-encoded SHA-256 digest of the block's canonical
// JSON encoding. Struct fields marshal in declaration order, so two nodes
// holding the same block always produce the same digest.
func HashBlock(b *Block) string {
	data, _ := json.Marshal(b)
	digest := sha256.Sum256(data)
	return hex.EncodeToString(digest[:])
}
