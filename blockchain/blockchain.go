package blockchain

import (
	"errors"
	"sync"
	"time"
)

// ErrEmptyChain signals that the "chain is never empty" invariant has been
// violated. Construction always appends the genesis block, so seeing this
// error means internal state corruption, not a recoverable condition.
var ErrEmptyChain = errors.New("blockchain has no blocks")

/**
 * Blockchain owns the ordered sequence of committed blocks and the pool of
 * transactions waiting to be folded into the next block. All access goes
 * through the mutex, so a commit never observes a concurrently changing
 * pending pool and a chain replacement never interleaves with a commit.
 */
type Blockchain struct {
	blocks     []*Block       // Ordered list of committed blocks, genesis first
	pending    []*Transaction // Transactions accepted but not yet committed
	difficulty int            // Number of leading zeros required of a proof digest
	mutex      sync.RWMutex   // Guards blocks and pending together
}

/**
 * NewBlockchain initializes a ledger with its genesis block. The instance is
 * meant to be constructed once in main and handed to whoever needs it; there
 * is no package-level shared chain.
 */
func NewBlockchain() *Blockchain {
	bc := &Blockchain{
		blocks:     make([]*Block, 0),
		pending:    make([]*Transaction, 0),
		difficulty: GetDifficulty(),
	}

	genesis := &Block{
		Index:        1,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		Transactions: []*Transaction{},
		Proof:        GenesisProof,
		PreviousHash: GenesisPreviousHash,
	}
	bc.blocks = append(bc.blocks, genesis)

	return bc
}

// NewTransaction queues a transaction for inclusion in the next forged block
// and returns the index of the block that will eventually hold it.
func (bc *Blockchain) NewTransaction(sender, recipient string, amount float64) uint64 {
	bc.mutex.Lock()
	defer bc.mutex.Unlock()

	bc.pending = append(bc.pending, &Transaction{
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
	})

	return uint64(len(bc.blocks)) + 1
}

/**
 * NewBlock commits a block built from the pending pool, which is captured and
 * cleared in the same critical section as the append. When previousHash is
 * empty it is computed from the current last block under the lock, so the
 * linkage is always against the chain as it stands at commit time.
 *
 * This is the sole commit path and it cannot fail: proof correctness is the
 * puzzle engine's and the validator's concern, never enforced here.
 */
func (bc *Blockchain) NewBlock(proof uint64, previousHash string) *Block {
	bc.mutex.Lock()
	defer bc.mutex.Unlock()

	if previousHash == "" {
		previousHash = HashBlock(bc.blocks[len(bc.blocks)-1])
	}

	block := &Block{
		Index:        uint64(len(bc.blocks)) + 1,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		Transactions: bc.pending,
		Proof:        proof,
		PreviousHash: previousHash,
	}

	bc.pending = make([]*Transaction, 0)
	bc.blocks = append(bc.blocks, block)

	return block
}

// LastBlock returns the most recent block in the chain.
func (bc *Blockchain) LastBlock() (*Block, error) {
	bc.mutex.RLock()
	defer bc.mutex.RUnlock()

	if len(bc.blocks) == 0 {
		return nil, ErrEmptyChain
	}
	return bc.blocks[len(bc.blocks)-1], nil
}

// Blocks returns a snapshot of the committed chain in order.
func (bc *Blockchain) Blocks() []*Block {
	bc.mutex.RLock()
	defer bc.mutex.RUnlock()

	out := make([]*Block, len(bc.blocks))
	copy(out, bc.blocks)
	return out
}

// Length returns the number of committed blocks.
func (bc *Blockchain) Length() int {
	bc.mutex.RLock()
	defer bc.mutex.RUnlock()
	return len(bc.blocks)
}

// Pending returns a snapshot of the transactions awaiting inclusion.
func (bc *Blockchain) Pending() []*Transaction {
	bc.mutex.RLock()
	defer bc.mutex.RUnlock()

	out := make([]*Transaction, len(bc.pending))
	copy(out, bc.pending)
	return out
}

// PendingCount returns the number of transactions awaiting inclusion.
func (bc *Blockchain) PendingCount() int {
	bc.mutex.RLock()
	defer bc.mutex.RUnlock()
	return len(bc.pending)
}

// Difficulty returns the puzzle difficulty this ledger validates against.
func (bc *Blockchain) Difficulty() int {
	return bc.difficulty
}

/**
 * ReplaceChain substitutes the whole committed sequence with candidate, but
 * only when candidate is strictly longer than the local chain and passes full
 * validation. The swap is atomic with respect to every other operation on the
 * ledger. The pending pool is left untouched either way.
 *
 * Returns true when the chain was replaced.
 */
func (bc *Blockchain) ReplaceChain(candidate []*Block) bool {
	bc.mutex.Lock()
	defer bc.mutex.Unlock()

	if len(candidate) <= len(bc.blocks) {
		return false
	}
	if !IsValidChain(candidate, bc.difficulty) {
		return false
	}

	bc.blocks = candidate
	return true
}
