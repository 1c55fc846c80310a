package blockchain

/**
 * IsValidChain reports whether chain is structurally sound end to end: every
 * block must reference the digest of its predecessor and carry a proof that
 * satisfies the puzzle against the predecessor's proof. A genesis-only chain
 * is trivially valid; the genesis block's own fields are not re-validated,
 * there is no prior block to check them against.
 *
 * The chain may come from an untrusted peer. Malformed input (empty chain,
 * nil blocks) yields false, never a panic.
 */
func IsValidChain(chain []*Block, difficulty int) bool {
	if len(chain) == 0 || chain[0] == nil {
		return false
	}

	for i := 1; i < len(chain); i++ {
		prev, curr := chain[i-1], chain[i]
		if curr == nil {
			return false
		}
		if curr.PreviousHash != HashBlock(prev) {
			return false
		}
		if !ValidProof(prev.Proof, curr.Proof, difficulty) {
			return false
		}
	}

	return true
}
