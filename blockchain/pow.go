package blockchain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// proofsPerCancelCheck bounds how many candidates FindProof tries between
// context checks.
const proofsPerCancelCheck = 4096

/**
 * ValidProof reports whether proof, combined with the proof of the previous
 * block, satisfies the difficulty predicate: the SHA-256 digest of the two
 * decimal representations concatenated (no separator) must start with
 * difficulty '0' characters in hex.
 *
 * The predicate is pure and must be identical on every node, otherwise chain
 * validation does not interoperate.
 */
func ValidProof(lastProof, proof uint64, difficulty int) bool {
	guess := strconv.FormatUint(lastProof, 10) + strconv.FormatUint(proof, 10)
	digest := sha256.Sum256([]byte(guess))
	return strings.HasPrefix(hex.EncodeToString(digest[:]), strings.Repeat("0", difficulty))
}

/**
 * FindProof searches the non-negative integers from zero for the first value
 * satisfying ValidProof against lastProof. The search is deliberately
 * unbounded CPU work; ctx is the only way out of a run that is no longer
 * wanted. Run it off the ledger lock: only the final append needs exclusion.
 */
func FindProof(ctx context.Context, lastProof uint64, difficulty int) (uint64, error) {
	for proof := uint64(0); ; proof++ {
		if proof%proofsPerCancelCheck == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		if ValidProof(lastProof, proof, difficulty) {
			return proof, nil
		}
	}
}
