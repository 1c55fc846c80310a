package blockchain

import (
	"os"
	"strconv"
)

const (
	// GenesisProof is the proof value baked into the genesis block.
	GenesisProof uint64 = 100
	// GenesisPreviousHash is the sentinel previous-hash carried by the genesis
	// block. It is not a real digest; there is no block before genesis.
	GenesisPreviousHash = "1"
	// MintAddress is the reserved sender address for system-minted rewards.
	MintAddress = "0"
	// MiningReward is the amount credited to a node for forging a block.
	MiningReward = 1
	// DefaultDifficulty is the number of leading '0' characters required in a
	// proof digest.
	DefaultDifficulty = 4
)

// GetDifficulty returns the mining difficulty, reading MINING_DIFFICULTY from
// the environment and falling back to DefaultDifficulty. Every node on a
// network must run with the same value or chain validation will not
// interoperate.
func GetDifficulty() int {
	valStr := os.Getenv("MINING_DIFFICULTY")
	if valStr == "" {
		return DefaultDifficulty
	}
	difficulty, err := strconv.Atoi(valStr)
	if err != nil || difficulty < 1 {
		return DefaultDifficulty
	}
	return difficulty
}
