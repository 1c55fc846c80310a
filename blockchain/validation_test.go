package blockchain

import "testing"

// buildValidChain mines n blocks on top of a fresh genesis at difficulty 1
// and returns the resulting block sequence.
func buildValidChain(t *testing.T, n int) []*Block {
	t.Helper()
	bc := newTestChain(t)
	for i := 0; i < n; i++ {
		bc.NewTransaction("a", "b", float64(i+1))
		mineBlock(t, bc)
	}
	return bc.Blocks()
}

func TestIsValidChainGenesisOnly(t *testing.T) {
	chain := buildValidChain(t, 0)
	if !IsValidChain(chain, 1) {
		t.Errorf("a genesis-only chain must be trivially valid")
	}
}

func TestIsValidChainMinedChain(t *testing.T) {
	chain := buildValidChain(t, 3)
	if !IsValidChain(chain, 1) {
		t.Errorf("a chain produced solely by mining must validate")
	}
}

func TestIsValidChainRejectsMalformedInput(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		if IsValidChain(nil, 1) {
			t.Errorf("nil chain must be invalid")
		}
		if IsValidChain([]*Block{}, 1) {
			t.Errorf("empty chain must be invalid")
		}
	})

	t.Run("NilGenesis", func(t *testing.T) {
		if IsValidChain([]*Block{nil}, 1) {
			t.Errorf("chain with nil genesis must be invalid")
		}
	})

	t.Run("NilBlockMidChain", func(t *testing.T) {
		chain := buildValidChain(t, 2)
		chain[1] = nil
		if IsValidChain(chain, 1) {
			t.Errorf("chain with a nil block must be invalid, not a crash")
		}
	})
}

func TestIsValidChainDetectsTampering(t *testing.T) {
	tamper := []struct {
		name   string
		mutate func(chain []*Block)
	}{
		{"Timestamp", func(chain []*Block) { chain[1].Timestamp = "1970-01-01T00:00:00Z" }},
		{"Proof", func(chain []*Block) { chain[1].Proof++ }},
		{"TransactionAmount", func(chain []*Block) { chain[1].Transactions[0].Amount += 100 }},
		{"PreviousHashLink", func(chain []*Block) { chain[2].PreviousHash = "0000forged" }},
	}

	for _, tc := range tamper {
		t.Run(tc.name, func(t *testing.T) {
			chain := buildValidChain(t, 3)
			if !IsValidChain(chain, 1) {
				t.Fatalf("chain invalid before tampering")
			}
			tc.mutate(chain)
			if IsValidChain(chain, 1) {
				t.Errorf("tampering with %s went undetected", tc.name)
			}
		})
	}
}
