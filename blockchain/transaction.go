package blockchain

// Transaction represents a transfer recorded in a block. Transactions are
// accepted at face value: no signatures, no uniqueness, no double-spend
// check. Validating the fields beyond presence is the transport's problem.
type Transaction struct {
	Sender    string  `json:"sender"`
	Recipient string  `json:"recipient"`
	Amount    float64 `json:"amount"`
}

// IsReward reports whether the transaction is a system-minted mining reward.
func (t *Transaction) IsReward() bool {
	return t.Sender == MintAddress
}
