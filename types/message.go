package types

import (
	"fmt"
)

// RelayBlockMessage is the untrusted claim a relay makes about a new block.
//
// A relay does not need to send every transaction of the block, only the
// ones the bridge acts on. Each of them carries a proof against the header
// merkle root.
type RelayBlockMessage struct {
	Header BlockHeader `json:"header"`
	// Signatures over the header digest. Duplicates and signatures of
	// non-validators are tolerated.
	Signatures []Signature `json:"signatures"`
	// InterestingTransactions are the block transactions the bridge acts on.
	InterestingTransactions []CommittedTransaction `json:"interesting_transactions"`
}

// ValidateBasic performs stateless validation of the message. It does not
// check signatures or proofs; that requires trusted state.
func (m *RelayBlockMessage) ValidateBasic() error {
	if err := m.Header.ValidateBasic(); err != nil {
		return fmt.Errorf("invalid header: %w", err)
	}
	for i := range m.InterestingTransactions {
		if err := m.InterestingTransactions[i].ValidateBasic(); err != nil {
			return fmt.Errorf("invalid transaction #%d: %w", i, err)
		}
	}
	return nil
}
