package types

import "fmt"

// QuorumPolicy decides how many validators must sign a header for it to be
// trusted.
type QuorumPolicy interface {
	RequiredSignatures(validators int) int
	String() string
}

const (
	QuorumPolicyFloorThirds   = "floor-thirds"
	QuorumPolicySupermajority = "supermajority"
)

var (
	// FloorThirdsQuorum requires floor(n/3)*2 validators. This is what the
	// monitored ledger uses. It is below a strict two-thirds majority for
	// most n (n=5 requires 2), and is 0 for n < 3.
	FloorThirdsQuorum QuorumPolicy = floorThirds{}

	// SupermajorityQuorum requires floor(2n/3)+1 validators, the classic BFT
	// bound.
	SupermajorityQuorum QuorumPolicy = supermajority{}
)

type floorThirds struct{}

func (floorThirds) RequiredSignatures(n int) int { return n / 3 * 2 }
func (floorThirds) String() string               { return QuorumPolicyFloorThirds }

type supermajority struct{}

func (supermajority) RequiredSignatures(n int) int { return n*2/3 + 1 }
func (supermajority) String() string               { return QuorumPolicySupermajority }

// QuorumPolicyFromString parses a policy name as used in the config file.
func QuorumPolicyFromString(name string) (QuorumPolicy, error) {
	switch name {
	case QuorumPolicyFloorThirds, "":
		return FloorThirdsQuorum, nil
	case QuorumPolicySupermajority:
		return SupermajorityQuorum, nil
	default:
		return nil, fmt.Errorf("unknown quorum policy %q (want %q or %q)",
			name, QuorumPolicyFloorThirds, QuorumPolicySupermajority)
	}
}
