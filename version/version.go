package version

var (
	// GitCommit is the current HEAD set using ldflags.
	GitCommit string

	// Version is the built softwares version.
	Version = RLSemVer
)

func init() {
	if GitCommit != "" {
		Version += "-" + GitCommit
	}
}

const (
	// RLSemVer is the current version of relaylight.
	// It's the Semantic Version of the software.
	RLSemVer = "0.3.0"

	// SnapshotProtocol versions the stored chain snapshot encoding.
	SnapshotProtocol Protocol = 1

	// MessageProtocol versions the relay message encoding and the canonical
	// header bytes signed by validators.
	MessageProtocol Protocol = 1
)

// Protocol is used for implementation agnostic versioning.
type Protocol uint64

// Uint64 returns the Protocol version as a uint64.
func (p Protocol) Uint64() uint64 {
	return uint64(p)
}

// Info is the version information printed by the CLI.
type Info struct {
	Version  string   `json:"version"`
	Snapshot Protocol `json:"snapshot_protocol"`
	Message  Protocol `json:"message_protocol"`
}

// Current returns the version information of this build.
func Current() Info {
	return Info{
		Version:  Version,
		Snapshot: SnapshotProtocol,
		Message:  MessageProtocol,
	}
}
