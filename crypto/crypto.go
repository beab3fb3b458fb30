package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// HashSize is the size in bytes of a Digest.
	HashSize = 32
)

// Digest is the fixed-size output of a Hasher. It is hex-encoded in JSON.
type Digest [HashSize]byte

// DigestFromBytes copies bz into a Digest. bz must be exactly HashSize bytes.
func DigestFromBytes(bz []byte) (Digest, error) {
	var d Digest
	if len(bz) != HashSize {
		return d, fmt.Errorf("expected %d bytes for a digest, got %d", HashSize, len(bz))
	}
	copy(d[:], bz)
	return d, nil
}

func (d Digest) Bytes() []byte {
	return d[:]
}

// IsZero reports whether d is the zero value.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

func (d Digest) String() string {
	return strings.ToUpper(hex.EncodeToString(d[:]))
}

// MarshalText encodes d as uppercase hexadecimal digits.
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a hex string of exactly HashSize bytes.
func (d *Digest) UnmarshalText(data []byte) error {
	bz, err := hex.DecodeString(string(data))
	if err != nil {
		return fmt.Errorf("decoding digest: %w", err)
	}
	parsed, err := DigestFromBytes(bz)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Hasher turns arbitrary data into a Digest. The verification pipeline never
// assumes a concrete hash function; everything goes through a Hasher.
type Hasher interface {
	Hash(data []byte) Digest
}

// PubKey is a public key able to verify signatures produced by the matching
// PrivKey.
type PubKey interface {
	Bytes() []byte
	VerifySignature(msg []byte, sig []byte) bool
	Equals(PubKey) bool
	Type() string
}

type PrivKey interface {
	Bytes() []byte
	Sign(msg []byte) ([]byte, error)
	PubKey() PubKey
	Type() string
}

// Checksum returns the SHA256 of the bz.
func Checksum(bz []byte) []byte {
	h := sha256.Sum256(bz)
	return h[:]
}
