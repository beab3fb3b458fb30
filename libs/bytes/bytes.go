package bytes

import (
	"encoding/base64"
	"encoding/hex"
	"strings"
)

// HexBytes is a byte slice that encodes as an upper-case hex string in JSON.
// Relay payloads, signatures and key material all go through it.
type HexBytes []byte

// MarshalText encodes a HexBytes value as hexadecimal digits.
func (bz HexBytes) MarshalText() ([]byte, error) {
	enc := hex.EncodeToString([]byte(bz))
	return []byte(strings.ToUpper(enc)), nil
}

// UnmarshalText decodes hex, falling back to base64 for payloads produced by
// relays that emit the JSON default encoding of byte arrays.
func (bz *HexBytes) UnmarshalText(data []byte) error {
	input := string(data)
	if input == "" || input == "null" {
		*bz = nil
		return nil
	}
	dec, err := hex.DecodeString(input)
	if err != nil {
		dec, err = base64.StdEncoding.DecodeString(input)
		if err != nil {
			return err
		}
	}
	*bz = HexBytes(dec)
	return nil
}

func (bz HexBytes) String() string {
	return strings.ToUpper(hex.EncodeToString(bz))
}
