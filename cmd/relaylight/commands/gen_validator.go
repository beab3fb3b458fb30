package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tendermint/relaylight/crypto"
	"github.com/tendermint/relaylight/crypto/ed25519"
	"github.com/tendermint/relaylight/crypto/encoding"
	"github.com/tendermint/relaylight/crypto/secp256k1"
)

// ValidatorKey is printed by gen-validator. PubKey is the form validator
// sets are written in.
type ValidatorKey struct {
	PubKey  json.RawMessage `json:"pub_key"`
	PrivKey json.RawMessage `json:"priv_key"`
}

// MakeGenValidatorCommand returns the command generating validator keys.
func MakeGenValidatorCommand() *cobra.Command {
	var keyType string

	cmd := &cobra.Command{
		Use:   "gen-validator",
		Short: "Generate new validator keypair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var pk crypto.PrivKey
			switch keyType {
			case ed25519.KeyType:
				pk = ed25519.GenPrivKey()
			case secp256k1.KeyType:
				pk = secp256k1.GenPrivKey()
			default:
				return fmt.Errorf("key type %q is not supported", keyType)
			}

			pubBz, err := encoding.MarshalPubKeyJSON(pk.PubKey())
			if err != nil {
				return err
			}
			privBz, err := encoding.MarshalPrivKeyJSON(pk)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), ValidatorKey{PubKey: pubBz, PrivKey: privBz})
		},
	}
	cmd.Flags().StringVar(&keyType, "key-type", ed25519.KeyType, "validator key type (ed25519 | secp256k1)")
	return cmd
}
