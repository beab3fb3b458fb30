package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cfg "github.com/tendermint/relaylight/config"
	"github.com/tendermint/relaylight/crypto/encoding"
	"github.com/tendermint/relaylight/internal/test/factory"
	"github.com/tendermint/relaylight/libs/cli"
	"github.com/tendermint/relaylight/libs/log"
	"github.com/tendermint/relaylight/trigger"
	"github.com/tendermint/relaylight/types"
)

// run executes one relaylight command against home and returns its output.
func run(t *testing.T, home string, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	conf := cfg.DefaultConfig()
	logger := log.NewNopLogger()
	cmd := RootCommand(conf, logger)
	cmd.AddCommand(Subcommands(conf, logger)...)

	var out bytes.Buffer
	cmd.SetOut(&out)
	args = append(append([]string{cmd.Use}, args...), "--home", home)
	err := cli.RunWithArgs(context.Background(), cmd, args, nil)
	return out.String(), err
}

func writeJSON(t *testing.T, path string, v interface{}) {
	t.Helper()
	bz, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, bz, 0600))
}

func TestGenValidator(t *testing.T) {
	home := t.TempDir()
	for _, keyType := range []string{"ed25519", "secp256k1"} {
		out, err := run(t, home, "gen-validator", "--key-type", keyType)
		require.NoError(t, err)

		var key ValidatorKey
		require.NoError(t, json.Unmarshal([]byte(out), &key))
		pub, err := encoding.UnmarshalPubKeyJSON(key.PubKey)
		require.NoError(t, err)
		priv, err := encoding.UnmarshalPrivKeyJSON(key.PrivKey)
		require.NoError(t, err)
		assert.Equal(t, keyType, pub.Type())
		assert.True(t, priv.PubKey().Equals(pub))
	}

	_, err := run(t, home, "gen-validator", "--key-type", "rsa")
	assert.Error(t, err)
}

func TestInitWritesConfig(t *testing.T) {
	home := t.TempDir()
	_, err := run(t, home, "init")
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(home, "config", "config.toml"))

	// the written file loads back
	_, err = run(t, home, "gen-validator")
	require.NoError(t, err)
	_, err = run(t, home, "init")
	require.NoError(t, err)
}

func TestTriggerLifecycle(t *testing.T) {
	home := t.TempDir()
	_, err := run(t, home, "init")
	require.NoError(t, err)

	pkz := factory.GenMixedPrivKeys(4)
	genesisFile := filepath.Join(home, "genesis.json")
	writeJSON(t, genesisFile, TriggerGenesis{
		Config: &trigger.Config{
			Mode:                 trigger.Mode{Type: trigger.ModeHub},
			AdminStore:           "admin",
			AdminStoreChainKey:   "chain-a",
			RelayStore:           "relay-a",
			RelayStoreMessageKey: "block",
			Chains:               map[string]trigger.ChainConfig{"chain-a": {OmnibusAccount: "omnibus@chain-a"}},
		},
		Validators: pkz.ValidatorSet(),
	})

	_, err = run(t, home, "init-trigger", "hub-a", genesisFile)
	require.NoError(t, err)

	// never overwrites a snapshot
	_, err = run(t, home, "init-trigger", "hub-a", genesisFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already has a snapshot")

	out, err := run(t, home, "verify", "hub-a")
	require.NoError(t, err)
	assertStatus(t, out, "no_message")

	chain := factory.MakeChain(2, 3)
	msgFile := filepath.Join(home, "message.json")
	writeJSON(t, msgFile, factory.MakeMessage(t, pkz, chain[0], 2, 0, 2))
	_, err = run(t, home, "submit-message", "hub-a", msgFile)
	require.NoError(t, err)

	out, err = run(t, home, "verify", "hub-a")
	require.NoError(t, err)
	assertStatus(t, out, "accepted")

	out, err = run(t, home, "verify", "hub-a")
	require.NoError(t, err)
	assertStatus(t, out, "stale")

	// one signature is short of floor(4/3)*2
	writeJSON(t, msgFile, factory.MakeMessage(t, pkz, chain[1], 1))
	_, err = run(t, home, "submit-message", "hub-a", msgFile)
	require.NoError(t, err)
	out, err = run(t, home, "verify", "hub-a")
	require.NoError(t, err)
	res := assertStatus(t, out, "rejected")
	assert.Contains(t, res.Reason, "recognized 1, required at least 2")

	out, err = run(t, home, "show-snapshot", "hub-a")
	require.NoError(t, err)
	var snapshot types.ChainSnapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snapshot))
	assert.EqualValues(t, 1, snapshot.Height())
	assert.Equal(t, chain[0].Header, snapshot.Block)

	_, err = run(t, home, "show-snapshot", "hub-z")
	assert.ErrorIs(t, err, trigger.ErrConfigNotFound)
}

func TestSubmitInvalidMessage(t *testing.T) {
	home := t.TempDir()
	msgFile := filepath.Join(home, "message.json")
	writeJSON(t, msgFile, &types.RelayBlockMessage{})

	_, err := run(t, home, "submit-message", "hub-a", msgFile)
	assert.Error(t, err)
}

func assertStatus(t *testing.T, out, status string) VerifyResult {
	t.Helper()
	var res VerifyResult
	require.NoError(t, json.Unmarshal([]byte(out), &res), out)
	assert.Equal(t, status, res.Status, res.Reason)
	assert.NotEmpty(t, res.InvocationID)
	return res
}
