package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tendermint/relaylight/config"
	"github.com/tendermint/relaylight/libs/log"
	"github.com/tendermint/relaylight/light/store"
	"github.com/tendermint/relaylight/light/store/db"
	"github.com/tendermint/relaylight/trigger"
	"github.com/tendermint/relaylight/types"
)

// TriggerGenesis is the file read by init-trigger: the trigger configuration
// and the validator set its chain starts with.
type TriggerGenesis struct {
	Config     *trigger.Config     `json:"config"`
	Validators *types.ValidatorSet `json:"validators"`
}

// ValidateBasic performs basic validation.
func (g *TriggerGenesis) ValidateBasic() error {
	if g.Config == nil {
		return errors.New("missing config")
	}
	if err := g.Config.ValidateBasic(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := g.Validators.ValidateBasic(); err != nil {
		return fmt.Errorf("invalid validators: %w", err)
	}
	return nil
}

// MakeInitTriggerCommand returns the command that stores a trigger
// configuration and the genesis snapshot of its chain.
func MakeInitTriggerCommand(conf *config.Config, logger log.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init-trigger [trigger-id] [genesis-file]",
		Short: "Configure a trigger and the genesis snapshot of its chain",
		Long: `Configure a trigger and the genesis snapshot of its chain.

The genesis file holds the trigger configuration and the validator set:

  {
    "config": {
      "mode": {"type": "Hub"},
      "admin_store": "admin",
      "admin_store_chain_key": "chain-a",
      "relay_store": "relay-a",
      "relay_store_message_key": "block",
      "chains": {"chain-a": {"omnibus_account": "omnibus@chain-a"}}
    },
    "validators": [{"type": "ed25519", "value": "<HEX>"}]
  }

An existing snapshot is never overwritten.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			triggerID := args[0]
			var gen TriggerGenesis
			if err := readJSONFile(args[1], &gen); err != nil {
				return err
			}
			if err := gen.ValidateBasic(); err != nil {
				return err
			}

			kvStore, err := openStore(conf, logger)
			if err != nil {
				return err
			}
			defer kvStore.Close()

			ctx := cmd.Context()
			snapshots := db.New(kvStore, gen.Config.AdminStore)
			err = snapshots.CompareAndSave(ctx, gen.Config.AdminStoreChainKey, nil, types.NewGenesisSnapshot(gen.Validators))
			if errors.Is(err, store.ErrConcurrentUpdate) {
				return fmt.Errorf("chain %q already has a snapshot in store %q",
					gen.Config.AdminStoreChainKey, gen.Config.AdminStore)
			}
			if err != nil {
				return err
			}

			if err := trigger.NewKVConfigProvider(kvStore).WriteConfig(ctx, triggerID, gen.Config); err != nil {
				return err
			}
			logger.Info("initialized trigger",
				"trigger", triggerID,
				"mode", gen.Config.Mode,
				"chain", gen.Config.AdminStoreChainKey,
				"validators", gen.Validators.Size())
			return nil
		},
	}
	addDBFlags(cmd, conf)
	return cmd
}
