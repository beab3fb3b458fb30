package commands

import (
	"github.com/spf13/cobra"

	"github.com/tendermint/relaylight/config"
	"github.com/tendermint/relaylight/libs/log"
	"github.com/tendermint/relaylight/light/store/db"
	"github.com/tendermint/relaylight/trigger"
)

// MakeShowSnapshotCommand returns the command printing the trusted snapshot
// of a trigger's chain.
func MakeShowSnapshotCommand(conf *config.Config, logger log.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show-snapshot [trigger-id]",
		Short: "Show the trusted snapshot of a trigger's chain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kvStore, err := openStore(conf, logger)
			if err != nil {
				return err
			}
			defer kvStore.Close()

			ctx := cmd.Context()
			cfg, err := trigger.NewKVConfigProvider(kvStore).ReadConfig(ctx, args[0])
			if err != nil {
				return err
			}
			snapshot, err := db.New(kvStore, cfg.AdminStore).Load(ctx, cfg.AdminStoreChainKey)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), snapshot)
		},
	}
	addDBFlags(cmd, conf)
	return cmd
}
