package commands

import (
	"github.com/spf13/cobra"

	"github.com/tendermint/relaylight/config"
	"github.com/tendermint/relaylight/libs/log"
	"github.com/tendermint/relaylight/trigger"
	"github.com/tendermint/relaylight/types"
)

// MakeSubmitMessageCommand returns the command that stores a relay message
// file as the pending message of a trigger, the way a relay would.
func MakeSubmitMessageCommand(conf *config.Config, logger log.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit-message [trigger-id] [message-file]",
		Short: "Store a relay block message for a trigger",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := new(types.RelayBlockMessage)
			if err := readJSONFile(args[1], msg); err != nil {
				return err
			}

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
			if err := trigger.StoreMessage(ctx, kvStore, cfg, msg); err != nil {
				return err
			}
			logger.Info("relay message stored", "trigger", args[0], "height", msg.Header.Height)
			return nil
		},
	}
	addDBFlags(cmd, conf)
	return cmd
}
