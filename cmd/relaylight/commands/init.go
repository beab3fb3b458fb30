package commands

import (
	"github.com/spf13/cobra"

	"github.com/tendermint/relaylight/config"
	"github.com/tendermint/relaylight/libs/log"
	rlos "github.com/tendermint/relaylight/libs/os"
)

// MakeInitFilesCommand returns the command that writes config.toml into the
// home directory.
func MakeInitFilesCommand(conf *config.Config, logger log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initializes a relaylight home directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile := conf.ConfigFile()
			if rlos.FileExists(configFile) {
				logger.Info("found config file", "path", configFile)
				return nil
			}

			if err := config.WriteConfigFile(conf.RootDir, conf); err != nil {
				return err
			}
			logger.Info("generated config file", "path", configFile)
			return nil
		},
	}
}
