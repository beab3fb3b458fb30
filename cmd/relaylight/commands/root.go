package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tendermint/relaylight/config"
	"github.com/tendermint/relaylight/libs/cli"
	"github.com/tendermint/relaylight/libs/log"
)

// ParseConfig retrieves the default environment configuration,
// sets up the relaylight root and ensures that the root exists
func ParseConfig(conf *config.Config) (*config.Config, error) {
	if err := viper.Unmarshal(conf); err != nil {
		return nil, err
	}

	conf.SetRoot(conf.RootDir)

	if err := conf.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("error in config file: %w", err)
	}
	return conf, nil
}

// RootCommand constructs the root command-line entry point for relaylight.
func RootCommand(conf *config.Config, logger log.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relaylight",
		Short: "Relay-trust verifier for cross-chain bridges",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == VersionCmd.Name() {
				return nil
			}

			if err := cli.BindFlagsLoadViper(cmd, args); err != nil {
				return err
			}

			pconf, err := ParseConfig(conf)
			if err != nil {
				return err
			}
			*conf = *pconf
			if err := config.EnsureRoot(conf.RootDir); err != nil {
				return err
			}
			return log.OverrideWithNewLogger(logger, conf.LogFormat, conf.LogLevel)
		},
	}
	cmd.PersistentFlags().StringP(cli.HomeFlag, "", os.ExpandEnv(filepath.Join("$HOME", config.DefaultRelaylightDir)), "directory for config and data")
	cmd.PersistentFlags().Bool(cli.TraceFlag, false, "print out full stack trace on errors")
	cmd.PersistentFlags().String("log-level", conf.LogLevel, "log level")
	cobra.OnInitialize(func() { cli.InitEnv("RL") })
	return cmd
}

// Subcommands returns every command of the relaylight binary.
func Subcommands(conf *config.Config, logger log.Logger) []*cobra.Command {
	return []*cobra.Command{
		MakeInitFilesCommand(conf, logger),
		MakeGenValidatorCommand(),
		MakeInitTriggerCommand(conf, logger),
		MakeSubmitMessageCommand(conf, logger),
		MakeVerifyCommand(conf, logger),
		MakeShowSnapshotCommand(conf, logger),
		MakeStartCommand(conf, logger),
		VersionCmd,
	}
}
