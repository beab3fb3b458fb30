package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tendermint/relaylight/cmd/relaylight/commands"
	"github.com/tendermint/relaylight/config"
	"github.com/tendermint/relaylight/libs/cli"
	"github.com/tendermint/relaylight/libs/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	conf := config.DefaultConfig()
	logger, err := log.NewDefaultLogger(log.LogFormatPlain, log.LogLevelInfo)
	if err != nil {
		panic(err)
	}

	rcmd := commands.RootCommand(conf, logger)
	rcmd.AddCommand(commands.Subcommands(conf, logger)...)

	err = cli.RunWithTrace(ctx, rcmd)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
