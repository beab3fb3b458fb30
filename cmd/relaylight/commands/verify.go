package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/tendermint/relaylight/config"
	"github.com/tendermint/relaylight/libs/log"
	"github.com/tendermint/relaylight/light"
	"github.com/tendermint/relaylight/trigger"
)

// VerifyResult is printed by the verify command.
type VerifyResult struct {
	InvocationID string `json:"invocation_id"`
	Status       string `json:"status"`
	Height       uint64 `json:"height,omitempty"`
	Handled      int    `json:"handled"`
	Reason       string `json:"reason,omitempty"`
}

func newVerifyResult(res trigger.Result) VerifyResult {
	vr := VerifyResult{
		InvocationID: res.InvocationID,
		Status:       res.Status.String(),
		Height:       res.Height,
		Handled:      res.Handled,
	}
	if res.Reason != nil {
		vr.Reason = res.Reason.Error()
	}
	return vr
}

// MakeVerifyCommand returns the command running a single invocation of a
// trigger, as the scheduler would.
func MakeVerifyCommand(conf *config.Config, logger log.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify [trigger-id]",
		Short: "Verify the pending relay message of a trigger once",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kvStore, err := openStore(conf, logger)
			if err != nil {
				return err
			}
			defer kvStore.Close()

			verifier, err := newVerifier(conf, logger, light.NopMetrics())
			if err != nil {
				return err
			}
			driver := trigger.NewDriver(
				trigger.NewKVConfigProvider(kvStore),
				kvStore,
				verifier,
				trigger.WithLogger(logger.With("module", "driver")),
			)

			res, err := driver.Run(cmd.Context(), trigger.NewTimeEvent(args[0], time.Now()))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), newVerifyResult(res))
		},
	}
	addDBFlags(cmd, conf)
	return cmd
}
