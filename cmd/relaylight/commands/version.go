package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tendermint/relaylight/version"
)

var verbose bool

// VersionCmd prints the version.
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version info",
	RunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			return printJSON(cmd.OutOrStdout(), version.Current())
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Version)
		return err
	},
}

func init() {
	VersionCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show protocol versions")
}
