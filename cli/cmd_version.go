package main

import (
	"fmt"

	internal "github.com/Crinklebine/dirstamp/dirstamp"

	"github.com/spf13/cobra"
)

// versionCmd prints the tool version and, when injected at build time,
// the source revision and build date.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print version and build metadata",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), internal.VersionString())
		},
	}
}
