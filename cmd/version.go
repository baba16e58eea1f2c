package cmd

import (
	"fmt"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X text2phenotype.com/compound/cmd.Version=...".
var Version = "dev"

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "display compound version",
	Run:   runVersion,
}

func runVersion(cmd *cobra.Command, args []string) {
	fmt.Fprintln(cmd.OutOrStdout(), Version)
}
