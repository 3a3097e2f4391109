package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "smokecheck",
	Short: "Smoke checks for the HomeShare India API",
	Long: `smokecheck runs a fixed sequence of HTTP checks against a HomeShare
India API deployment and reports which ones passed. It exits 0 only when
every check passed, which makes it suitable for CI and deploy gates.`,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitCheckFailure)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(mockCmd)
	rootCmd.AddCommand(versionCmd)
}
