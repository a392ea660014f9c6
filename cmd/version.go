package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/redbadger/autodeploy/constants"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the version of the autodeploy command",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("autodeploy version %s\n", constants.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
