package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/plumekit/plume"
	"github.com/spf13/cobra"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a plume posts directory",
	Long: `Initialize a new Plume posts directory in the current directory.
Unless --gitless is set, this also runs 'git init'.`,
	Run: func(cmd *cobra.Command, args []string) {
		cwd, err := os.Getwd()
		if err != nil {
			fatal("Failed to get CWD", err)
		}

		_, err = plume.Init(cwd,
			plume.WithAutoInit(true),
			plume.WithVersioning(!gitless),
			plume.WithLogger(slog.Default()),
			plume.WithDevSafety(false),
		)
		if err != nil {
			fatal("Failed to initialize posts directory", err)
		}

		fmt.Println("Initialized empty Plume posts directory in", cwd)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
