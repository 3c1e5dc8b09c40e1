package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	readJSON bool
)

var readCmd = &cobra.Command{
	Use:   "read [id]",
	Short: "Read a post",
	Long:  `Read a post by its ID. Outputs raw markdown body by default, or the full record with --json.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := args[0]

		service, err := openService(true)
		if err != nil {
			fatal("Failed to initialize plume", err)
		}

		post, err := service.GetPost(context.Background(), id)
		if err != nil {
			fatal("Failed to read post", err)
		}

		if readJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(post); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}

		fmt.Print(post.Content)
	},
}

func init() {
	rootCmd.AddCommand(readCmd)
	readCmd.Flags().BoolVar(&readJSON, "json", false, "Output in JSON format")
}
