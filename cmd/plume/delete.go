package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a post",
	Long:  `Delete permanently removes a post and stages the deletion in Git.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := args[0]

		service, err := openService(true)
		if err != nil {
			fatal("Failed to initialize plume", err)
		}

		if err := service.DeletePost(context.Background(), id); err != nil {
			fatal("Failed to delete post", err)
		}

		fmt.Printf("Post deleted: %s\n", id)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
