package main

import (
	"context"
	"fmt"

	"github.com/plumekit/plume/pkg/blog"
	"github.com/plumekit/plume/pkg/core"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats [id...]",
	Short: "Show word count and reading time",
	Long: `Compute word count, code lines and estimated reading time.
Without arguments, all posts are reported plus a total.`,
	Run: func(cmd *cobra.Command, args []string) {
		service, err := openService(true)
		if err != nil {
			fatal("Failed to initialize plume", err)
		}

		ctx := context.Background()

		var posts []core.Post
		if len(args) > 0 {
			for _, id := range args {
				post, err := service.GetPost(ctx, id)
				if err != nil {
					fatal("Failed to read post", err)
				}
				posts = append(posts, post)
			}
		} else {
			listed, err := service.ListPosts(ctx)
			if err != nil {
				fatal("Failed to list posts", err)
			}
			// List serves metadata from the index; stats need bodies.
			for _, p := range listed {
				full, err := service.GetPost(ctx, p.ID)
				if err != nil {
					continue
				}
				posts = append(posts, full)
			}
		}

		var total blog.Stats
		for _, post := range posts {
			s := blog.ComputeStats(post.Content)
			total.Words += s.Words
			total.CodeLines += s.CodeLines
			fmt.Printf("%s: %d words, %d code lines, ~%s\n", post.ID, s.Words, s.CodeLines, s.ReadingTime())
		}

		if len(posts) > 1 {
			fmt.Printf("total: %d words, %d code lines, ~%s\n", total.Words, total.CodeLines, total.ReadingTime())
		}
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
