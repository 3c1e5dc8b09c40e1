package main

import (
	"context"
	"fmt"

	"github.com/plumekit/plume"
	"github.com/plumekit/plume/pkg/core"
	"github.com/plumekit/plume/pkg/markdownfmt"
	"github.com/spf13/cobra"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [id...]",
	Short: "Normalize markdown tables in post bodies",
	Long: `Rewrite pipe tables with display-width aligned columns.
Front matter is untouched. Without arguments, all posts are formatted.`,
	Run: func(cmd *cobra.Command, args []string) {
		service, err := openService(true)
		if err != nil {
			fatal("Failed to initialize plume", err)
		}

		ctx := context.Background()

		ids := args
		if len(ids) == 0 {
			posts, err := service.ListPosts(ctx)
			if err != nil {
				fatal("Failed to list posts", err)
			}
			for _, p := range posts {
				ids = append(ids, p.ID)
			}
		}

		changed := 0
		for _, id := range ids {
			post, err := service.GetPost(ctx, id)
			if err != nil {
				fatal("Failed to read post", err)
			}

			formatted := markdownfmt.Format(post.Content)
			if formatted == post.Content {
				continue
			}

			msg := plume.FormatCommitMessage(plume.CommitTypeStyle, "posts", "format tables in "+id, "")
			saveCtx := context.WithValue(ctx, core.ChangeReasonKey, msg)

			// Carry the full record so the front matter stays byte-identical.
			post.Content = formatted
			if err := service.Save(saveCtx, post); err != nil {
				fatal("Failed to save post", err)
			}
			fmt.Printf("formatted %s\n", id)
			changed++
		}

		if changed == 0 {
			fmt.Println("all posts already formatted")
		}
	},
}

func init() {
	rootCmd.AddCommand(fmtCmd)
}
