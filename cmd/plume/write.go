package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/plumekit/plume"
	"github.com/plumekit/plume/pkg/core"
	"github.com/spf13/cobra"
)

var (
	writeID      string
	writeContent string
	changeReason string
	writeType    string
	writeScope   string
)

// writeCmd represents the write command
var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "Write a post body",
	Long: `Create or update a post with the given ID and content.
When --content is omitted, the body is read from stdin.
Existing front matter is preserved.`,
	Run: func(cmd *cobra.Command, args []string) {
		if writeContent == "" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				fatal("Failed to read stdin", err)
			}
			writeContent = string(data)
		}

		service, err := openService(false)
		if err != nil {
			fatal("Failed to initialize plume", err)
		}

		ctx := context.Background()

		// Updating a post must not drop or churn its front matter, so the
		// existing record (raw front-matter block included) is carried through.
		post := core.Post{ID: writeID}
		if existing, err := service.GetPost(ctx, writeID); err == nil {
			post = existing
		} else if !errors.Is(err, core.ErrNotFound) {
			fatal("Failed to check for existing post", err)
		}
		post.Content = writeContent

		var finalMsg string
		if writeType != "" {
			if changeReason == "" {
				changeReason = fmt.Sprintf("update %s", writeID)
			}
			finalMsg = plume.FormatChangeReason(writeType, writeScope, changeReason, "")
		} else {
			if changeReason != "" {
				finalMsg = plume.AppendFooter(changeReason)
			} else {
				scope := "posts"
				if writeScope != "" {
					scope = writeScope
				}
				finalMsg = plume.FormatChangeReason(plume.CommitTypeDocs, scope, fmt.Sprintf("update %s", writeID), "")
			}
		}

		ctx = context.WithValue(ctx, core.ChangeReasonKey, finalMsg)

		if err := service.Save(ctx, post); err != nil {
			fatal("Failed to save post", err)
		}

		fmt.Printf("Post '%s' saved and committed.\n", writeID)
	},
}

func init() {
	rootCmd.AddCommand(writeCmd)
	writeCmd.Flags().StringVar(&writeID, "id", "", "Post ID (filename)")
	writeCmd.Flags().StringVar(&writeContent, "content", "", "Post body (defaults to stdin)")
	writeCmd.Flags().StringVarP(&changeReason, "message", "m", "", "Change reason (audit note)")
	writeCmd.Flags().StringVarP(&writeType, "type", "t", "", "Change type (feat, fix, etc)")
	writeCmd.Flags().StringVarP(&writeScope, "scope", "s", "", "Commit scope")
	writeCmd.MarkFlagRequired("id")
}
