package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/plumekit/plume"
	"github.com/plumekit/plume/pkg/blog"
	"github.com/plumekit/plume/pkg/core"
	"github.com/spf13/cobra"
)

var (
	newTitle   string
	newDate    string
	newTags    []string
	newExcerpt string
	newMathjax bool
	newDraft   bool
)

// newCmd scaffolds a post with a slugged ID and front matter.
var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Scaffold a new post",
	Long: `Create a new post with front matter derived from the flags.
The post ID is the date plus the slugged title, e.g. 2020-01-01-my-title.`,
	Run: func(cmd *cobra.Command, args []string) {
		date := time.Now()
		if newDate != "" {
			parsed, err := time.Parse("2006-01-02", newDate)
			if err != nil {
				fatal("Invalid --date (want YYYY-MM-DD)", err)
			}
			date = parsed
		}

		day := blog.DateOf(date)

		fm := blog.FrontMatter{
			Title:   newTitle,
			Date:    time.Time(day),
			Tags:    newTags,
			Excerpt: newExcerpt,
			Mathjax: newMathjax,
			Draft:   newDraft,
		}
		if err := fm.Validate(); err != nil {
			fatal("Invalid front matter", err)
		}

		id, err := blog.PostID(newTitle, date)
		if err != nil {
			fatal("Failed to derive post ID", err)
		}

		service, err := openService(false)
		if err != nil {
			fatal("Failed to initialize plume", err)
		}

		ctx := context.Background()

		// Refuse to clobber an existing post.
		if _, err := service.GetPost(ctx, id); err == nil {
			fatal("Post already exists", fmt.Errorf("id %s", id))
		} else if !errors.Is(err, core.ErrNotFound) {
			fatal("Failed to check for existing post", err)
		}

		metadata, err := fm.ToMetadata()
		if err != nil {
			fatal("Failed to build metadata", err)
		}
		// Emit "date: 2020-01-01" rather than an RFC 3339 timestamp.
		metadata["date"] = day

		content := fmt.Sprintf("# %s\n\n", newTitle)
		msg := plume.FormatCommitMessage(plume.CommitTypeFeat, "posts", "add "+id, "")
		ctx = context.WithValue(ctx, core.ChangeReasonKey, msg)

		if err := service.SavePost(ctx, id, content, metadata); err != nil {
			fatal("Failed to save post", err)
		}

		fmt.Printf("Created post: %s\n", id)
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringVar(&newTitle, "title", "", "Post title")
	newCmd.Flags().StringVar(&newDate, "date", "", "Publication date (YYYY-MM-DD, defaults to today)")
	newCmd.Flags().StringSliceVar(&newTags, "tags", nil, "Comma-separated tags")
	newCmd.Flags().StringVar(&newExcerpt, "excerpt", "", "Post excerpt")
	newCmd.Flags().BoolVar(&newMathjax, "mathjax", false, "Enable MathJax rendering")
	newCmd.Flags().BoolVar(&newDraft, "draft", false, "Mark the post as a draft")
	newCmd.MarkFlagRequired("title")
}
