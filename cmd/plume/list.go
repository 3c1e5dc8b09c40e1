package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/plumekit/plume/pkg/blog"
	"github.com/plumekit/plume/pkg/core"
	"github.com/spf13/cobra"
)

var (
	listJSON   bool
	filterTag  string
	listDrafts bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List posts",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		service, err := openService(true)
		if err != nil {
			fatal("Failed to initialize plume", err)
		}

		posts, err := service.ListPosts(context.Background())
		if err != nil {
			fatal("Failed to list posts", err)
		}

		var filtered []core.Post
		for _, post := range posts {
			fm, err := blog.FromPost(post)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", post.ID, err)
				continue
			}
			if fm.Draft && !listDrafts {
				continue
			}
			if filterTag != "" && !fm.HasTag(filterTag) {
				continue
			}
			filtered = append(filtered, post)
		}

		sort.Slice(filtered, func(i, j int) bool { return filtered[i].ID < filtered[j].ID })

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(filtered); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}

		printTable(filtered)
	},
}

// printTable renders ID / TITLE / TAGS columns padded on display width, so
// CJK titles line up too.
func printTable(posts []core.Post) {
	idWidth := runewidth.StringWidth("ID")
	titleWidth := runewidth.StringWidth("TITLE")

	rows := make([][3]string, 0, len(posts))
	for _, post := range posts {
		fm, err := blog.FromPost(post)
		if err != nil {
			continue
		}
		title := fm.Title
		if fm.Draft {
			title += " (draft)"
		}
		rows = append(rows, [3]string{post.ID, title, strings.Join(fm.Tags, ", ")})

		if w := runewidth.StringWidth(post.ID); w > idWidth {
			idWidth = w
		}
		if w := runewidth.StringWidth(title); w > titleWidth {
			titleWidth = w
		}
	}

	fmt.Printf("%s  %s  %s\n", runewidth.FillRight("ID", idWidth), runewidth.FillRight("TITLE", titleWidth), "TAGS")
	for _, row := range rows {
		fmt.Printf("%s  %s  %s\n", runewidth.FillRight(row[0], idWidth), runewidth.FillRight(row[1], titleWidth), row[2])
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&filterTag, "tag", "", "Filter posts by tag")
	listCmd.Flags().BoolVar(&listDrafts, "drafts", false, "Include drafts")
}
