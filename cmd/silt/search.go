package main

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/silt/pkg/core"
	"github.com/spf13/cobra"
)

var (
	searchTag     string
	searchType    string
	searchContent string
	searchFrom    string
	searchTo      string
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search documents by tag, type, content, or creation date",
	Long: `Search with exactly one of --tag, --type, --content, or a
--from/--to date range (YYYY-MM-DD). Tag and type match exactly;
content matching is a case-insensitive substring scan.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		service := openService()
		ctx := context.Background()

		switch {
		case searchTag != "":
			docs, err := service.SearchByTag(ctx, searchTag)
			if err != nil {
				fatal("Search failed", err)
			}
			printDocs(docs)
		case searchType != "":
			docs, err := service.SearchByType(ctx, searchType)
			if err != nil {
				fatal("Search failed", err)
			}
			printDocs(docs)
		case searchContent != "":
			docs, err := service.SearchContent(ctx, searchContent)
			if err != nil {
				fatal("Search failed", err)
			}
			printDocs(docs)
		case searchFrom != "" || searchTo != "":
			start, end, err := parseDateRange(searchFrom, searchTo)
			if err != nil {
				fatal("Invalid date range", err)
			}
			keys, err := service.KeysByDateRange(ctx, start, end)
			if err != nil {
				fatal("Search failed", err)
			}
			for _, key := range keys {
				fmt.Println(key)
			}
		default:
			fatal("No search criteria", fmt.Errorf("pass one of --tag, --type, --content, --from/--to"))
		}
	},
}

func printDocs(docs []core.Document) {
	if len(docs) == 0 {
		fmt.Println("No documents found.")
		return
	}
	for _, doc := range docs {
		fmt.Println(doc.Key)
	}
}

func parseDateRange(from, to string) (time.Time, time.Time, error) {
	start := time.Time{}
	end := time.Now().UTC()

	if from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = t
	}
	if to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		// Inclusive: the whole --to day counts.
		end = t.Add(24*time.Hour - time.Nanosecond)
	}
	return start, end, nil
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVar(&searchTag, "tag", "", "Exact tag to match")
	searchCmd.Flags().StringVar(&searchType, "type", "", "Exact type label to match")
	searchCmd.Flags().StringVar(&searchContent, "content", "", "Substring to find in document bodies")
	searchCmd.Flags().StringVar(&searchFrom, "from", "", "Start of creation date range (YYYY-MM-DD)")
	searchCmd.Flags().StringVar(&searchTo, "to", "", "End of creation date range (YYYY-MM-DD)")
}
