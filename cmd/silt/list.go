package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
)

var (
	listJSON    bool
	listMatch   string
	listDetails bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all document keys in the store",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		service := openService()
		ctx := context.Background()

		keys, err := service.ListKeys(ctx)
		if err != nil {
			fatal("Failed to list documents", err)
		}

		if listMatch != "" {
			var filtered []string
			for _, key := range keys {
				if ok, err := doublestar.Match(listMatch, key); err == nil && ok {
					filtered = append(filtered, key)
				}
			}
			keys = filtered
		}

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(keys); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}

		for _, key := range keys {
			if !listDetails {
				fmt.Println(key)
				continue
			}
			doc, err := service.GetDocument(ctx, key)
			if err != nil {
				fatal("Failed to load document", err)
			}
			fmt.Printf("%s (%s) [%s]\n", key, doc.Type, strings.Join(doc.Tags, ", "))
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&listMatch, "match", "", "Filter keys by a glob pattern (doublestar)")
	listCmd.Flags().BoolVarP(&listDetails, "details", "d", false, "Show type and tags per document")
}
