package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show repository statistics",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		service := openService()

		stats, err := service.Stats(context.Background())
		if err != nil {
			fatal("Failed to compute stats", err)
		}

		if statsJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(stats); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}

		fmt.Printf("Total documents: %d\n", stats.TotalDocuments)
		fmt.Println("Document types:")
		for docType, count := range stats.DocumentTypes {
			fmt.Printf("  %s: %d\n", docType, count)
		}
		fmt.Printf("Unique tags: %d\n", stats.UniqueTags)
		if len(stats.AllTags) > 0 {
			fmt.Printf("Tags: %s\n", strings.Join(stats.AllTags, ", "))
		}
		fmt.Printf("Storage path: %s\n", stats.StoragePath)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output in JSON format")
}
