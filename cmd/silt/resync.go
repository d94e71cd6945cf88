package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var resyncCmd = &cobra.Command{
	Use:   "resync",
	Short: "Rebuild the index from the records on disk",
	Long: `Resync scans the store directory and rebuilds the index from the
document records actually present: orphan records (left behind by an
interrupted save) are adopted, dangling index entries are dropped.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		service := openService()

		report, err := service.Resync(context.Background())
		if err != nil {
			fatal("Resync failed", err)
		}
		fmt.Printf("Resync complete: %d records scanned, %d adopted, %d dropped.\n",
			report.Scanned, report.Adopted, report.Dropped)
	},
}

func init() {
	rootCmd.AddCommand(resyncCmd)
}
