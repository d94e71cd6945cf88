package main

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/silt"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a document store",
	Long:  `Create the store directory and an empty index at the configured path.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := silt.Init(storePath,
			silt.WithAutoInit(true),
			silt.WithLogger(slog.Default()),
		); err != nil {
			fatal("Failed to initialize store", err)
		}
		fmt.Printf("Initialized document store at %s\n", storePath)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
