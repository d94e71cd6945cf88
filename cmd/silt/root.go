package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/silt"
	"github.com/aretw0/silt/pkg/core"
	"github.com/spf13/cobra"
)

var (
	verbose   bool
	storePath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "silt",
	Short: "An embedded document store with a metadata index",
	Long: `Silt stores text, JSON, and markdown documents as individual files
and keeps a separate index so tag, type, and date queries never read
document bodies.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&storePath, "path", "p", "documents", "Path to the document store")
}

// openService opens the store at --path for commands that expect it to exist.
func openService(opts ...silt.Option) *core.Service {
	opts = append([]silt.Option{
		silt.WithMustExist(true),
		silt.WithLogger(slog.Default()),
	}, opts...)

	service, err := silt.New(storePath, opts...)
	if err != nil {
		fatal("Failed to open store", err)
	}
	return service
}
