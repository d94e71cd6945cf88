package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/silt"
	"github.com/aretw0/silt/pkg/core"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	createID       string
	createContent  string
	createFile     string
	createType     string
	createTags     []string
	createMetadata string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create or update a document",
	Long: `Create a document from --content, --file, or stdin.
When --id is omitted a random key is generated. Saving an existing key
replaces the document while preserving its creation timestamp.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		content, err := resolveContent()
		if err != nil {
			fatal("Failed to read content", err)
		}

		metadata := core.Metadata{}
		if createMetadata != "" {
			if err := json.Unmarshal([]byte(createMetadata), &metadata); err != nil {
				fatal("Invalid JSON in --metadata", err)
			}
		}

		key := createID
		if key == "" {
			key = uuid.NewString()
		}

		doc, err := core.NewDocument(key, content, createType, metadata, createTags...)
		if err != nil {
			fatal("Failed to construct document", err)
		}

		service, err := silt.New(storePath,
			silt.WithAutoInit(true),
			silt.WithLogger(slog.Default()),
		)
		if err != nil {
			fatal("Failed to open store", err)
		}

		if err := service.SaveDocument(context.Background(), doc); err != nil {
			fatal("Failed to save document", err)
		}
		fmt.Printf("Document '%s' saved.\n", key)
	},
}

func resolveContent() (string, error) {
	if createFile != "" {
		data, err := os.ReadFile(createFile)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	if createContent != "" {
		return createContent, nil
	}

	fmt.Fprintln(os.Stderr, "Reading content from stdin (Ctrl+D to finish):")
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().StringVar(&createID, "id", "", "Document key (generated when omitted)")
	createCmd.Flags().StringVar(&createContent, "content", "", "Document content")
	createCmd.Flags().StringVarP(&createFile, "file", "f", "", "Read content from a file")
	createCmd.Flags().StringVarP(&createType, "type", "t", "text", "Document type label")
	createCmd.Flags().StringSliceVar(&createTags, "tags", nil, "Tags (comma separated or repeated)")
	createCmd.Flags().StringVarP(&createMetadata, "metadata", "m", "", "Metadata as a JSON object")
}
