package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/aretw0/silt/pkg/core"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	exportOut    string
	exportFormat string
)

// exportPayload is the shape of a full-store export. Built purely from the
// store's public list and get operations.
type exportPayload struct {
	ExportedAt time.Time              `json:"exported_at" yaml:"exported_at"`
	Documents  map[string]exportedDoc `json:"documents" yaml:"documents"`
}

type exportedDoc struct {
	Content   string        `json:"content" yaml:"content"`
	Type      string        `json:"type" yaml:"type"`
	Tags      []string      `json:"tags" yaml:"tags"`
	Metadata  core.Metadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	CreatedAt time.Time     `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" yaml:"updated_at"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every document to a single file",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		service := openService()
		ctx := context.Background()

		keys, err := service.ListKeys(ctx)
		if err != nil {
			fatal("Failed to list documents", err)
		}

		payload := exportPayload{
			ExportedAt: time.Now().UTC(),
			Documents:  make(map[string]exportedDoc, len(keys)),
		}
		for _, key := range keys {
			doc, err := service.GetDocument(ctx, key)
			if err != nil {
				fatal("Failed to load document "+key, err)
			}
			payload.Documents[key] = exportedDoc{
				Content:   doc.Content,
				Type:      doc.Type,
				Tags:      doc.Tags,
				Metadata:  doc.Metadata,
				CreatedAt: doc.CreatedAt,
				UpdatedAt: doc.UpdatedAt,
			}
		}

		var data []byte
		switch exportFormat {
		case "yaml":
			data, err = yaml.Marshal(payload)
		case "json":
			data, err = json.MarshalIndent(payload, "", "  ")
		default:
			fatal("Unknown format", fmt.Errorf("%q (want json or yaml)", exportFormat))
		}
		if err != nil {
			fatal("Failed to serialize export", err)
		}

		if exportOut == "" || exportOut == "-" {
			fmt.Println(string(data))
			return
		}
		if err := os.WriteFile(exportOut, data, 0644); err != nil {
			fatal("Failed to write export file", err)
		}
		fmt.Printf("Exported %d documents to %s\n", len(keys), exportOut)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (stdout when omitted)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Export format: json or yaml")
}
