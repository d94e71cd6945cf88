package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/silt/pkg/core"
	"github.com/spf13/cobra"
)

var getFormat string

var getCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Retrieve and display a document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]
		service := openService()

		doc, err := service.GetDocument(context.Background(), key)
		if err != nil {
			fatal("Failed to get document", err)
		}

		if err := renderDocument(os.Stdout, doc, getFormat); err != nil {
			fatal("Failed to render document", err)
		}
	},
}

// renderDocument writes a document in one of the supported output formats.
func renderDocument(w io.Writer, doc core.Document, format string) error {
	switch format {
	case "json":
		data, err := doc.MarshalRecord()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
	case "content":
		fmt.Fprintln(w, doc.Content)
	case "default":
		fmt.Fprintf(w, "Key: %s\n", doc.Key)
		fmt.Fprintf(w, "Type: %s\n", doc.Type)
		fmt.Fprintf(w, "Tags: [%s]\n", strings.Join(doc.Tags, ", "))
		fmt.Fprintf(w, "Created: %s\n", doc.CreatedAt)
		fmt.Fprintf(w, "Updated: %s\n", doc.UpdatedAt)
		fmt.Fprintf(w, "Metadata: %v\n", doc.Metadata)
		fmt.Fprintf(w, "Content:\n%s\n", doc.Content)
	default:
		return fmt.Errorf("unknown format %q (want json, content, or default)", format)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().StringVar(&getFormat, "format", "default", "Output format: json, content, or default")
}
