package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete [key]",
	Short: "Delete a document from the store",
	Long:  `Delete removes a document and its index entry. Deleting an absent key is a no-op.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]

		if !deleteForce {
			fmt.Printf("Are you sure you want to delete '%s'? (y/N): ", key)
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			if strings.ToLower(strings.TrimSpace(answer)) != "y" {
				fmt.Println("Aborted.")
				return
			}
		}

		service := openService()
		if err := service.DeleteDocument(context.Background(), key); err != nil {
			fatal("Failed to delete document", err)
		}
		fmt.Printf("Document '%s' deleted.\n", key)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVar(&deleteForce, "force", false, "Delete without confirmation")
}
