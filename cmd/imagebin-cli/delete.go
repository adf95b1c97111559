package main

import (
	"context"
	"os"

	"github.com/kmehta/imagebin/clientcli"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <image-id> [image-id...]",
	Short: "Delete images from the server",
	Long: `Delete one or more images.

Requires a user id, and only the owner of an image can delete it.

Examples:
  imagebin-cli delete 3b241101-e2bb-4255-8caf-4136c566a962
  imagebin-cli delete -q id-one id-two id-three`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelete,
}

func runDelete(_ *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	opts := clientcli.DeleteOptions{
		ImageIDs: args,
	}

	results, err := client.Delete(context.Background(), opts)
	if err != nil {
		return handleError(os.Stderr, err)
	}

	formatter := getFormatter()
	if err := formatter.FormatDelete(os.Stdout, results); err != nil {
		return err
	}

	// Return error if any deletes failed
	if clientcli.HasDeleteErrors(results) {
		return &exitError{code: 1}
	}

	return nil
}
