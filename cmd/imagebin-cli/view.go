package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var viewCmd = &cobra.Command{
	Use:   "view <image-id>",
	Short: "Show metadata for an image",
	Long: `Show metadata for a single image without downloading its content.

Examples:
  imagebin-cli view 3b241101-e2bb-4255-8caf-4136c566a962
  imagebin-cli view --json 3b241101-e2bb-4255-8caf-4136c566a962`,
	Args: cobra.ExactArgs(1),
	RunE: runView,
}

func runView(_ *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	rec, err := client.View(context.Background(), args[0])
	if err != nil {
		return handleError(os.Stderr, err)
	}

	formatter := getFormatter()
	return formatter.FormatView(os.Stdout, rec)
}
