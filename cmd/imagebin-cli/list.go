package main

import (
	"context"
	"os"
	"strings"

	"github.com/kmehta/imagebin/clientcli"
	"github.com/spf13/cobra"
)

var (
	listOwner string
	listTags  []string
	listFrom  string
	listTo    string
	listTitle string
	listLimit int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List images on the server",
	Long: `List images on the server, newest first.

Without filters, lists everything up to the limit. Dates are RFC3339
timestamps or YYYY-MM-DD prefixes.

Examples:
  imagebin-cli list
  imagebin-cli list --owner alice
  imagebin-cli list --tag sky --tag evening
  imagebin-cli list --from 2026-01-01 --to 2026-02-01
  imagebin-cli list --title sunset --limit 10`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listOwner, "owner", "", "filter by owner user id")
	listCmd.Flags().StringArrayVar(&listTags, "tag", nil, "filter by tag (repeatable, all must match)")
	listCmd.Flags().StringVar(&listFrom, "from", "", "only images created at or after this date")
	listCmd.Flags().StringVar(&listTo, "to", "", "only images created at or before this date")
	listCmd.Flags().StringVar(&listTitle, "title", "", "filter by title substring")
	listCmd.Flags().IntVarP(&listLimit, "limit", "l", 0, "max results (default: server decides)")
}

func runList(_ *cobra.Command, _ []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	opts := clientcli.ListOptions{
		OwnerID:  listOwner,
		Tags:     strings.Join(listTags, ","),
		DateFrom: listFrom,
		DateTo:   listTo,
		Title:    listTitle,
		Limit:    listLimit,
	}

	result, err := client.List(context.Background(), opts)
	if err != nil {
		return handleError(os.Stderr, err)
	}

	formatter := getFormatter()
	return formatter.FormatList(os.Stdout, result)
}
