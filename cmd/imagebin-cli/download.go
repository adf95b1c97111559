package main

import (
	"context"
	"io"
	"os"

	"github.com/kmehta/imagebin/clientcli"
	"github.com/spf13/cobra"
)

var (
	downloadOutput string
	downloadStdout bool
)

var downloadCmd = &cobra.Command{
	Use:   "download <image-id> [local-path]",
	Short: "Download an image from the server",
	Long: `Download an image's content.

Without a local path, the file is named after the server's stored
filename. Use --stdout to pipe the raw bytes instead.

Examples:
  imagebin-cli download 3b241101-e2bb-4255-8caf-4136c566a962
  imagebin-cli download 3b241101-e2bb-4255-8caf-4136c566a962 ./sunset.png
  imagebin-cli download --stdout 3b241101-e2bb-4255-8caf-4136c566a962 > out.png
  imagebin-cli download -o ./out.png 3b241101-e2bb-4255-8caf-4136c566a962`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "", "output file path")
	downloadCmd.Flags().BoolVar(&downloadStdout, "stdout", false, "write to stdout")
}

func runDownload(_ *cobra.Command, args []string) error {
	imageID := args[0]

	// Determine local path
	localPath := ""
	if len(args) > 1 {
		localPath = args[1]
	}
	if downloadOutput != "" {
		localPath = downloadOutput
	}
	if downloadStdout {
		localPath = "-"
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	opts := clientcli.DownloadOptions{
		ImageID:   imageID,
		LocalPath: localPath,
	}

	result, reader, err := client.Download(context.Background(), opts)
	if err != nil {
		return handleError(os.Stderr, err)
	}

	// If stdout, write content to stdout
	if reader != nil {
		defer func() { _ = reader.Close() }()
		if _, err := io.Copy(os.Stdout, reader); err != nil {
			return err
		}
		// Don't print metadata when writing to stdout (unless JSON mode)
		if jsonOutput {
			formatter := getFormatter()
			return formatter.FormatDownload(os.Stderr, result)
		}
		return nil
	}

	formatter := getFormatter()
	return formatter.FormatDownload(os.Stdout, result)
}
