package main

import (
	"context"
	"os"

	"github.com/kmehta/imagebin/clientcli"
	"github.com/spf13/cobra"
)

var (
	uploadTitle       string
	uploadDescription string
	uploadTags        []string
)

var uploadCmd = &cobra.Command{
	Use:   "upload <local-path> [local-path...]",
	Short: "Upload images to the server",
	Long: `Upload one or more images to the server.

Requires a user id (flag, profile, or IMAGEBIN_USER_ID). Title and
description apply to every file in the same invocation, so they are
most useful with a single file.

Examples:
  imagebin-cli upload ./sunset.png
  imagebin-cli upload --title "Sunset" --tag sky --tag evening ./sunset.png
  imagebin-cli upload ./a.jpg ./b.jpg ./c.jpg`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVarP(&uploadTitle, "title", "t", "", "image title")
	uploadCmd.Flags().StringVarP(&uploadDescription, "description", "d", "", "image description")
	uploadCmd.Flags().StringArrayVar(&uploadTags, "tag", nil, "tag to attach (repeatable)")
}

func runUpload(_ *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	results := make([]clientcli.UploadResult, 0, len(args))
	for _, localPath := range args {
		opts := clientcli.UploadOptions{
			LocalPath:   localPath,
			Title:       uploadTitle,
			Description: uploadDescription,
			Tags:        uploadTags,
		}

		result, uploadErr := client.Upload(context.Background(), opts)
		if uploadErr != nil {
			result = clientcli.UploadResult{LocalPath: localPath, Err: uploadErr}
		}
		results = append(results, result)
	}

	formatter := getFormatter()
	if err := formatter.FormatUpload(os.Stdout, results); err != nil {
		return err
	}

	// Check for any errors in results
	for i := range results {
		if results[i].Err != nil {
			return &exitError{code: 1}
		}
	}

	return nil
}
