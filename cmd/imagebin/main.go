package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "imagebin",
	Short:   "Image hosting server",
	Long: `Imagebin is a small image hosting server that provides a REST API
for uploading, listing, viewing, and deleting images, backed by a
metadata database and an object store.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("db-type", "", "database type: sqlite, postgres (default: sqlite, env: IMAGEBIN_DATABASE_TYPE)")
	rootCmd.PersistentFlags().String("db-dsn", "", "database connection string (default: imagebin.db, env: IMAGEBIN_DATABASE_DSN)")
	rootCmd.PersistentFlags().String("db-table", "", "metadata table name (default: image_metadata, env: IMAGEBIN_DATABASE_TABLE)")
	rootCmd.PersistentFlags().String("storage-type", "", "storage backend: filesystem, minio (default: filesystem, env: IMAGEBIN_STORAGE_TYPE)")
	rootCmd.PersistentFlags().String("storage-path", "", "storage directory path (default: ./data, env: IMAGEBIN_STORAGE_PATH)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
