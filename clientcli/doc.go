// Package clientcli provides a client library for interacting with imagebin servers.
//
// It supports upload, download, delete, list, and view operations. The
// package includes profile-based configuration for managing connections to
// multiple servers.
//
// # Basic Usage
//
// Create a client and upload an image:
//
//	cfg := &clientcli.Config{
//		Endpoint: "http://localhost:8080",
//		UserID:   "alice",
//	}
//
//	client, err := clientcli.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := client.Upload(ctx, clientcli.UploadOptions{
//		LocalPath: "./sunset.png",
//		Title:     "Sunset",
//		Tags:      []string{"sky", "evening"},
//	})
//
// # Profile Configuration
//
// Use profiles to manage multiple server configurations:
//
//	configFile, err := clientcli.LoadConfigFile("~/.imagebin/config.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	profile, err := configFile.GetProfile("production")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	cfg := clientcli.ConfigFromProfile(profile)
//	client, err := clientcli.New(cfg)
//
// # Output Formatting
//
// Use formatters for human-readable or JSON output:
//
//	formatter := clientcli.NewFormatter(jsonOutput, quiet)
//	formatter.FormatUpload(os.Stdout, results)
package clientcli
