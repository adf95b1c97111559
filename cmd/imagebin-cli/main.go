package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kmehta/imagebin/clientcli"
	"github.com/spf13/cobra"
)

var (
	version = "dev"

	cfgFile     string
	profileName string
	endpoint    string
	userID      string
	jsonOutput  bool
	quiet       bool
)

var rootCmd = &cobra.Command{
	Use:     "imagebin-cli",
	Version: version,
	Short:   "Client for the imagebin image hosting server",
	Long: `imagebin-cli - Client for the imagebin image hosting server

Upload, list, view, download, and delete images. Connection settings
come from profiles in ~/.imagebin/config.yaml, environment variables
(IMAGEBIN_ENDPOINT, IMAGEBIN_USER_ID), or flags; flags win.

Uploading and deleting require a user id; listing and downloading
do not.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.imagebin/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&profileName, "profile", "p", "", "profile name (env: IMAGEBIN_PROFILE)")
	rootCmd.PersistentFlags().StringVarP(&endpoint, "endpoint", "e", "", "server URL (default: http://localhost:8080, env: IMAGEBIN_ENDPOINT)")
	rootCmd.PersistentFlags().StringVarP(&userID, "user", "u", "", "user id for uploads and deletes (env: IMAGEBIN_USER_ID)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(configureCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode maps a command error to the process exit status, honoring an
// exitError's explicit code.
func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}

// getConfigPath resolves the config file path from flag, env, or default.
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if envPath := clientcli.ConfigPathFromEnv(); envPath != "" {
		return envPath
	}
	return clientcli.DefaultConfigPath()
}

// buildConfig merges config from profile, env vars, and flags (flags take precedence).
func buildConfig() (*clientcli.Config, error) {
	var configs []*clientcli.Config

	// 1. Load from the selected profile, if any
	name := profileName
	if name == "" {
		name = clientcli.ProfileFromEnv()
	}

	configPath := getConfigPath()
	if configPath != "" {
		fileCfg, err := clientcli.LoadConfigFile(configPath)
		switch {
		case err != nil && name != "":
			// A named profile needs a readable config file
			return nil, fmt.Errorf("load config: %w", err)
		case err == nil && name != "":
			p, profErr := fileCfg.GetProfile(name)
			if profErr != nil {
				return nil, profErr
			}
			configs = append(configs, clientcli.ConfigFromProfile(p))
		case err == nil:
			if p, profErr := fileCfg.GetDefaultProfile(); profErr == nil {
				configs = append(configs, clientcli.ConfigFromProfile(p))
			}
		}
	}

	// 2. Load from environment variables
	configs = append(configs, clientcli.ConfigFromEnv())

	// 3. Load from flags
	configs = append(configs, &clientcli.Config{
		Endpoint: endpoint,
		UserID:   userID,
	})

	return clientcli.MergeConfig(configs...), nil
}

// getFormatter returns the appropriate formatter based on flags.
func getFormatter() clientcli.Formatter {
	return clientcli.NewFormatter(jsonOutput, quiet)
}

// getClient creates and returns a configured client.
func getClient() (*clientcli.Client, error) {
	cfg, err := buildConfig()
	if err != nil {
		return nil, err
	}

	return clientcli.New(cfg)
}

// handleError formats an error and returns it so cobra sets a nonzero
// exit code without double printing.
func handleError(w io.Writer, err error) error {
	formatter := getFormatter()
	_ = formatter.FormatError(w, err)
	return &exitError{code: 1}
}

// exitError is returned when we want to exit with a specific code
// but don't want cobra to print an error message.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return ""
}
