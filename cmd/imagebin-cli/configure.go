package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/kmehta/imagebin/clientcli"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Manage server profiles",
	Long: `Manage server profiles in the configuration file.

Profiles allow you to save connection settings for multiple imagebin
servers and easily switch between them using --profile or
IMAGEBIN_PROFILE.

Configuration is stored in ~/.imagebin/config.yaml`,
}

var configureListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configured profiles",
	Long: `List all profiles configured in the config file.

The default profile is marked with an asterisk (*).`,
	RunE: runConfigureList,
}

var configureAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a new profile",
	Long: `Add a new profile interactively.

You will be prompted for:
  - Endpoint URL
  - User id
  - Whether to set as default

The endpoint connection will be tested before saving.`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigureAdd,
}

var configureRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a profile",
	Args:    cobra.ExactArgs(1),
	RunE:    runConfigureRemove,
}

var configureSetDefaultCmd = &cobra.Command{
	Use:   "set-default <name>",
	Short: "Set the default profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigureSetDefault,
}

var configureShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show profile details",
	Long: `Show details for a profile.

If no name is provided, shows the default profile.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigureShow,
}

func init() {
	configureCmd.AddCommand(configureListCmd)
	configureCmd.AddCommand(configureAddCmd)
	configureCmd.AddCommand(configureRemoveCmd)
	configureCmd.AddCommand(configureSetDefaultCmd)
	configureCmd.AddCommand(configureShowCmd)
}

func runConfigureList(_ *cobra.Command, _ []string) error {
	configPath := getConfigPath()

	cfg, err := clientcli.LoadConfigFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Println("No profiles configured.")
			fmt.Println("Run 'imagebin-cli configure add <name>' to create one.")
			return nil
		}
		return fmt.Errorf("load config: %w", err)
	}

	if len(cfg.Profiles) == 0 {
		fmt.Println("No profiles configured.")
		fmt.Println("Run 'imagebin-cli configure add <name>' to create one.")
		return nil
	}

	// Find default profile name
	defaultName := ""
	for _, p := range cfg.Profiles {
		if p.Default {
			defaultName = p.Name
			break
		}
	}
	if defaultName == "" && len(cfg.Profiles) > 0 {
		defaultName = cfg.Profiles[0].Name
	}

	formatter := getFormatter()
	return formatter.FormatProfileList(os.Stdout, cfg.Profiles, defaultName)
}

func runConfigureAdd(_ *cobra.Command, args []string) error {
	name := args[0]
	configPath := getConfigPath()

	// Load existing config or create new
	cfg, err := clientcli.LoadConfigFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg = &clientcli.ConfigFile{}
		} else {
			return fmt.Errorf("load config: %w", err)
		}
	}

	// Check if profile already exists
	existingProfile, _ := cfg.GetProfile(name)
	if existingProfile != nil {
		prompt := promptui.Prompt{
			Label:     fmt.Sprintf("Profile '%s' already exists. Update it", name),
			IsConfirm: true,
		}
		if _, promptErr := prompt.Run(); promptErr != nil {
			fmt.Println("Cancelled.")
			return nil //nolint:nilerr // User cancelled, not an error
		}
	}

	// Prompt for endpoint URL
	endpointPrompt := promptui.Prompt{
		Label:   "Endpoint URL",
		Default: clientcli.DefaultEndpoint,
		Validate: func(input string) error {
			if input == "" {
				return errors.New("endpoint URL is required")
			}
			parsedURL, parseErr := url.Parse(input)
			if parseErr != nil {
				return fmt.Errorf("invalid URL: %w", parseErr)
			}
			if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
				return errors.New("URL must start with http:// or https://")
			}
			return nil
		},
	}
	endpointURL, err := endpointPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	// Prompt for user id. Optional: listing and downloading work without one.
	userIDPrompt := promptui.Prompt{
		Label: "User ID (optional)",
	}
	userIDVal, err := userIDPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	// Prompt for default
	setAsDefault := false
	if len(cfg.Profiles) == 0 {
		setAsDefault = true // First profile is always default
	} else {
		defaultPrompt := promptui.Prompt{
			Label:     "Set as default profile",
			IsConfirm: true,
		}
		if _, promptErr := defaultPrompt.Run(); promptErr == nil {
			setAsDefault = true
		}
	}

	// Test connection
	fmt.Print("Testing connection... ")
	if connErr := testServerConnection(endpointURL); connErr != nil {
		fmt.Println("FAILED")
		fmt.Printf("Warning: Could not connect to server: %v\n", connErr)

		continuePrompt := promptui.Prompt{
			Label:     "Save profile anyway",
			IsConfirm: true,
		}
		if _, promptErr := continuePrompt.Run(); promptErr != nil {
			fmt.Println("Cancelled.")
			return nil //nolint:nilerr // User cancelled, not an error
		}
	} else {
		fmt.Println("OK")
	}

	// Create profile
	newProfile := clientcli.Profile{
		Name:     name,
		Endpoint: strings.TrimSuffix(endpointURL, "/"),
		UserID:   userIDVal,
		Default:  setAsDefault,
	}

	// If setting as default, clear default from others
	if setAsDefault {
		for i := range cfg.Profiles {
			cfg.Profiles[i].Default = false
		}
	}

	// Add or update profile
	if existingProfile != nil {
		err = cfg.UpdateProfile(newProfile)
	} else {
		err = cfg.AddProfile(newProfile)
	}
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	// Save config
	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	if existingProfile != nil {
		fmt.Printf("Profile '%s' updated.\n", name)
	} else {
		fmt.Printf("Profile '%s' added.\n", name)
	}

	if setAsDefault {
		fmt.Printf("Set as default profile.\n")
	}

	return nil
}

func runConfigureRemove(_ *cobra.Command, args []string) error {
	name := args[0]
	configPath := getConfigPath()

	cfg, err := clientcli.LoadConfigFile(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Check if profile exists
	if _, err = cfg.GetProfile(name); err != nil {
		return err
	}

	// Confirm removal
	prompt := promptui.Prompt{
		Label:     fmt.Sprintf("Remove profile '%s'", name),
		IsConfirm: true,
	}
	if _, promptErr := prompt.Run(); promptErr != nil {
		fmt.Println("Cancelled.")
		return nil //nolint:nilerr // User cancelled, not an error
	}

	if err := cfg.RemoveProfile(name); err != nil {
		return fmt.Errorf("remove profile: %w", err)
	}

	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("Profile '%s' removed.\n", name)
	return nil
}

func runConfigureSetDefault(_ *cobra.Command, args []string) error {
	name := args[0]
	configPath := getConfigPath()

	cfg, err := clientcli.LoadConfigFile(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.SetDefault(name); err != nil {
		return err
	}

	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("Default profile set to '%s'.\n", name)
	return nil
}

func runConfigureShow(_ *cobra.Command, args []string) error {
	configPath := getConfigPath()

	cfg, err := clientcli.LoadConfigFile(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var p *clientcli.Profile
	isDefault := false
	if len(args) > 0 {
		p, err = cfg.GetProfile(args[0])
		if err != nil {
			return err
		}
		isDefault = p.Default
	} else {
		p, err = cfg.GetDefaultProfile()
		if err != nil {
			return err
		}
		isDefault = true
	}

	formatter := getFormatter()
	return formatter.FormatProfileShow(os.Stdout, *p, isDefault)
}

// testServerConnection tests if the server is reachable.
// It sends a GET request to the health endpoint and considers any HTTP
// response as success.
func testServerConnection(endpointURL string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	healthURL := strings.TrimSuffix(endpointURL, "/") + "/healthz"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Any HTTP response means the server is reachable
	return nil
}

// handlePromptError handles promptui errors.
func handlePromptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) {
		fmt.Println("\nCancelled.")
		os.Exit(0)
	}
	if errors.Is(err, promptui.ErrAbort) {
		fmt.Println("Cancelled.")
		return nil
	}
	return err
}
