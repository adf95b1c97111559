// Package config provides configuration loading and validation for imagebin.
//
// The package handles YAML configuration files, environment variables, and CLI flags
// with automatic merging and validation using go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (IMAGEBIN_ prefix)
//  4. CLI flags
//
// # Usage
//
//	cfg, err := config.Load([]string{"config.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Store in context for subcommands
//	ctx = config.WithContext(ctx, cfg)
//
//	// Retrieve later
//	cfg, err = config.FromContext(ctx)
//
// # Environment Variables
//
// All config keys map to environment variables with IMAGEBIN_ prefix:
//   - server.port → IMAGEBIN_SERVER_PORT
//   - database.type → IMAGEBIN_DATABASE_TYPE
//   - storage.type → IMAGEBIN_STORAGE_TYPE
//
// # Configuration Structure
//
// The Config struct contains:
//   - Server: port and max_upload_size
//   - Database: type (sqlite/postgres), DSN, and metadata table name
//   - Storage: backend type (filesystem/minio) and its settings
//   - Log: logging level
//
// # Validation
//
// Configuration is validated using struct tags:
//   - Port must be 1-65535
//   - Storage type must be filesystem or minio
//   - Log level must be debug, info, warn, or error
package config
