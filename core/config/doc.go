// Package config provides configuration management for the event sync service.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: MySQL connection details
//   - Storage: S3/MinIO credentials and bucket for event images
//   - Log: Logging level and format
//   - Sync: Cron schedule and enabled sources
//
// Runtime sync settings (API tokens, publish policy, date windows) live in the
// database-backed settings store instead; see core/settings.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
