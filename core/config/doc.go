// Package config provides configuration management for the media catalog.
//
// Values come from environment variables, optionally seeded from a .env file
// (godotenv), and are resolved through Viper. Defaults live in the `default` struct
// tags of each section.
//
// # Configuration Structure
//
//   - Server: HTTP port, API key, read timeout
//   - Database: driver (mysql, sqlite), connection details, auto migration
//   - Storage: S3/MinIO credentials and the report bucket
//   - Log: level and format
//   - Catalog: ReferenceOrder lock mode and timeouts
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Catalog.LockMode)
package config
