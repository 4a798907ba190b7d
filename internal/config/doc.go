// Package config provides centralized configuration management for the dashboard.
// It loads configuration from several sources, validates it and resolves the
// file system paths the rest of the application works with.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority), optionally seeded from a .env file
//  2. A YAML configuration file (config.yaml, configs/config.yaml or BIKESHARE_CONFIG)
//  3. Default values from struct tags (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern BIKESHARE_<SECTION>_<FIELD>:
//
//	BIKESHARE_SERVER_PORT=8080
//	BIKESHARE_DATASET_FILE=data/clean_bikeshare_hour.csv
//	BIKESHARE_DATASET_NORMALIZED_TEMPERATURE=true
//	BIKESHARE_LOGGING_LEVEL=debug
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	paths, err := cfg.ResolvePaths()
package config
