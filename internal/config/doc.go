// Package config provides configuration management for the imagedata tools.
//
// This package handles:
//   - Default configuration values (the fixed user list, folder names and CSV paths)
//   - Loading and saving settings from JSON files
//   - Overrides from .env files and IMAGEDATA_* environment variables
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Builds users/{Bingqing,Jiachen,Chao,Xuehua} into imagedata-suzhou.csv
//	// Imports archive/users/user*/{greenpark,sciencepark}/*.json into imagedata-shz.csv
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	// Uses defaults if the file doesn't exist
//
// # Environment
//
//	_ = config.LoadEnv()          // reads .env if present
//	err := settings.ApplyEnv()    // IMAGEDATA_ROOT, IMAGEDATA_USERS, ...
//
// Relative paths in Settings are resolved against Root; use the *Path
// helpers rather than joining by hand.
package config
