// Package cli provides command-line interface setup and configuration
// for cmdref. It handles flag parsing, command creation, and configuration
// management using cobra and viper, with API keys optionally read from a
// local .env file.
package cli
