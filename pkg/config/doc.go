// Package config provides configuration management for the platform.
//
// Configuration is layered: built-in defaults, then platform.yml, then
// environment variables. Each attribute remembers which layer set it so
// operators can audit the effective configuration.
//
// # Key Configuration Options
//
//   - PLATFORM_DATA_KEY: Base64 secret the encryption key derives from
//     (environment only, never read from file)
//   - DATABASE_URL: PostgreSQL connection string (environment only)
//   - PLATFORM_CONFIG_PATH: Directory holding platform.yml
//   - KB_ROOT: Knowledge base root directory
//   - PLATFORM_PORT: Server listen port
package config
