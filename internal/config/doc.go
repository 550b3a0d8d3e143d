// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.tood/tood.toml or OS-specific config directory)
// 3. Project config file (tood.toml or .tood.toml in the working directory)
// 4. Environment variables (TOOD_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.tood/tood.toml (preferred)
// - Windows: %APPDATA%\tood\tood.toml
// - macOS: ~/Library/Application Support/tood/tood.toml
// - Linux/BSD: $XDG_CONFIG_HOME/tood/tood.toml or ~/.config/tood/tood.toml
package config
