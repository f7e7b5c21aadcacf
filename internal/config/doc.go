// Package config loads and validates application settings.
//
// Values come from, in increasing precedence: built-in defaults, a
// config.yaml or config.toml file in the working directory or
// $HOME/.flashdeck, a .env file, and FLASHDECK_-prefixed environment
// variables. A .env entry never overrides a variable already set in the
// process environment.
package config
