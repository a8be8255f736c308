// Package config loads the shell configuration.
//
// Values come from, in increasing precedence: struct-tag defaults, the
// environment (kelseyhightower/envconfig), and an optional TOML or YAML file
// named by KIOSK_CONFIG.
//
// Example KIOSK_CONFIG file:
//
//	[shell]
//	home_url = "https://status.example.com"
//	keep_alive = true
//
//	[window]
//	width = 1920
//	height = 1080
package config
