// Package config defines the panel settings and provides helpers to load,
// validate and save them in YAML format.
//
// Values from the file can be overridden by SECURITY_PANEL_* environment
// variables and then by explicit options supplied from the command line.
package config
