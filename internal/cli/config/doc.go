// Package config defines the CLI configuration structure and its loader.
//
// Configuration is resolved from multiple sources with priority
// (highest to lowest):
//
//  1. Command-line flags
//  2. Environment variables (VITALIS_*)
//  3. Configuration file (~/.vitalis/cli.yaml)
//  4. Built-in defaults
package config
