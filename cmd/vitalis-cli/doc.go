// Package main provides the entry point for vitalis-cli.
//
// The CLI is a client for the health-report analysis service:
//
//   - Account lifecycle (register, verify, login, logout)
//   - Password recovery (forgot, reset)
//   - Report upload, listing and analysis display
//   - Interactive assistant chat about a report
//
// Usage:
//
//	vitalis-cli [command] [flags]
//	vitalis-cli login -u alice
//	vitalis-cli report upload bloodwork.pdf
//	vitalis-cli chat
package main
