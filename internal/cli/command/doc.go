// Package command defines the vitalis-cli commands.
//
// It uses urfave/cli/v2 for parsing. The Before hook wires shared state
// (configuration, logger, credential store, session controller and the
// service client) into an Env stored in app metadata, so every action
// works against the same session.
package command
