// Package main hosts the Cadenza CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into catalog
// operations: defining terms (find or generate), enhancing stored entries,
// running batch files, detecting term languages, and inspecting the local
// entry database. It centralizes configuration resolution, logger setup and
// pipeline wiring so subcommands can focus on presentation.
//
// Keep this package lean: add new functionality to the internal packages
// first, then surface it through dedicated commands or flags here.
package main
