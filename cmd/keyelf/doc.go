// Package keyelf provides the command-line interface for the keyelf tool.
// The root command scans a file, device or directory for raw private keys;
// subcommands cover configuration, run history and shell completion.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/redactyl/keyelf/cmd/keyelf"
//	func main() { keyelf.Execute() }
package keyelf
