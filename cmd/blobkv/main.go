// Package main provides the blobkv CLI tool.
//
// Usage:
//
//	blobkv [flags] <command> [args]
//
// Commands:
//
//	put      - Store a value from a file or stdin
//	get      - Read a value
//	rm       - Delete a value
//	ls       - List keys
//	exists   - Check whether a key is present
//	url      - Derive the external URL for a key
//	config   - Configuration management
//
// Configuration:
//
//	The CLI stores configuration in ~/.blobkv/
//	Use 'blobkv config' commands to manage store contexts.
package main

import (
	"fmt"
	"os"

	"github.com/haivivi/blobkv/cmd/blobkv/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
