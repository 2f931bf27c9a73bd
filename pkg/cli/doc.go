// Package cli provides common utilities for the blobkv command-line
// tool.
//
// This package includes:
//   - Configuration management (store contexts)
//   - Output formatting (YAML, JSON, raw)
//   - Paths under the blobkv home directory
//
// Configuration is stored in ~/.blobkv/config.yaml, supporting
// multiple named contexts similar to kubectl. Each context describes
// one store backend and its parameters.
//
// Example usage:
//
//	// Load the configuration
//	cfg, err := cli.LoadConfig("")
//
//	// Resolve a context by name (or the current one)
//	ctx, err := cfg.ResolveContext("prod")
//
//	// Output result
//	cli.Output(result, cli.OutputOptions{
//	    Format: cli.FormatJSON,
//	})
package cli
