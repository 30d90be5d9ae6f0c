// Package cli implements the pipecli command-line interface.
//
// pipecli is a workbench for command trees declared in YAML (see package
// treefile). Each subcommand loads a tree, builds it against the built-in
// handlers and drives an argument vector through part of the pipeline:
//
//	pipecli run --tree FILE -- ARGS...     - tokenize, parse, bind and invoke
//	pipecli parse --tree FILE -- ARGS...   - print the parse report only
//	pipecli tokens -- ARGS...              - print the token stream
//	pipecli tree --tree FILE               - print help for every command
//	pipecli init                           - write .pipecli.yaml with the defaults
//	pipecli version                        - print build information
//
// # Flag Handling
//
// Global flags (--config, --verbose, --no-color) are defined on the root
// command. The run, parse and tokens commands stop flag parsing at the first
// argument so that everything after it reaches the tree untouched; use "--"
// to be explicit.
//
// # Settings
//
// Settings come from the file named by --config, or the nearest
// .pipecli.yaml above the working directory, or ~/.config/pipecli/config.yaml,
// with PIPECLI_* environment variables layered on top.
//
// # Exit Codes
//
// The run command exits with the pipeline's exit code. Structured errors
// map to their fixed codes and any other command error exits 1.
package cli
