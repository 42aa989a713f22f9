// Package cli constructs the branchlog command-line application. It wires the
// branchlog Cobra command to the Viper configuration loader, the zap logger
// factory, and the persistent --config, --log-level, and --log-format flags.
package cli
