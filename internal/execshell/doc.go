// Package execshell provides structured helpers for invoking external tools.
//
// ShellExecutor wraps a CommandRunner (OSCommandRunner by default), reports
// each invocation to a CommandEventObserver, and turns non-zero exits into
// CommandFailedError values so callers never have to inspect exit codes.
package execshell
