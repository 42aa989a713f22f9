// Package utils holds the ambient plumbing shared by the branchlog commands.
//
// ConfigurationLoader layers embedded defaults, configuration files, and
// BRANCHLOG_ environment variables through Viper. LoggerFactory builds zap
// loggers writing to standard error so standard output carries only the
// drawing. FlushingWriter and CommandContextAccessor support command execution.
package utils
