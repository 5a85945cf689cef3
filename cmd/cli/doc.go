// Package cli constructs the repostate command-line interface. It layers the
// embedded defaults, configuration files and REPOSTATE_ environment overrides,
// builds the zap loggers, and runs the scan command as the root command.
package cli
