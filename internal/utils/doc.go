// Package utils holds the configuration loader and logger factory shared by
// the repostate entrypoint: Viper layering of embedded defaults, files and
// REPOSTATE_ environment variables, and zap loggers with an optional rotating
// log file.
package utils
