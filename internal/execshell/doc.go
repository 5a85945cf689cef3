// Package execshell runs external tools on behalf of repostate.
//
// ShellExecutor wraps a CommandRunner with structured zap logging and
// lifecycle notifications, and converts non-zero exits into typed errors.
// OSCommandRunner is the os/exec backed runner used outside of tests.
package execshell
