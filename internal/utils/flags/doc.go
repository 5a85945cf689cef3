// Package flags binds the yes/no toggles, choice flags, and scan roots shared by repostate commands.
package flags
