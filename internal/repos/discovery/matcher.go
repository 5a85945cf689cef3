package discovery

import (
	"strings"
	"unicode/utf8"
)

const gitDirectorySuffixConstant = ".git"

// IsGitDirectoryName reports whether name ends with ".git". Names that are not valid UTF-8 never match.
func IsGitDirectoryName(name string) bool {
	if !utf8.ValidString(name) {
		return false
	}
	return strings.HasSuffix(name, gitDirectorySuffixConstant)
}
