package pathutils

import (
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
)

// RootSanitizer turns raw scan root arguments into a deduplicated list of directories.
// Blank entries are dropped and "~" is expanded. Roots nested inside another root are
// removed so no repository is visited twice.
type RootSanitizer struct {
	homeExpander *HomeExpander
}

// NewRootSanitizer constructs a RootSanitizer. A nil expander falls back to the operating system home directory.
func NewRootSanitizer(homeExpander *HomeExpander) *RootSanitizer {
	if homeExpander == nil {
		homeExpander = NewHomeExpander()
	}
	return &RootSanitizer{homeExpander: homeExpander}
}

// Sanitize returns the surviving roots in their original order, or nil when none remain.
func (sanitizer *RootSanitizer) Sanitize(candidateRoots []string) []string {
	expandedRoots := make([]string, 0, len(candidateRoots))
	for _, candidateRoot := range candidateRoots {
		trimmedRoot := strings.TrimSpace(candidateRoot)
		if len(trimmedRoot) == 0 {
			continue
		}
		expandedRoots = append(expandedRoots, sanitizer.homeExpander.Expand(trimmedRoot))
	}
	if len(expandedRoots) == 0 {
		return nil
	}
	return pruneNestedRoots(expandedRoots)
}

func pruneNestedRoots(roots []string) []string {
	comparisonKeys := make([]string, len(roots))
	for index, root := range roots {
		comparisonKeys[index] = comparisonKey(root)
	}

	keptRoots := make([]string, 0, len(roots))
	for index, root := range roots {
		covered := false
		for otherIndex := range roots {
			if otherIndex == index {
				continue
			}
			sameRoot := comparisonKeys[otherIndex] == comparisonKeys[index]
			if sameRoot && otherIndex < index {
				covered = true
				break
			}
			if !sameRoot && isNestedPath(comparisonKeys[otherIndex], comparisonKeys[index]) {
				covered = true
				break
			}
		}
		if !covered && !slices.Contains(keptRoots, root) {
			keptRoots = append(keptRoots, root)
		}
	}
	return keptRoots
}

func comparisonKey(path string) string {
	cleanedPath := filepath.Clean(path)
	if absolutePath, absoluteError := filepath.Abs(cleanedPath); absoluteError == nil {
		cleanedPath = absolutePath
	}
	if runtime.GOOS == "windows" {
		cleanedPath = strings.ToLower(cleanedPath)
	}
	return cleanedPath
}

func isNestedPath(parent string, candidate string) bool {
	if len(candidate) <= len(parent) || !strings.HasPrefix(candidate, parent) {
		return false
	}
	if parent[len(parent)-1] == os.PathSeparator {
		return true
	}
	return candidate[len(parent)] == os.PathSeparator
}
