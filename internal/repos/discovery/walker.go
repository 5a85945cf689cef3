package discovery

import (
	"context"
	"fmt"
	"io/fs"
	"iter"
	"path/filepath"

	"github.com/temirov/repostate/internal/gitrepo"
)

const (
	traversalErrorTemplateConstant  = "unable to traverse %s: %v"
	repositoryErrorTemplateConstant = "skipping %s: %v"
)

// FileSystem is the directory access the walker needs.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	ReadDir(path string) ([]fs.DirEntry, error)
}

// RepositoryOpener turns a matched directory into a repository handle.
type RepositoryOpener interface {
	Open(executionContext context.Context, gitDirectoryPath string) (*gitrepo.Repository, error)
}

// WalkErrorKind distinguishes directory traversal failures from repository open failures.
type WalkErrorKind int

const (
	// WalkErrorKindTraversal means an entry could not be inspected or listed.
	WalkErrorKindTraversal WalkErrorKind = iota
	// WalkErrorKindRepository means a matched directory could not be opened as a repository.
	WalkErrorKindRepository
)

// WalkError is a non-fatal failure produced during a walk.
type WalkError struct {
	Kind  WalkErrorKind
	Path  string
	Cause error
}

// Error describes the failure.
func (walkError *WalkError) Error() string {
	if walkError.Kind == WalkErrorKindRepository {
		return fmt.Sprintf(repositoryErrorTemplateConstant, walkError.Path, walkError.Cause)
	}
	return fmt.Sprintf(traversalErrorTemplateConstant, walkError.Path, walkError.Cause)
}

// Unwrap exposes the underlying cause.
func (walkError *WalkError) Unwrap() error {
	return walkError.Cause
}

// WalkResult carries either a repository or the error encountered in its place.
type WalkResult struct {
	Repository *gitrepo.Repository
	Err        error
}

type pendingEntry struct {
	path  string
	entry fs.DirEntry
}

// RepositoryWalker is a depth-first, pre-order cursor over the git directories below a root.
// Matched directories are opened and never descended into. Symlinks below the root are not followed.
type RepositoryWalker struct {
	fileSystem FileSystem
	opener     RepositoryOpener
	pending    []pendingEntry
}

// NewRepositoryWalker prepares a walk rooted at root. The root itself may match.
func NewRepositoryWalker(root string, fileSystem FileSystem, opener RepositoryOpener) *RepositoryWalker {
	return &RepositoryWalker{
		fileSystem: fileSystem,
		opener:     opener,
		pending:    []pendingEntry{{path: root}},
	}
}

// Next advances to the next repository or error. It returns false once the walk is exhausted.
func (walker *RepositoryWalker) Next(executionContext context.Context) (WalkResult, bool) {
	for len(walker.pending) > 0 {
		lastIndex := len(walker.pending) - 1
		current := walker.pending[lastIndex]
		walker.pending = walker.pending[:lastIndex]

		isDirectory, inspectError := walker.isDirectory(current)
		if inspectError != nil {
			return WalkResult{Err: &WalkError{Kind: WalkErrorKindTraversal, Path: current.path, Cause: inspectError}}, true
		}
		if !isDirectory {
			continue
		}

		if IsGitDirectoryName(filepath.Base(current.path)) {
			repository, openError := walker.opener.Open(executionContext, current.path)
			if openError != nil {
				return WalkResult{Err: &WalkError{Kind: WalkErrorKindRepository, Path: current.path, Cause: openError}}, true
			}
			return WalkResult{Repository: repository}, true
		}

		directoryEntries, readError := walker.fileSystem.ReadDir(current.path)
		if readError != nil {
			return WalkResult{Err: &WalkError{Kind: WalkErrorKindTraversal, Path: current.path, Cause: readError}}, true
		}

		// Pushed in reverse so the lexically first child is visited first.
		for entryIndex := len(directoryEntries) - 1; entryIndex >= 0; entryIndex-- {
			directoryEntry := directoryEntries[entryIndex]
			if !directoryEntry.IsDir() {
				continue
			}
			walker.pending = append(walker.pending, pendingEntry{
				path:  filepath.Join(current.path, directoryEntry.Name()),
				entry: directoryEntry,
			})
		}
	}
	return WalkResult{}, false
}

// All adapts the walker to a range-over-func sequence of repositories and errors.
func (walker *RepositoryWalker) All(executionContext context.Context) iter.Seq2[*gitrepo.Repository, error] {
	return func(yield func(*gitrepo.Repository, error) bool) {
		for {
			result, exists := walker.Next(executionContext)
			if !exists {
				return
			}
			if !yield(result.Repository, result.Err) {
				return
			}
		}
	}
}

func (walker *RepositoryWalker) isDirectory(current pendingEntry) (bool, error) {
	if current.entry != nil {
		return current.entry.IsDir(), nil
	}
	fileInfo, statError := walker.fileSystem.Stat(current.path)
	if statError != nil {
		return false, statError
	}
	return fileInfo.IsDir(), nil
}
