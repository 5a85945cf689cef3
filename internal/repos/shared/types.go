// Package shared declares the collaborator interfaces used across the repository scan.
package shared

import (
	"context"
	"io/fs"

	"github.com/temirov/repostate/internal/execshell"
	"github.com/temirov/repostate/internal/gitrepo"
)

// FileSystem exposes the filesystem operations required by discovery and repository inspection.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	Lstat(path string) (fs.FileInfo, error)
	ReadDir(path string) ([]fs.DirEntry, error)
	Abs(path string) (string, error)
}

// GitExecutor exposes the subset of shell execution used by repository services.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryManager opens repositories and reads their working tree status.
type RepositoryManager interface {
	Open(executionContext context.Context, gitDirectoryPath string) (*gitrepo.Repository, error)
	Status(executionContext context.Context, repository *gitrepo.Repository, options gitrepo.StatusOptions) ([]gitrepo.StatusEntry, error)
}
