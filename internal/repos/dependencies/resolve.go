// Package dependencies supplies default collaborators when callers do not inject their own.
package dependencies

import (
	"go.uber.org/zap"

	"github.com/temirov/repostate/internal/execshell"
	"github.com/temirov/repostate/internal/gitrepo"
	"github.com/temirov/repostate/internal/repos/filesystem"
	"github.com/temirov/repostate/internal/repos/shared"
)

// ResolveFileSystem returns the provided filesystem or an OS-backed default.
func ResolveFileSystem(existing shared.FileSystem) shared.FileSystem {
	if existing != nil {
		return existing
	}
	return filesystem.OSFileSystem{}
}

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default reporting to observer.
func ResolveGitExecutor(existing shared.GitExecutor, logger *zap.Logger, observer execshell.CommandEventObserver) (shared.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner, observer)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

// ResolveRepositoryManager returns the provided manager or constructs one from the executor and filesystem.
func ResolveRepositoryManager(existing shared.RepositoryManager, executor shared.GitExecutor, fileSystem shared.FileSystem) (shared.RepositoryManager, error) {
	if existing != nil {
		return existing, nil
	}
	repositoryManager, creationError := gitrepo.NewRepositoryManager(executor, fileSystem)
	if creationError != nil {
		return nil, creationError
	}
	return repositoryManager, nil
}
