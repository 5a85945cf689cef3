package dependencies_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/repostate/internal/gitrepo"
	"github.com/temirov/repostate/internal/gitrepo/testsupport"
	"github.com/temirov/repostate/internal/repos/dependencies"
	"github.com/temirov/repostate/internal/repos/filesystem"
)

func TestResolveDefaults(testInstance *testing.T) {
	fileSystem := dependencies.ResolveFileSystem(nil)
	require.IsType(testInstance, filesystem.OSFileSystem{}, fileSystem)

	executor, executorError := dependencies.ResolveGitExecutor(nil, zap.NewNop(), nil)
	require.NoError(testInstance, executorError)
	require.NotNil(testInstance, executor)

	repositoryManager, managerError := dependencies.ResolveRepositoryManager(nil, executor, fileSystem)
	require.NoError(testInstance, managerError)
	require.IsType(testInstance, &gitrepo.RepositoryManager{}, repositoryManager)
}

func TestResolvePrefersInjectedCollaborators(testInstance *testing.T) {
	injectedExecutor := &testsupport.GitExecutorStub{}
	executor, executorError := dependencies.ResolveGitExecutor(injectedExecutor, nil, nil)
	require.NoError(testInstance, executorError)
	require.Same(testInstance, injectedExecutor, executor)
}

func TestResolveGitExecutorRequiresLogger(testInstance *testing.T) {
	_, executorError := dependencies.ResolveGitExecutor(nil, nil, nil)
	require.Error(testInstance, executorError)
}

func TestResolveRepositoryManagerRequiresFileSystem(testInstance *testing.T) {
	_, managerError := dependencies.ResolveRepositoryManager(nil, &testsupport.GitExecutorStub{}, nil)
	require.ErrorIs(testInstance, managerError, gitrepo.ErrFileSystemNotConfigured)
}
