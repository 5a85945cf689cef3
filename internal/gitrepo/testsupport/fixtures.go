// Package testsupport builds on-disk git fixtures and stubs shared by tests.
package testsupport

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/repostate/internal/execshell"
	"github.com/temirov/repostate/internal/gitrepo"
)

const (
	gitExecutableNameConstant        = "git"
	gitMetadataDirectoryNameConstant = ".git"
	fixtureDirectoryPermissions      = 0o755
	fixtureFilePermissions           = 0o644
	fixtureMarkerContentConstant     = "0000000000000000000000000000000000000000\n"
	fixtureCommitMessageConstant     = "fixture commit"
)

var fixtureGitEnvironment = map[string]string{
	"GIT_AUTHOR_NAME":     "Fixture Author",
	"GIT_AUTHOR_EMAIL":    "fixture@example.com",
	"GIT_COMMITTER_NAME":  "Fixture Author",
	"GIT_COMMITTER_EMAIL": "fixture@example.com",
	"GIT_CONFIG_NOSYSTEM": "1",
	"GIT_CONFIG_GLOBAL":   os.DevNull,
}

var stateMarkers = map[gitrepo.RepositoryState][]string{
	gitrepo.StateMerge:                {"MERGE_HEAD"},
	gitrepo.StateRevert:               {"REVERT_HEAD"},
	gitrepo.StateRevertSequence:       {"REVERT_HEAD", filepath.Join("sequencer", "todo")},
	gitrepo.StateCherryPick:           {"CHERRY_PICK_HEAD"},
	gitrepo.StateCherryPickSequence:   {"CHERRY_PICK_HEAD", filepath.Join("sequencer", "todo")},
	gitrepo.StateBisect:               {"BISECT_LOG"},
	gitrepo.StateRebase:               {filepath.Join("rebase-apply", "rebasing")},
	gitrepo.StateRebaseInteractive:    {filepath.Join("rebase-merge", "interactive")},
	gitrepo.StateRebaseMerge:          {filepath.Join("rebase-merge", "head-name")},
	gitrepo.StateApplyMailbox:         {filepath.Join("rebase-apply", "applying")},
	gitrepo.StateApplyMailboxOrRebase: {filepath.Join("rebase-apply", "next")},
}

// RequireGit skips the test when the git executable is unavailable.
func RequireGit(testingInstance testing.TB) {
	testingInstance.Helper()
	if _, lookupError := exec.LookPath(gitExecutableNameConstant); lookupError != nil {
		testingInstance.Skipf("git executable not available: %v", lookupError)
	}
}

// NewShellExecutor returns an os/exec backed executor that discards logs.
func NewShellExecutor(testingInstance testing.TB) *execshell.ShellExecutor {
	testingInstance.Helper()
	shellExecutor, creationError := execshell.NewShellExecutor(zap.NewNop(), execshell.NewOSCommandRunner())
	require.NoError(testingInstance, creationError)
	return shellExecutor
}

// InitRepository creates a work tree at workTreePath holding a single committed file and returns its git directory.
func InitRepository(testingInstance testing.TB, workTreePath string, committedFileName string) string {
	testingInstance.Helper()
	RequireGit(testingInstance)

	require.NoError(testingInstance, os.MkdirAll(workTreePath, fixtureDirectoryPermissions))
	runGit(testingInstance, workTreePath, "init", "--quiet")
	WriteFile(testingInstance, filepath.Join(workTreePath, committedFileName), "initial\n")
	runGit(testingInstance, workTreePath, "add", committedFileName)
	runGit(testingInstance, workTreePath, "-c", "commit.gpgsign=false", "commit", "--quiet", "-m", fixtureCommitMessageConstant)

	return filepath.Join(workTreePath, gitMetadataDirectoryNameConstant)
}

// InitBareRepository creates a bare repository at gitDirectoryPath.
func InitBareRepository(testingInstance testing.TB, gitDirectoryPath string) string {
	testingInstance.Helper()
	RequireGit(testingInstance)

	require.NoError(testingInstance, os.MkdirAll(gitDirectoryPath, fixtureDirectoryPermissions))
	runGit(testingInstance, gitDirectoryPath, "init", "--quiet", "--bare")
	return gitDirectoryPath
}

// MarkState writes the marker files git leaves behind while the given operation is in progress.
func MarkState(testingInstance testing.TB, gitDirectoryPath string, state gitrepo.RepositoryState) {
	testingInstance.Helper()
	for _, markerPath := range stateMarkers[state] {
		WriteFile(testingInstance, filepath.Join(gitDirectoryPath, markerPath), fixtureMarkerContentConstant)
	}
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(testingInstance testing.TB, path string, content string) {
	testingInstance.Helper()
	require.NoError(testingInstance, os.MkdirAll(filepath.Dir(path), fixtureDirectoryPermissions))
	require.NoError(testingInstance, os.WriteFile(path, []byte(content), fixtureFilePermissions))
}

func runGit(testingInstance testing.TB, workingDirectory string, arguments ...string) {
	testingInstance.Helper()
	shellExecutor := NewShellExecutor(testingInstance)
	_, executionError := shellExecutor.ExecuteGit(context.Background(), execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     workingDirectory,
		EnvironmentVariables: fixtureGitEnvironment,
	})
	require.NoError(testingInstance, executionError)
}
