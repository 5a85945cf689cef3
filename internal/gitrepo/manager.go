package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/temirov/repostate/internal/execshell"
)

const (
	gitRevParseSubcommandConstant           = "rev-parse"
	gitAbsoluteGitDirFlagConstant           = "--absolute-git-dir"
	gitIsBareRepositoryFlagConstant         = "--is-bare-repository"
	gitStatusSubcommandConstant             = "status"
	gitPorcelainV1FlagConstant              = "--porcelain=v1"
	gitNullTerminatedFlagConstant           = "-z"
	gitUntrackedFilesNormalFlagConstant     = "--untracked-files=normal"
	gitUntrackedFilesNoFlagConstant         = "--untracked-files=no"
	gitIgnoredTraditionalFlagConstant       = "--ignored=traditional"
	gitIgnoredNoFlagConstant                = "--ignored=no"
	gitDirectoryEnvironmentNameConstant     = "GIT_DIR"
	gitWorkTreeEnvironmentNameConstant      = "GIT_WORK_TREE"
	gitOptionalLocksEnvironmentNameConstant = "GIT_OPTIONAL_LOCKS"
	gitMetadataEntryNameConstant            = ".git"
	gitOptionalLocksDisabledConstant        = "0"
	gitTrueOutputConstant                   = "true"
	gitFalseOutputConstant                  = "false"
	gitExecutorMissingMessageConstant       = "git executor not configured"
	fileSystemMissingMessageConstant        = "filesystem not configured"
	repositoryMissingMessageConstant        = "repository not provided"
	gitDirectoryPathMissingMessageConstant  = "git directory path must be provided"
	unexpectedRevParseOutputTemplate        = "unexpected rev-parse output for %s: %q"
	resolvePathErrorTemplateConstant        = "unable to resolve %s: %w"
	openRepositoryErrorTemplateConstant     = "unable to open repository at %s: %w"
	statusErrorTemplateConstant             = "unable to read status of %s: %w"
	revParseOutputLineCountConstant         = 2
)

// ErrGitExecutorNotConfigured indicates the manager was created without an executor.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrFileSystemNotConfigured indicates the manager was created without a filesystem.
var ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// ErrRepositoryNotProvided indicates a nil repository was passed to a query.
var ErrRepositoryNotProvided = errors.New(repositoryMissingMessageConstant)

// ErrGitDirectoryPathRequired indicates Open was called with an empty path.
var ErrGitDirectoryPathRequired = errors.New(gitDirectoryPathMissingMessageConstant)

// GitExecutor exposes the subset of shell execution used by the repository manager.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// FileSystem exposes the filesystem operations used by the repository manager.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	Abs(path string) (string, error)
}

// RepositoryManager opens repositories and queries their working tree through git.
type RepositoryManager struct {
	executor   GitExecutor
	fileSystem FileSystem
}

// NewRepositoryManager constructs a RepositoryManager.
func NewRepositoryManager(executor GitExecutor, fileSystem FileSystem) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	return &RepositoryManager{executor: executor, fileSystem: fileSystem}, nil
}

// Open validates gitDirectoryPath as a git repository and returns a handle to it.
// A matched directory is either a git directory itself, opened with GIT_DIR pinned to it so an
// enclosing repository is never picked up instead, or a work tree named like one ("project.git")
// whose own ".git" directory or gitlink file is opened with the matched directory as work tree.
func (manager *RepositoryManager) Open(executionContext context.Context, gitDirectoryPath string) (*Repository, error) {
	trimmedPath := strings.TrimSpace(gitDirectoryPath)
	if len(trimmedPath) == 0 {
		return nil, ErrGitDirectoryPathRequired
	}

	absolutePath, absoluteError := manager.fileSystem.Abs(trimmedPath)
	if absoluteError != nil {
		return nil, fmt.Errorf(resolvePathErrorTemplateConstant, trimmedPath, absoluteError)
	}

	environment := map[string]string{gitDirectoryEnvironmentNameConstant: absolutePath}
	nestedWorkTree := ""
	nestedMetadataPath := filepath.Join(absolutePath, gitMetadataEntryNameConstant)
	if _, statError := manager.fileSystem.Stat(nestedMetadataPath); statError == nil {
		nestedWorkTree = absolutePath
		environment[gitDirectoryEnvironmentNameConstant] = nestedMetadataPath
		environment[gitWorkTreeEnvironmentNameConstant] = nestedWorkTree
	}

	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            []string{gitRevParseSubcommandConstant, gitAbsoluteGitDirFlagConstant, gitIsBareRepositoryFlagConstant},
		WorkingDirectory:     absolutePath,
		EnvironmentVariables: environment,
	})
	if executionError != nil {
		return nil, fmt.Errorf(openRepositoryErrorTemplateConstant, gitDirectoryPath, executionError)
	}

	gitDirectory, bare, parseError := parseRevParseOutput(absolutePath, executionResult.StandardOutput)
	if parseError != nil {
		return nil, fmt.Errorf(openRepositoryErrorTemplateConstant, gitDirectoryPath, parseError)
	}

	workTree := ""
	switch {
	case len(nestedWorkTree) > 0:
		workTree = nestedWorkTree
	case !bare:
		workTree = filepath.Dir(gitDirectory)
	}

	return NewRepository(gitDirectoryPath, gitDirectory, workTree, manager.fileSystem), nil
}

// Status lists every non-current path of the repository work tree. Bare repositories have no entries.
// Optional locks are disabled so the query never rewrites the index.
func (manager *RepositoryManager) Status(executionContext context.Context, repository *Repository, options StatusOptions) ([]StatusEntry, error) {
	if repository == nil {
		return nil, ErrRepositoryNotProvided
	}
	if repository.Bare() {
		return nil, nil
	}

	untrackedFlag := gitUntrackedFilesNoFlagConstant
	if options.IncludeUntracked {
		untrackedFlag = gitUntrackedFilesNormalFlagConstant
	}
	ignoredFlag := gitIgnoredNoFlagConstant
	if options.IncludeIgnored {
		ignoredFlag = gitIgnoredTraditionalFlagConstant
	}

	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitStatusSubcommandConstant, gitPorcelainV1FlagConstant, gitNullTerminatedFlagConstant, untrackedFlag, ignoredFlag},
		WorkingDirectory: repository.WorkTree,
		EnvironmentVariables: map[string]string{
			gitDirectoryEnvironmentNameConstant:     repository.GitDirectory,
			gitWorkTreeEnvironmentNameConstant:      repository.WorkTree,
			gitOptionalLocksEnvironmentNameConstant: gitOptionalLocksDisabledConstant,
		},
	})
	if executionError != nil {
		return nil, fmt.Errorf(statusErrorTemplateConstant, repository.RootPath(), executionError)
	}

	entries, parseError := ParsePorcelainStatus(executionResult.StandardOutput)
	if parseError != nil {
		return nil, fmt.Errorf(statusErrorTemplateConstant, repository.RootPath(), parseError)
	}

	changedEntries := make([]StatusEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Flags.IsCurrent() {
			continue
		}
		changedEntries = append(changedEntries, entry)
	}
	return changedEntries, nil
}

func parseRevParseOutput(gitDirectoryPath string, output string) (string, bool, error) {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != revParseOutputLineCountConstant {
		return "", false, fmt.Errorf(unexpectedRevParseOutputTemplate, gitDirectoryPath, output)
	}

	gitDirectory := strings.TrimSpace(lines[0])
	if len(gitDirectory) == 0 {
		return "", false, fmt.Errorf(unexpectedRevParseOutputTemplate, gitDirectoryPath, output)
	}

	switch strings.TrimSpace(lines[1]) {
	case gitTrueOutputConstant:
		return gitDirectory, true, nil
	case gitFalseOutputConstant:
		return gitDirectory, false, nil
	default:
		return "", false, fmt.Errorf(unexpectedRevParseOutputTemplate, gitDirectoryPath, output)
	}
}
