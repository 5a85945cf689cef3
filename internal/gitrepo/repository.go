package gitrepo

import (
	"io/fs"
	"path/filepath"
)

const (
	rebaseMergeDirectoryNameConstant = "rebase-merge"
	rebaseApplyDirectoryNameConstant = "rebase-apply"
	interactiveMarkerNameConstant    = "interactive"
	rebasingMarkerNameConstant       = "rebasing"
	applyingMarkerNameConstant       = "applying"
	mergeHeadMarkerNameConstant      = "MERGE_HEAD"
	revertHeadMarkerNameConstant     = "REVERT_HEAD"
	cherryPickHeadMarkerNameConstant = "CHERRY_PICK_HEAD"
	bisectLogMarkerNameConstant      = "BISECT_LOG"
	sequencerDirectoryNameConstant   = "sequencer"
	sequencerTodoMarkerNameConstant  = "todo"
)

// StatFileSystem is the filesystem access Repository needs to detect its state.
type StatFileSystem interface {
	Stat(path string) (fs.FileInfo, error)
}

// Repository is an opened git repository.
type Repository struct {
	// Path is the git directory as it was discovered.
	Path string
	// GitDirectory is the absolute git directory reported by git.
	GitDirectory string
	// WorkTree is empty for bare repositories.
	WorkTree   string
	fileSystem StatFileSystem
}

// NewRepository constructs a Repository handle.
func NewRepository(discoveredPath string, gitDirectory string, workTree string, fileSystem StatFileSystem) *Repository {
	return &Repository{
		Path:         discoveredPath,
		GitDirectory: gitDirectory,
		WorkTree:     workTree,
		fileSystem:   fileSystem,
	}
}

// Bare reports whether the repository has no work tree.
func (repository *Repository) Bare() bool {
	return len(repository.WorkTree) == 0
}

// RootPath returns the work tree, or the git directory for bare repositories.
func (repository *Repository) RootPath() string {
	if repository.Bare() {
		return repository.Path
	}
	return repository.WorkTree
}

// State inspects the git directory and reports the operation currently in progress.
// The result is a snapshot; it is recomputed on every call.
func (repository *Repository) State() RepositoryState {
	switch {
	case repository.containsFile(rebaseMergeDirectoryNameConstant, interactiveMarkerNameConstant):
		return StateRebaseInteractive
	case repository.containsDirectory(rebaseMergeDirectoryNameConstant):
		return StateRebaseMerge
	case repository.containsFile(rebaseApplyDirectoryNameConstant, rebasingMarkerNameConstant):
		return StateRebase
	case repository.containsFile(rebaseApplyDirectoryNameConstant, applyingMarkerNameConstant):
		return StateApplyMailbox
	case repository.containsDirectory(rebaseApplyDirectoryNameConstant):
		return StateApplyMailboxOrRebase
	case repository.containsFile(mergeHeadMarkerNameConstant):
		return StateMerge
	case repository.containsFile(revertHeadMarkerNameConstant):
		if repository.containsFile(sequencerDirectoryNameConstant, sequencerTodoMarkerNameConstant) {
			return StateRevertSequence
		}
		return StateRevert
	case repository.containsFile(cherryPickHeadMarkerNameConstant):
		if repository.containsFile(sequencerDirectoryNameConstant, sequencerTodoMarkerNameConstant) {
			return StateCherryPickSequence
		}
		return StateCherryPick
	case repository.containsFile(bisectLogMarkerNameConstant):
		return StateBisect
	default:
		return StateClean
	}
}

func (repository *Repository) containsFile(segments ...string) bool {
	fileInfo, statError := repository.stat(segments...)
	return statError == nil && !fileInfo.IsDir()
}

func (repository *Repository) containsDirectory(segments ...string) bool {
	fileInfo, statError := repository.stat(segments...)
	return statError == nil && fileInfo.IsDir()
}

func (repository *Repository) stat(segments ...string) (fs.FileInfo, error) {
	if repository.fileSystem == nil {
		return nil, fs.ErrNotExist
	}
	gitDirectory := repository.GitDirectory
	if len(gitDirectory) == 0 {
		gitDirectory = repository.Path
	}
	markerPath := filepath.Join(append([]string{gitDirectory}, segments...)...)
	return repository.fileSystem.Stat(markerPath)
}
