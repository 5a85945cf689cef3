package gitrepo

// RepositoryState enumerates the operations a repository can be left in the middle of.
type RepositoryState int

// Repository states in reporting order.
const (
	StateClean RepositoryState = iota
	StateMerge
	StateRevert
	StateRevertSequence
	StateCherryPick
	StateCherryPickSequence
	StateBisect
	StateRebase
	StateRebaseInteractive
	StateRebaseMerge
	StateApplyMailbox
	StateApplyMailboxOrRebase
)

const unknownStateLabelConstant = "unknown"

var repositoryStateLabels = map[RepositoryState]string{
	StateClean:                "clean",
	StateMerge:                "merge",
	StateRevert:               "revert",
	StateRevertSequence:       "revert-sequence",
	StateCherryPick:           "cherrypick",
	StateCherryPickSequence:   "cherrypick-sequence",
	StateBisect:               "bisect",
	StateRebase:               "rebase",
	StateRebaseInteractive:    "rebase-interactive",
	StateRebaseMerge:          "rebase-merge",
	StateApplyMailbox:         "apply-mailbox",
	StateApplyMailboxOrRebase: "apply-mailbox-or-rebase",
}

// RepositoryStates returns every state in reporting order.
func RepositoryStates() []RepositoryState {
	return []RepositoryState{
		StateClean,
		StateMerge,
		StateRevert,
		StateRevertSequence,
		StateCherryPick,
		StateCherryPickSequence,
		StateBisect,
		StateRebase,
		StateRebaseInteractive,
		StateRebaseMerge,
		StateApplyMailbox,
		StateApplyMailboxOrRebase,
	}
}

// String returns the fixed report label for the state.
func (state RepositoryState) String() string {
	label, known := repositoryStateLabels[state]
	if !known {
		return unknownStateLabelConstant
	}
	return label
}

// IsClean reports whether no multi-step operation is in progress.
func (state RepositoryState) IsClean() bool {
	return state == StateClean
}
