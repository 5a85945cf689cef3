package gitrepo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repostate/internal/gitrepo"
)

func TestParsePorcelainStatus(testInstance *testing.T) {
	testCases := []struct {
		name            string
		output          string
		expectedEntries []gitrepo.StatusEntry
	}{
		{
			name:            "empty_output",
			output:          "",
			expectedEntries: nil,
		},
		{
			name:   "worktree_modification",
			output: " M README.md\x00",
			expectedEntries: []gitrepo.StatusEntry{
				{Path: "README.md", Flags: gitrepo.StatusWorktreeModified},
			},
		},
		{
			name:   "staged_and_worktree_modification",
			output: "MM main.go\x00",
			expectedEntries: []gitrepo.StatusEntry{
				{Path: "main.go", Flags: gitrepo.StatusIndexModified | gitrepo.StatusWorktreeModified},
			},
		},
		{
			name:   "untracked_and_ignored",
			output: "?? notes.txt\x00!! build/\x00",
			expectedEntries: []gitrepo.StatusEntry{
				{Path: "notes.txt", Flags: gitrepo.StatusWorktreeNew},
				{Path: "build/", Flags: gitrepo.StatusIgnored},
			},
		},
		{
			name:   "rename_consumes_original_path",
			output: "R  new name.go\x00old name.go\x00 D gone.go\x00",
			expectedEntries: []gitrepo.StatusEntry{
				{Path: "new name.go", OriginalPath: "old name.go", Flags: gitrepo.StatusIndexRenamed},
				{Path: "gone.go", Flags: gitrepo.StatusWorktreeDeleted},
			},
		},
		{
			name:   "conflicts",
			output: "UU merged.go\x00AA both.go\x00DD removed.go\x00",
			expectedEntries: []gitrepo.StatusEntry{
				{Path: "merged.go", Flags: gitrepo.StatusConflicted},
				{Path: "both.go", Flags: gitrepo.StatusConflicted},
				{Path: "removed.go", Flags: gitrepo.StatusConflicted},
			},
		},
		{
			name:   "staged_addition_and_typechange",
			output: "A  added.go\x00 T link\x00",
			expectedEntries: []gitrepo.StatusEntry{
				{Path: "added.go", Flags: gitrepo.StatusIndexNew},
				{Path: "link", Flags: gitrepo.StatusWorktreeTypeChange},
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			entries, parseError := gitrepo.ParsePorcelainStatus(testCase.output)
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedEntries, entries)
		})
	}
}

func TestParsePorcelainStatusRejectsMalformedRecords(testInstance *testing.T) {
	testCases := []struct {
		name           string
		output         string
		expectedReason string
	}{
		{name: "too_short", output: " M\x00", expectedReason: "record too short"},
		{name: "missing_separator", output: "MMXfile\x00", expectedReason: "missing separator after status code"},
		{name: "rename_without_origin", output: "R  new.go\x00", expectedReason: "rename record without original path"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			_, parseError := gitrepo.ParsePorcelainStatus(testCase.output)
			require.Error(testInstance, parseError)

			var statusParseError gitrepo.StatusParseError
			require.ErrorAs(testInstance, parseError, &statusParseError)
			require.Equal(testInstance, testCase.expectedReason, statusParseError.Reason)
		})
	}
}

func TestStatusFlagsString(testInstance *testing.T) {
	testCases := []struct {
		name                string
		flags               gitrepo.StatusFlags
		expectedDescription string
	}{
		{name: "current", flags: gitrepo.StatusCurrent, expectedDescription: "current"},
		{name: "modified", flags: gitrepo.StatusWorktreeModified, expectedDescription: "modified"},
		{name: "untracked", flags: gitrepo.StatusWorktreeNew, expectedDescription: "untracked"},
		{
			name:                "staged_and_unstaged",
			flags:               gitrepo.StatusWorktreeModified | gitrepo.StatusIndexModified,
			expectedDescription: "staged-modified, modified",
		},
		{
			name:                "conflicted_first",
			flags:               gitrepo.StatusIgnored | gitrepo.StatusConflicted,
			expectedDescription: "conflicted, ignored",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedDescription, testCase.flags.String())
			require.Equal(testInstance, testCase.flags == gitrepo.StatusCurrent, testCase.flags.IsCurrent())
		})
	}
}

func TestDefaultStatusOptions(testInstance *testing.T) {
	options := gitrepo.DefaultStatusOptions()
	require.True(testInstance, options.IncludeUntracked)
	require.False(testInstance, options.IncludeIgnored)
}
