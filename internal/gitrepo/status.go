package gitrepo

import (
	"fmt"
	"strings"
)

// StatusFlags describes how a path differs from the committed snapshot.
type StatusFlags uint32

// Status flag bits. A zero value means the path is current.
const (
	StatusIndexNew StatusFlags = 1 << iota
	StatusIndexModified
	StatusIndexDeleted
	StatusIndexRenamed
	StatusIndexTypeChange
	StatusWorktreeNew
	StatusWorktreeModified
	StatusWorktreeDeleted
	StatusWorktreeRenamed
	StatusWorktreeTypeChange
	StatusIgnored
	StatusConflicted
)

// StatusCurrent marks an unchanged path.
const StatusCurrent StatusFlags = 0

const (
	statusCurrentLabelConstant               = "current"
	statusDescriptionSeparatorConstant       = ", "
	porcelainRecordSeparatorConstant         = "\x00"
	porcelainMinimumRecordLengthConstant     = 4
	porcelainPathOffsetConstant              = 3
	porcelainUntrackedCodeConstant           = "??"
	porcelainIgnoredCodeConstant             = "!!"
	statusParseErrorTemplateConstant         = "unable to parse status record %q: %s"
	statusRecordTooShortMessageConstant      = "record too short"
	statusRecordSeparatorMessageConstant     = "missing separator after status code"
	statusRecordMissingOriginMessageConstant = "rename record without original path"
)

var statusFlagLabels = []struct {
	flag  StatusFlags
	label string
}{
	{flag: StatusConflicted, label: "conflicted"},
	{flag: StatusIndexNew, label: "added"},
	{flag: StatusIndexModified, label: "staged-modified"},
	{flag: StatusIndexDeleted, label: "staged-deleted"},
	{flag: StatusIndexRenamed, label: "staged-renamed"},
	{flag: StatusIndexTypeChange, label: "staged-typechange"},
	{flag: StatusWorktreeNew, label: "untracked"},
	{flag: StatusWorktreeModified, label: "modified"},
	{flag: StatusWorktreeDeleted, label: "deleted"},
	{flag: StatusWorktreeRenamed, label: "renamed"},
	{flag: StatusWorktreeTypeChange, label: "typechange"},
	{flag: StatusIgnored, label: "ignored"},
}

// IsCurrent reports whether the path is unchanged.
func (flags StatusFlags) IsCurrent() bool {
	return flags == StatusCurrent
}

// Has reports whether every bit of flag is set.
func (flags StatusFlags) Has(flag StatusFlags) bool {
	return flags&flag == flag
}

// String describes the set flags, for example "staged-modified, modified".
func (flags StatusFlags) String() string {
	if flags.IsCurrent() {
		return statusCurrentLabelConstant
	}
	labels := make([]string, 0, len(statusFlagLabels))
	for _, flagLabel := range statusFlagLabels {
		if flags.Has(flagLabel.flag) {
			labels = append(labels, flagLabel.label)
		}
	}
	return strings.Join(labels, statusDescriptionSeparatorConstant)
}

// StatusEntry is a single path reported by the working tree status.
type StatusEntry struct {
	Path         string
	OriginalPath string
	Flags        StatusFlags
}

// StatusOptions controls which paths a status query reports.
type StatusOptions struct {
	IncludeUntracked bool
	IncludeIgnored   bool
}

// DefaultStatusOptions includes untracked files and excludes ignored ones.
func DefaultStatusOptions() StatusOptions {
	return StatusOptions{IncludeUntracked: true, IncludeIgnored: false}
}

// StatusParseError reports porcelain output that could not be interpreted.
type StatusParseError struct {
	Record string
	Reason string
}

// Error describes the malformed record.
func (parseError StatusParseError) Error() string {
	return fmt.Sprintf(statusParseErrorTemplateConstant, parseError.Record, parseError.Reason)
}

// ParsePorcelainStatus interprets `git status --porcelain=v1 -z` output.
func ParsePorcelainStatus(output string) ([]StatusEntry, error) {
	records := strings.Split(output, porcelainRecordSeparatorConstant)
	var entries []StatusEntry

	for recordIndex := 0; recordIndex < len(records); recordIndex++ {
		record := records[recordIndex]
		if len(record) == 0 {
			continue
		}
		if len(record) < porcelainMinimumRecordLengthConstant {
			return nil, StatusParseError{Record: record, Reason: statusRecordTooShortMessageConstant}
		}
		if record[2] != ' ' {
			return nil, StatusParseError{Record: record, Reason: statusRecordSeparatorMessageConstant}
		}

		statusCode := record[:2]
		entry := StatusEntry{
			Path:  record[porcelainPathOffsetConstant:],
			Flags: parseStatusCode(statusCode),
		}

		if statusCode[0] == 'R' || statusCode[0] == 'C' || statusCode[1] == 'R' || statusCode[1] == 'C' {
			recordIndex++
			if recordIndex >= len(records) || len(records[recordIndex]) == 0 {
				return nil, StatusParseError{Record: record, Reason: statusRecordMissingOriginMessageConstant}
			}
			entry.OriginalPath = records[recordIndex]
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

func parseStatusCode(statusCode string) StatusFlags {
	switch statusCode {
	case porcelainUntrackedCodeConstant:
		return StatusWorktreeNew
	case porcelainIgnoredCodeConstant:
		return StatusIgnored
	}

	indexCode := statusCode[0]
	worktreeCode := statusCode[1]
	if indexCode == 'U' || worktreeCode == 'U' || (indexCode == 'A' && worktreeCode == 'A') || (indexCode == 'D' && worktreeCode == 'D') {
		return StatusConflicted
	}

	var flags StatusFlags
	switch indexCode {
	case 'M':
		flags |= StatusIndexModified
	case 'A', 'C':
		flags |= StatusIndexNew
	case 'D':
		flags |= StatusIndexDeleted
	case 'R':
		flags |= StatusIndexRenamed
	case 'T':
		flags |= StatusIndexTypeChange
	}
	switch worktreeCode {
	case 'M':
		flags |= StatusWorktreeModified
	case 'A':
		flags |= StatusWorktreeNew
	case 'D':
		flags |= StatusWorktreeDeleted
	case 'R':
		flags |= StatusWorktreeRenamed
	case 'T':
		flags |= StatusWorktreeTypeChange
	}
	return flags
}
