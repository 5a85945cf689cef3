package scan_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/yaml.v3"

	"github.com/temirov/repostate/internal/gitrepo"
	"github.com/temirov/repostate/internal/gitrepo/testsupport"
	"github.com/temirov/repostate/internal/repos/filesystem"
	"github.com/temirov/repostate/internal/repos/shared"
	"github.com/temirov/repostate/internal/scan"
)

const (
	serviceTestMetadataDirectoryConstant = ".git"
	serviceTestProgramNameConstant       = "repostate"
)

var (
	errServiceTestOpenRefused    = errors.New("open refused")
	errServiceTestStatusExploded = errors.New("status exploded")
)

type stubRepositoryManager struct {
	failingOpenPaths map[string]struct{}
	statusEntries    map[string][]gitrepo.StatusEntry
	statusFailures   map[string]error
	statusRequests   []gitrepo.StatusOptions
}

func (manager *stubRepositoryManager) Open(_ context.Context, gitDirectoryPath string) (*gitrepo.Repository, error) {
	if _, failing := manager.failingOpenPaths[gitDirectoryPath]; failing {
		return nil, errServiceTestOpenRefused
	}
	workTree := ""
	if filepath.Base(gitDirectoryPath) == serviceTestMetadataDirectoryConstant {
		workTree = filepath.Dir(gitDirectoryPath)
	}
	return gitrepo.NewRepository(gitDirectoryPath, gitDirectoryPath, workTree, filesystem.OSFileSystem{}), nil
}

func (manager *stubRepositoryManager) Status(_ context.Context, repository *gitrepo.Repository, options gitrepo.StatusOptions) ([]gitrepo.StatusEntry, error) {
	manager.statusRequests = append(manager.statusRequests, options)
	if statusFailure, failing := manager.statusFailures[repository.RootPath()]; failing {
		return nil, statusFailure
	}
	return manager.statusEntries[repository.RootPath()], nil
}

type scanFixture struct {
	root    string
	manager *stubRepositoryManager
}

func newScanFixture(testInstance *testing.T) scanFixture {
	testInstance.Helper()
	root := testInstance.TempDir()

	for _, repositoryName := range []string{"alpha", "beta", "broken", "delta", "epsilon", "gamma"} {
		require.NoError(testInstance, os.MkdirAll(filepath.Join(root, repositoryName, serviceTestMetadataDirectoryConstant), 0o755))
	}
	require.NoError(testInstance, os.MkdirAll(filepath.Join(root, "mirror.git", "refs"), 0o755))

	testsupport.MarkState(testInstance, filepath.Join(root, "beta", serviceTestMetadataDirectoryConstant), gitrepo.StateMerge)
	testsupport.MarkState(testInstance, filepath.Join(root, "gamma", serviceTestMetadataDirectoryConstant), gitrepo.StateRebase)

	manager := &stubRepositoryManager{
		failingOpenPaths: map[string]struct{}{filepath.Join(root, "broken", serviceTestMetadataDirectoryConstant): {}},
		statusEntries: map[string][]gitrepo.StatusEntry{
			filepath.Join(root, "alpha"): {
				{Path: "README.md", Flags: gitrepo.StatusWorktreeModified},
				{Path: "cmd/new.go", OriginalPath: "cmd/old.go", Flags: gitrepo.StatusIndexRenamed},
			},
		},
		statusFailures: map[string]error{filepath.Join(root, "epsilon"): errServiceTestStatusExploded},
	}
	return scanFixture{root: root, manager: manager}
}

func (fixture scanFixture) path(segments ...string) string {
	return filepath.Join(append([]string{fixture.root}, segments...)...)
}

func TestServiceRunTextReport(testInstance *testing.T) {
	testCases := []struct {
		name           string
		announceClean  bool
		expectedOutput func(fixture scanFixture) string
	}{
		{
			name: "changes_only",
			expectedOutput: func(fixture scanFixture) string {
				return fixture.path("beta") + " merge\n" +
					fixture.path("gamma") + " rebase\n" +
					fixture.path("alpha") + "\n" +
					"    README.md modified\n" +
					"    cmd/new.go staged-renamed (from cmd/old.go)\n"
			},
		},
		{
			name:          "announce_clean",
			announceClean: true,
			expectedOutput: func(fixture scanFixture) string {
				return fixture.path("beta") + " merge\n" +
					fixture.path("gamma") + " rebase\n" +
					fixture.path("alpha") + "\n" +
					"    README.md modified\n" +
					"    cmd/new.go staged-renamed (from cmd/old.go)\n" +
					fixture.path("delta") + " clean\n" +
					fixture.path("mirror.git") + " clean\n"
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			fixture := newScanFixture(testInstance)
			outputBuffer := &strings.Builder{}
			errorBuffer := &strings.Builder{}

			service := scan.NewService(fixture.manager, filesystem.OSFileSystem{}, zap.NewNop(), outputBuffer, shared.NewWriterDiagnosticReporter(serviceTestProgramNameConstant, errorBuffer))
			runError := service.Run(context.Background(), scan.CommandOptions{
				Roots:         []string{fixture.root},
				AnnounceClean: testCase.announceClean,
				Status:        gitrepo.DefaultStatusOptions(),
				Format:        scan.ReportFormatText,
			})
			require.NoError(testInstance, runError)
			require.Equal(testInstance, testCase.expectedOutput(fixture), outputBuffer.String())

			expectedDiagnostics := "repostate: skipping " + fixture.path("broken", serviceTestMetadataDirectoryConstant) + ": open refused\n" +
				"repostate: status exploded\n"
			require.Equal(testInstance, expectedDiagnostics, errorBuffer.String())
		})
	}
}

func TestServiceRunYAMLReport(testInstance *testing.T) {
	fixture := newScanFixture(testInstance)
	outputBuffer := &strings.Builder{}

	service := scan.NewService(fixture.manager, filesystem.OSFileSystem{}, zap.NewNop(), outputBuffer, nil)
	runError := service.Run(context.Background(), scan.CommandOptions{
		Roots:  []string{fixture.root},
		Status: gitrepo.DefaultStatusOptions(),
		Format: scan.ReportFormatYAML,
	})
	require.NoError(testInstance, runError)

	var report scan.Report
	require.NoError(testInstance, yaml.Unmarshal([]byte(outputBuffer.String()), &report))
	require.Equal(testInstance, scan.Report{Repositories: []scan.RepositoryReport{
		{Path: fixture.path("beta"), State: "merge"},
		{Path: fixture.path("gamma"), State: "rebase"},
		{
			Path:  fixture.path("alpha"),
			State: "clean",
			Changes: []scan.ChangeReport{
				{Path: "README.md", Status: "modified"},
				{Path: "cmd/new.go", OriginalPath: "cmd/old.go", Status: "staged-renamed"},
			},
		},
	}}, report)
}

func TestServiceRunPassesStatusOptions(testInstance *testing.T) {
	fixture := newScanFixture(testInstance)
	requestedOptions := gitrepo.StatusOptions{IncludeUntracked: false, IncludeIgnored: true}

	service := scan.NewService(fixture.manager, filesystem.OSFileSystem{}, nil, nil, nil)
	require.NoError(testInstance, service.Run(context.Background(), scan.CommandOptions{
		Roots:  []string{fixture.root},
		Status: requestedOptions,
	}))

	require.NotEmpty(testInstance, fixture.manager.statusRequests)
	for _, options := range fixture.manager.statusRequests {
		require.Equal(testInstance, requestedOptions, options)
	}
}

func TestServiceRunLogsSummary(testInstance *testing.T) {
	fixture := newScanFixture(testInstance)
	observerCore, observedLogs := observer.New(zapcore.InfoLevel)

	service := scan.NewService(fixture.manager, filesystem.OSFileSystem{}, zap.New(observerCore), nil, nil)
	require.NoError(testInstance, service.Run(context.Background(), scan.CommandOptions{Roots: []string{fixture.root}}))

	entries := observedLogs.FilterMessage("scan completed").All()
	require.Len(testInstance, entries, 1)
	fields := entries[0].ContextMap()
	require.EqualValues(testInstance, 6, fields["repositories"])
	require.EqualValues(testInstance, 2, fields["non_clean"])
	require.EqualValues(testInstance, 2, fields["failures"])
}

func TestServiceRunRequiresCollaborators(testInstance *testing.T) {
	missingManager := scan.NewService(nil, filesystem.OSFileSystem{}, nil, nil, nil)
	require.ErrorIs(testInstance, missingManager.Run(context.Background(), scan.CommandOptions{}), scan.ErrRepositoryManagerNotConfigured)

	missingFileSystem := scan.NewService(&stubRepositoryManager{}, nil, nil, nil, nil)
	require.ErrorIs(testInstance, missingFileSystem.Run(context.Background(), scan.CommandOptions{}), scan.ErrFileSystemNotConfigured)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestServiceRunReturnsOutputFailures(testInstance *testing.T) {
	fixture := newScanFixture(testInstance)

	service := scan.NewService(fixture.manager, filesystem.OSFileSystem{}, nil, failingWriter{}, nil)
	runError := service.Run(context.Background(), scan.CommandOptions{Roots: []string{fixture.root}})
	require.Error(testInstance, runError)
	require.Contains(testInstance, runError.Error(), "unable to write report")
}

func TestServiceRunAgainstGit(testInstance *testing.T) {
	testsupport.RequireGit(testInstance)

	root := testInstance.TempDir()
	cleanWorkTree := filepath.Join(root, "clean")
	dirtyWorkTree := filepath.Join(root, "dirty")
	rebasingWorkTree := filepath.Join(root, "mid-state", "rebase")
	testsupport.InitRepository(testInstance, cleanWorkTree, "README.md")
	testsupport.InitRepository(testInstance, dirtyWorkTree, "README.md")
	rebasingGitDirectory := testsupport.InitRepository(testInstance, rebasingWorkTree, "README.md")
	testsupport.MarkState(testInstance, rebasingGitDirectory, gitrepo.StateRebase)
	testsupport.WriteFile(testInstance, filepath.Join(dirtyWorkTree, "README.md"), "edited\n")

	manager, managerError := gitrepo.NewRepositoryManager(testsupport.NewShellExecutor(testInstance), filesystem.OSFileSystem{})
	require.NoError(testInstance, managerError)

	outputBuffer := &strings.Builder{}
	errorBuffer := &strings.Builder{}
	service := scan.NewService(manager, filesystem.OSFileSystem{}, nil, outputBuffer, shared.NewWriterDiagnosticReporter(serviceTestProgramNameConstant, errorBuffer))
	require.NoError(testInstance, service.Run(context.Background(), scan.CommandOptions{
		Roots:  []string{root},
		Status: gitrepo.DefaultStatusOptions(),
	}))

	outputLines := strings.Split(strings.TrimSuffix(outputBuffer.String(), "\n"), "\n")
	require.Len(testInstance, outputLines, 3)
	require.True(testInstance, strings.HasSuffix(outputLines[0], filepath.Join("mid-state", "rebase")+" rebase"))
	require.True(testInstance, strings.HasSuffix(outputLines[1], "dirty"))
	require.Equal(testInstance, "    README.md modified", outputLines[2])
	require.Empty(testInstance, errorBuffer.String())
}

func TestServiceRunFormatsAgree(testInstance *testing.T) {
	fixture := newScanFixture(testInstance)
	options := scan.CommandOptions{
		Roots:         []string{fixture.root},
		AnnounceClean: true,
		Status:        gitrepo.DefaultStatusOptions(),
	}

	textBuffer := &strings.Builder{}
	textOptions := options
	textOptions.Format = scan.ReportFormatText
	require.NoError(testInstance, scan.NewService(fixture.manager, filesystem.OSFileSystem{}, nil, textBuffer, nil).Run(context.Background(), textOptions))

	yamlBuffer := &strings.Builder{}
	yamlOptions := options
	yamlOptions.Format = scan.ReportFormatYAML
	require.NoError(testInstance, scan.NewService(fixture.manager, filesystem.OSFileSystem{}, nil, yamlBuffer, nil).Run(context.Background(), yamlOptions))

	var report scan.Report
	require.NoError(testInstance, yaml.Unmarshal([]byte(yamlBuffer.String()), &report))

	renderedPaths := make([]string, 0, len(report.Repositories))
	for _, outputLine := range strings.Split(strings.TrimSuffix(textBuffer.String(), "\n"), "\n") {
		if strings.HasPrefix(outputLine, "    ") {
			continue
		}
		renderedPaths = append(renderedPaths, strings.Fields(outputLine)[0])
	}

	reportedPaths := make([]string, 0, len(report.Repositories))
	for _, repositoryReport := range report.Repositories {
		reportedPaths = append(reportedPaths, repositoryReport.Path)
	}
	require.Equal(testInstance, reportedPaths, renderedPaths)
	require.Equal(testInstance, []string{
		fixture.path("beta"),
		fixture.path("gamma"),
		fixture.path("alpha"),
		fixture.path("delta"),
		fixture.path("mirror.git"),
	}, reportedPaths)
	require.True(testInstance, report.Repositories[4].Bare)
}

func TestServiceRunReportsWorkTreeNamedLikeGitDirectory(testInstance *testing.T) {
	testsupport.RequireGit(testInstance)

	root := testInstance.TempDir()
	workTree := filepath.Join(root, "project.git")
	testsupport.InitRepository(testInstance, workTree, "README.md")
	testsupport.WriteFile(testInstance, filepath.Join(workTree, "README.md"), "edited\n")

	manager, managerError := gitrepo.NewRepositoryManager(testsupport.NewShellExecutor(testInstance), filesystem.OSFileSystem{})
	require.NoError(testInstance, managerError)

	outputBuffer := &strings.Builder{}
	errorBuffer := &strings.Builder{}
	service := scan.NewService(manager, filesystem.OSFileSystem{}, nil, outputBuffer, shared.NewWriterDiagnosticReporter(serviceTestProgramNameConstant, errorBuffer))
	require.NoError(testInstance, service.Run(context.Background(), scan.CommandOptions{
		Roots:  []string{root},
		Status: gitrepo.DefaultStatusOptions(),
	}))

	require.Equal(testInstance, workTree+"\n    README.md modified\n", outputBuffer.String())
	require.Empty(testInstance, errorBuffer.String())
}
