package scan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/temirov/repostate/internal/gitrepo"
	"github.com/temirov/repostate/internal/repos/discovery"
	"github.com/temirov/repostate/internal/repos/partition"
	"github.com/temirov/repostate/internal/repos/shared"
)

const (
	stateLineTemplateConstant         = "%s %s\n"
	repositoryHeaderTemplateConstant  = "%s\n"
	changeLineTemplateConstant        = "    %s %s\n"
	renamedChangeLineTemplateConstant = "    %s %s (from %s)\n"
	yamlIndentWidthConstant           = 2
	reportWriteErrorTemplateConstant  = "unable to write report: %w"
	repositorySkippedMessageConstant  = "repository skipped"
	scanCompletedMessageConstant      = "scan completed"
	logFieldRootsConstant             = "roots"
	logFieldRepositoryCountConstant   = "repositories"
	logFieldFailureCountConstant      = "failures"
	logFieldNonCleanCountConstant     = "non_clean"
	logFieldChangedCountConstant      = "clean_with_changes"
	managerMissingMessageConstant     = "repository manager not configured"
	fileSystemMissingMessageConstant  = "filesystem not configured"
)

// ErrRepositoryManagerNotConfigured indicates the service was created without a repository manager.
var ErrRepositoryManagerNotConfigured = errors.New(managerMissingMessageConstant)

// ErrFileSystemNotConfigured indicates the service was created without a filesystem.
var ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// Service walks scan roots, partitions the repositories it finds by state, and renders the report.
type Service struct {
	repositoryManager shared.RepositoryManager
	fileSystem        shared.FileSystem
	logger            *zap.Logger
	outputWriter      io.Writer
	diagnostics       shared.DiagnosticReporter
}

// NewService constructs a Service using the provided dependencies.
func NewService(repositoryManager shared.RepositoryManager, fileSystem shared.FileSystem, logger *zap.Logger, outputWriter io.Writer, diagnostics shared.DiagnosticReporter) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if outputWriter == nil {
		outputWriter = io.Discard
	}
	if diagnostics == nil {
		diagnostics = shared.NewWriterDiagnosticReporter(applicationNameConstant, nil)
	}
	return &Service{
		repositoryManager: repositoryManager,
		fileSystem:        fileSystem,
		logger:            logger,
		outputWriter:      outputWriter,
		diagnostics:       diagnostics,
	}
}

// scanSummary counts what a run observed, for the completion log entry.
type scanSummary struct {
	repositories     int
	failures         int
	nonClean         int
	cleanWithChanges int
}

// Run scans every root and writes the report. Per-repository failures become diagnostics; only
// output failures are returned.
func (service *Service) Run(executionContext context.Context, options CommandOptions) error {
	if service.repositoryManager == nil {
		return ErrRepositoryManagerNotConfigured
	}
	if service.fileSystem == nil {
		return ErrFileSystemNotConfigured
	}

	roots := options.Roots
	if len(roots) == 0 {
		roots = []string{defaultRootPathConstant}
	}

	summary := &scanSummary{}
	statePartition := partition.Collect(service.discoverRepositories(executionContext, roots, summary))
	summary.repositories = statePartition.Len()

	report := service.collectReport(executionContext, statePartition, options, summary)

	var renderError error
	switch options.Format {
	case ReportFormatYAML:
		renderError = service.renderYAML(report)
	default:
		renderError = service.renderText(report)
	}
	if renderError != nil {
		return fmt.Errorf(reportWriteErrorTemplateConstant, renderError)
	}

	service.logger.Info(
		scanCompletedMessageConstant,
		zap.Strings(logFieldRootsConstant, roots),
		zap.Int(logFieldRepositoryCountConstant, summary.repositories),
		zap.Int(logFieldNonCleanCountConstant, summary.nonClean),
		zap.Int(logFieldChangedCountConstant, summary.cleanWithChanges),
		zap.Int(logFieldFailureCountConstant, summary.failures),
	)
	return nil
}

// discoverRepositories yields every repository found below roots, reporting walk errors as it goes.
func (service *Service) discoverRepositories(executionContext context.Context, roots []string, summary *scanSummary) iter.Seq[*gitrepo.Repository] {
	return func(yield func(*gitrepo.Repository) bool) {
		for _, root := range roots {
			walker := discovery.NewRepositoryWalker(root, service.fileSystem, service.repositoryManager)
			for repository, walkError := range walker.All(executionContext) {
				if walkError != nil {
					service.reportFailure(walkError, summary)
					continue
				}
				if !yield(repository) {
					return
				}
			}
		}
	}
}

// collectReport reads every non-clean bucket in state order, then drains the clean bucket and
// queries the status of each repository in it.
func (service *Service) collectReport(executionContext context.Context, statePartition *partition.StatePartition[*gitrepo.Repository], options CommandOptions, summary *scanSummary) Report {
	report := Report{Repositories: []RepositoryReport{}}

	for _, state := range gitrepo.RepositoryStates() {
		if state.IsClean() {
			continue
		}
		for _, repository := range statePartition.Bucket(state) {
			summary.nonClean++
			report.Repositories = append(report.Repositories, newRepositoryReport(repository, state))
		}
	}

	for _, repository := range statePartition.Take(gitrepo.StateClean) {
		entries, statusError := service.repositoryManager.Status(executionContext, repository, options.Status)
		if statusError != nil {
			service.reportFailure(statusError, summary)
			continue
		}
		if len(entries) == 0 {
			if options.AnnounceClean {
				report.Repositories = append(report.Repositories, newRepositoryReport(repository, gitrepo.StateClean))
			}
			continue
		}

		summary.cleanWithChanges++
		repositoryReport := newRepositoryReport(repository, gitrepo.StateClean)
		repositoryReport.Changes = newChangeReports(entries)
		report.Repositories = append(report.Repositories, repositoryReport)
	}

	return report
}

func (service *Service) renderText(report Report) error {
	for _, repositoryReport := range report.Repositories {
		if len(repositoryReport.Changes) == 0 {
			if _, writeError := fmt.Fprintf(service.outputWriter, stateLineTemplateConstant, repositoryReport.Path, repositoryReport.State); writeError != nil {
				return writeError
			}
			continue
		}

		if _, writeError := fmt.Fprintf(service.outputWriter, repositoryHeaderTemplateConstant, repositoryReport.Path); writeError != nil {
			return writeError
		}
		for _, change := range repositoryReport.Changes {
			if writeError := service.writeChangeLine(change); writeError != nil {
				return writeError
			}
		}
	}
	return nil
}

func (service *Service) writeChangeLine(change ChangeReport) error {
	var writeError error
	if len(change.OriginalPath) > 0 {
		_, writeError = fmt.Fprintf(service.outputWriter, renamedChangeLineTemplateConstant, change.Path, change.Status, change.OriginalPath)
	} else {
		_, writeError = fmt.Fprintf(service.outputWriter, changeLineTemplateConstant, change.Path, change.Status)
	}
	return writeError
}

func (service *Service) renderYAML(report Report) error {
	encoder := yaml.NewEncoder(service.outputWriter)
	encoder.SetIndent(yamlIndentWidthConstant)
	if encodeError := encoder.Encode(report); encodeError != nil {
		return encodeError
	}
	return encoder.Close()
}

func (service *Service) reportFailure(failure error, summary *scanSummary) {
	summary.failures++
	service.diagnostics.Report(failure)
	service.logger.Debug(repositorySkippedMessageConstant, zap.Error(failure))
}
