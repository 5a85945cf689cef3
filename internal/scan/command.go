package scan

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/repostate/internal/execshell"
	"github.com/temirov/repostate/internal/gitrepo"
	"github.com/temirov/repostate/internal/repos/dependencies"
	"github.com/temirov/repostate/internal/repos/shared"
	"github.com/temirov/repostate/internal/ui"
	"github.com/temirov/repostate/internal/utils/flags"
	pathutils "github.com/temirov/repostate/internal/utils/path"
)

const (
	applicationNameConstant         = "repostate"
	commandUseConstant              = applicationNameConstant + " [root...]"
	commandShortDescriptionConstant = "Report git repositories that are mid-operation or have uncommitted changes"
	commandLongDescriptionConstant  = "repostate walks each root for directories named *.git, reports every repository caught mid-merge, mid-rebase, mid-cherry-pick, mid-revert, bisecting or applying patches, and then lists uncommitted changes in the remaining clean repositories."
	announceCleanFlagNameConstant   = "announce-clean"
	announceCleanFlagUsageConstant  = "Also list clean repositories without changes"
	untrackedFlagNameConstant       = "include-untracked"
	untrackedFlagUsageConstant      = "Report untracked files in clean repositories"
	ignoredFlagNameConstant         = "include-ignored"
	ignoredFlagUsageConstant        = "Report ignored files in clean repositories"
	formatFlagNameConstant          = "format"
	formatFlagUsageConstant         = "Report format"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the scan cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConsoleLoggerProvider        LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	GitExecutor                  shared.GitExecutor
	RepositoryManager            shared.RepositoryManager
	FileSystem                   shared.FileSystem
	HomeExpander                 *pathutils.HomeExpander
}

// Build constructs the cobra command that scans repository roots.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.ArbitraryArgs,
		RunE:  builder.run,
	}

	defaults := DefaultCommandConfiguration()
	flags.AddToggleFlag(command.Flags(), nil, announceCleanFlagNameConstant, "", defaults.AnnounceClean, announceCleanFlagUsageConstant)
	flags.AddToggleFlag(command.Flags(), nil, untrackedFlagNameConstant, "", defaults.IncludeUntracked, untrackedFlagUsageConstant)
	flags.AddToggleFlag(command.Flags(), nil, ignoredFlagNameConstant, "", defaults.IncludeIgnored, ignoredFlagUsageConstant)
	command.Flags().String(formatFlagNameConstant, string(defaults.Format), flags.FormatChoiceUsage(string(defaults.Format), ReportFormats(), formatFlagUsageConstant))
	flags.BindRootFlag(command.Flags(), nil)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	options, optionsError := builder.parseOptions(command, arguments)
	if optionsError != nil {
		return optionsError
	}

	logger := builder.resolveLogger()
	fileSystem := dependencies.ResolveFileSystem(builder.FileSystem)

	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, builder.resolveCommandObserver())
	if executorError != nil {
		return executorError
	}

	repositoryManager, managerError := dependencies.ResolveRepositoryManager(builder.RepositoryManager, gitExecutor, fileSystem)
	if managerError != nil {
		return managerError
	}

	diagnostics := shared.NewWriterDiagnosticReporter(applicationNameConstant, command.ErrOrStderr())
	service := NewService(repositoryManager, fileSystem, logger, command.OutOrStdout(), diagnostics)
	return service.Run(command.Context(), options)
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, arguments []string) (CommandOptions, error) {
	configuration := builder.resolveConfiguration()
	flagSet := command.Flags()

	announceClean := configuration.AnnounceClean
	if flagSet.Changed(announceCleanFlagNameConstant) {
		announceClean, _ = flagSet.GetBool(announceCleanFlagNameConstant)
	}
	includeUntracked := configuration.IncludeUntracked
	if flagSet.Changed(untrackedFlagNameConstant) {
		includeUntracked, _ = flagSet.GetBool(untrackedFlagNameConstant)
	}
	includeIgnored := configuration.IncludeIgnored
	if flagSet.Changed(ignoredFlagNameConstant) {
		includeIgnored, _ = flagSet.GetBool(ignoredFlagNameConstant)
	}

	format := configuration.Format
	if flagSet.Changed(formatFlagNameConstant) {
		rawFormat, _ := flagSet.GetString(formatFlagNameConstant)
		parsedFormat, parseError := ParseReportFormat(rawFormat)
		if parseError != nil {
			return CommandOptions{}, parseError
		}
		format = parsedFormat
	}

	requestedRoots := append([]string{}, arguments...)
	if flagRoots, rootsError := flagSet.GetStringSlice(flags.RootFlagName); rootsError == nil {
		requestedRoots = append(requestedRoots, flagRoots...)
	}
	if len(requestedRoots) == 0 {
		requestedRoots = configuration.Roots
	}
	roots := pathutils.NewRootSanitizer(builder.HomeExpander).Sanitize(requestedRoots)
	if len(roots) == 0 {
		roots = []string{defaultRootPathConstant}
	}

	return CommandOptions{
		Roots:         roots,
		AnnounceClean: announceClean,
		Status: gitrepo.StatusOptions{
			IncludeUntracked: includeUntracked,
			IncludeIgnored:   includeIgnored,
		},
		Format: format,
	}, nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	return resolveProvidedLogger(builder.LoggerProvider)
}

func (builder *CommandBuilder) resolveCommandObserver() execshell.CommandEventObserver {
	if builder.HumanReadableLoggingProvider == nil || !builder.HumanReadableLoggingProvider() {
		return nil
	}
	return ui.NewConsoleCommandEventLogger(resolveProvidedLogger(builder.ConsoleLoggerProvider))
}

func resolveProvidedLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
