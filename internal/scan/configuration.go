package scan

import (
	"fmt"
	"strings"
)

const (
	configurationRootsKeyConstant            = "roots"
	configurationAnnounceCleanKeyConstant    = "announce_clean"
	configurationIncludeUntrackedKeyConstant = "include_untracked"
	configurationIncludeIgnoredKeyConstant   = "include_ignored"
	configurationFormatKeyConstant           = "format"
	configurationKeySeparatorConstant        = "."
	defaultRootPathConstant                  = "."
	unsupportedFormatTemplateConstant        = "unsupported report format %q (expected text or yaml)"
)

// ReportFormat selects how the report is rendered.
type ReportFormat string

// Supported report formats.
const (
	ReportFormatText ReportFormat = "text"
	ReportFormatYAML ReportFormat = "yaml"
)

// ReportFormats lists the accepted formats, default first.
func ReportFormats() []string {
	return []string{string(ReportFormatText), string(ReportFormatYAML)}
}

// ParseReportFormat normalizes a user supplied format name.
func ParseReportFormat(raw string) (ReportFormat, error) {
	switch ReportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case ReportFormatText, "":
		return ReportFormatText, nil
	case ReportFormatYAML:
		return ReportFormatYAML, nil
	default:
		return "", fmt.Errorf(unsupportedFormatTemplateConstant, raw)
	}
}

// UnmarshalText lets configuration decoding validate the format.
func (format *ReportFormat) UnmarshalText(text []byte) error {
	parsedFormat, parseError := ParseReportFormat(string(text))
	if parseError != nil {
		return parseError
	}
	*format = parsedFormat
	return nil
}

// CommandConfiguration captures persistent settings for the scan command.
type CommandConfiguration struct {
	Roots            []string     `mapstructure:"roots"`
	AnnounceClean    bool         `mapstructure:"announce_clean"`
	IncludeUntracked bool         `mapstructure:"include_untracked"`
	IncludeIgnored   bool         `mapstructure:"include_ignored"`
	Format           ReportFormat `mapstructure:"format"`
}

// DefaultCommandConfiguration returns baseline configuration values for the scan command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Roots:            []string{defaultRootPathConstant},
		AnnounceClean:    false,
		IncludeUntracked: true,
		IncludeIgnored:   false,
		Format:           ReportFormatText,
	}
}

// DefaultConfigurationValues exposes the defaults as viper keys under prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		joinConfigurationKey(prefix, configurationRootsKeyConstant):            defaults.Roots,
		joinConfigurationKey(prefix, configurationAnnounceCleanKeyConstant):    defaults.AnnounceClean,
		joinConfigurationKey(prefix, configurationIncludeUntrackedKeyConstant): defaults.IncludeUntracked,
		joinConfigurationKey(prefix, configurationIncludeIgnoredKeyConstant):   defaults.IncludeIgnored,
		joinConfigurationKey(prefix, configurationFormatKeyConstant):           string(defaults.Format),
	}
}

func joinConfigurationKey(prefix string, key string) string {
	trimmedPrefix := strings.TrimSpace(prefix)
	if len(trimmedPrefix) == 0 {
		return key
	}
	return trimmedPrefix + configurationKeySeparatorConstant + key
}

func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Roots = nil
	for _, root := range configuration.Roots {
		trimmedRoot := strings.TrimSpace(root)
		if len(trimmedRoot) > 0 {
			sanitized.Roots = append(sanitized.Roots, trimmedRoot)
		}
	}
	if len(sanitized.Format) == 0 {
		sanitized.Format = ReportFormatText
	}
	return sanitized
}
