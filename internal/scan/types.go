package scan

import "github.com/temirov/repostate/internal/gitrepo"

// CommandOptions captures the resolved parameters of a scan.
type CommandOptions struct {
	Roots         []string
	AnnounceClean bool
	Status        gitrepo.StatusOptions
	Format        ReportFormat
}

// Report is the document rendered by the YAML format.
type Report struct {
	Repositories []RepositoryReport `yaml:"repositories"`
}

// RepositoryReport describes a single repository in the YAML report.
type RepositoryReport struct {
	Path    string         `yaml:"path"`
	State   string         `yaml:"state"`
	Bare    bool           `yaml:"bare,omitempty"`
	Changes []ChangeReport `yaml:"changes,omitempty"`
}

// ChangeReport describes a changed path inside a clean repository.
type ChangeReport struct {
	Path         string `yaml:"path"`
	OriginalPath string `yaml:"original_path,omitempty"`
	Status       string `yaml:"status"`
}

func newRepositoryReport(repository *gitrepo.Repository, state gitrepo.RepositoryState) RepositoryReport {
	return RepositoryReport{
		Path:  repository.RootPath(),
		State: state.String(),
		Bare:  repository.Bare(),
	}
}

func newChangeReports(entries []gitrepo.StatusEntry) []ChangeReport {
	changes := make([]ChangeReport, 0, len(entries))
	for _, entry := range entries {
		changes = append(changes, ChangeReport{
			Path:         entry.Path,
			OriginalPath: entry.OriginalPath,
			Status:       entry.Flags.String(),
		})
	}
	return changes
}
