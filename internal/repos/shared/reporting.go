package shared

import (
	"fmt"
	"io"
)

const diagnosticLineTemplateConstant = "%s: %v\n"

// DiagnosticReporter prints one line per non-fatal failure, prefixed with the program name.
type DiagnosticReporter interface {
	Report(failure error)
}

type writerDiagnosticReporter struct {
	programName string
	writer      io.Writer
}

// NewWriterDiagnosticReporter constructs a DiagnosticReporter writing "<programName>: <cause>" lines.
// A nil writer discards diagnostics.
func NewWriterDiagnosticReporter(programName string, writer io.Writer) DiagnosticReporter {
	if writer == nil {
		writer = io.Discard
	}
	return writerDiagnosticReporter{programName: programName, writer: writer}
}

func (reporter writerDiagnosticReporter) Report(failure error) {
	if failure == nil {
		return
	}
	fmt.Fprintf(reporter.writer, diagnosticLineTemplateConstant, reporter.programName, failure)
}
