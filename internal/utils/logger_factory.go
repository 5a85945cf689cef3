package utils

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logLevelDebugStringConstant          = "debug"
	logLevelInfoStringConstant           = "info"
	logLevelWarnStringConstant           = "warn"
	logLevelErrorStringConstant          = "error"
	logFormatStructuredStringConstant    = "structured"
	logFormatConsoleStringConstant       = "console"
	consoleMessageKeyConstant            = "message"
	unsupportedLogLevelTemplateConstant  = "unsupported log level: %s"
	unsupportedLogFormatTemplateConstant = "unsupported log format: %s"
	logFileMaximumSizeMegabytes          = 10
	logFileMaximumBackups                = 3
	logFileMaximumAgeDays                = 28
)

// LogLevel enumerates supported logging granularities.
type LogLevel string

// Exported log level constants for reuse across packages.
const (
	LogLevelDebug LogLevel = LogLevel(logLevelDebugStringConstant)
	LogLevelInfo  LogLevel = LogLevel(logLevelInfoStringConstant)
	LogLevelWarn  LogLevel = LogLevel(logLevelWarnStringConstant)
	LogLevelError LogLevel = LogLevel(logLevelErrorStringConstant)
)

// LogFormat enumerates supported logger output encodings.
type LogFormat string

// Exported log format constants for reuse across packages.
const (
	LogFormatStructured LogFormat = LogFormat(logFormatStructuredStringConstant)
	LogFormatConsole    LogFormat = LogFormat(logFormatConsoleStringConstant)
)

var logLevelMapping = map[LogLevel]zapcore.Level{
	LogLevelDebug: zapcore.DebugLevel,
	LogLevelInfo:  zapcore.InfoLevel,
	LogLevelWarn:  zapcore.WarnLevel,
	LogLevelError: zapcore.ErrorLevel,
}

// TerminalDetector reports whether a file descriptor is attached to a terminal.
type TerminalDetector func(fileDescriptor uintptr) bool

// LoggerOutputs bundles the loggers produced for a single run.
type LoggerOutputs struct {
	// DiagnosticLogger carries structured or console diagnostics, plus the optional log file.
	DiagnosticLogger *zap.Logger
	// ConsoleLogger prints bare messages to stderr for human-readable progress.
	ConsoleLogger *zap.Logger
	closers       []io.Closer
}

// Close releases file sinks opened for the loggers.
func (outputs LoggerOutputs) Close() error {
	var closeErrors []error
	for _, closer := range outputs.closers {
		if closeError := closer.Close(); closeError != nil {
			closeErrors = append(closeErrors, closeError)
		}
	}
	return errors.Join(closeErrors...)
}

// LoggerFactory builds zap.Logger instances with consistent configuration.
type LoggerFactory struct {
	terminalDetector TerminalDetector
}

// NewLoggerFactory constructs a new logger factory.
func NewLoggerFactory() *LoggerFactory {
	return NewLoggerFactoryWithTerminalDetector(isTerminal)
}

// NewLoggerFactoryWithTerminalDetector constructs a logger factory using a custom terminal check.
func NewLoggerFactoryWithTerminalDetector(detector TerminalDetector) *LoggerFactory {
	if detector == nil {
		detector = isTerminal
	}
	return &LoggerFactory{terminalDetector: detector}
}

// CreateLogger produces a zap.Logger honoring the requested log level and format.
func (factory *LoggerFactory) CreateLogger(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (*zap.Logger, error) {
	outputs, creationError := factory.CreateLoggerOutputs(requestedLogLevel, requestedLogFormat, "")
	if creationError != nil {
		return nil, creationError
	}
	return outputs.DiagnosticLogger, nil
}

// CreateLoggerOutputs produces the diagnostic and console loggers. A non-empty logFilePath adds a rotating JSON file sink.
func (factory *LoggerFactory) CreateLoggerOutputs(requestedLogLevel LogLevel, requestedLogFormat LogFormat, logFilePath string) (LoggerOutputs, error) {
	zapLogLevel, levelExists := logLevelMapping[requestedLogLevel]
	if !levelExists {
		return LoggerOutputs{}, fmt.Errorf(unsupportedLogLevelTemplateConstant, requestedLogLevel)
	}

	errorStream := os.Stderr
	colorize := factory.terminalDetector(errorStream.Fd())

	var streamEncoder zapcore.Encoder
	switch requestedLogFormat {
	case LogFormatStructured:
		streamEncoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	case LogFormatConsole:
		encoderConfiguration := zap.NewDevelopmentEncoderConfig()
		encoderConfiguration.EncodeLevel = zapcore.CapitalLevelEncoder
		if colorize {
			encoderConfiguration.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		streamEncoder = zapcore.NewConsoleEncoder(encoderConfiguration)
	default:
		return LoggerOutputs{}, fmt.Errorf(unsupportedLogFormatTemplateConstant, requestedLogFormat)
	}

	levelEnabler := zap.NewAtomicLevelAt(zapLogLevel)
	errorSink := zapcore.Lock(errorStream)
	cores := []zapcore.Core{zapcore.NewCore(streamEncoder, errorSink, levelEnabler)}

	var closers []io.Closer
	trimmedLogFilePath := strings.TrimSpace(logFilePath)
	if len(trimmedLogFilePath) > 0 {
		rotatingFile := &lumberjack.Logger{
			Filename:   trimmedLogFilePath,
			MaxSize:    logFileMaximumSizeMegabytes,
			MaxBackups: logFileMaximumBackups,
			MaxAge:     logFileMaximumAgeDays,
		}
		closers = append(closers, rotatingFile)
		fileEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		cores = append(cores, zapcore.NewCore(fileEncoder, zapcore.AddSync(rotatingFile), levelEnabler))
	}

	diagnosticLogger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	consoleEncoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{MessageKey: consoleMessageKeyConstant, LineEnding: zapcore.DefaultLineEnding})
	consoleLogger := zap.New(zapcore.NewCore(consoleEncoder, errorSink, levelEnabler))

	return LoggerOutputs{DiagnosticLogger: diagnosticLogger, ConsoleLogger: consoleLogger, closers: closers}, nil
}

func isTerminal(fileDescriptor uintptr) bool {
	return isatty.IsTerminal(fileDescriptor) || isatty.IsCygwinTerminal(fileDescriptor)
}
