package utils_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repostate/internal/utils"
)

const (
	testLoggerFactoryCaseSupportedFormatConstant   = "supported_log_level_%s_format_%s"
	testLoggerFactoryCaseUnsupportedLevelConstant  = "unsupported_log_level"
	testLoggerFactoryCaseUnsupportedFormatConstant = "unsupported_log_format"
	testLoggerFactorySubtestTemplateConstant       = "%d_%s"
	testInvalidLogLevelConstant                    = "invalid"
	testInvalidLogFormatConstant                   = "invalid"
	testLogMessageConstant                         = "logger_factory_test_message"
	testColorEscapeSequenceConstant                = "\x1b["
	testLogFileNameConstant                        = "repostate.log"
)

func TestLoggerFactoryCreateLogger(testInstance *testing.T) {
	testCases := []struct {
		name                string
		requestedLogLevel   utils.LogLevel
		requestedLogFormat  utils.LogFormat
		expectError         bool
		expectStructuredLog bool
	}{
		{
			name:                fmt.Sprintf(testLoggerFactoryCaseSupportedFormatConstant, utils.LogLevelDebug, utils.LogFormatStructured),
			requestedLogLevel:   utils.LogLevelDebug,
			requestedLogFormat:  utils.LogFormatStructured,
			expectError:         false,
			expectStructuredLog: true,
		},
		{
			name:                fmt.Sprintf(testLoggerFactoryCaseSupportedFormatConstant, utils.LogLevelInfo, utils.LogFormatStructured),
			requestedLogLevel:   utils.LogLevelInfo,
			requestedLogFormat:  utils.LogFormatStructured,
			expectError:         false,
			expectStructuredLog: true,
		},
		{
			name:                fmt.Sprintf(testLoggerFactoryCaseSupportedFormatConstant, utils.LogLevelInfo, utils.LogFormatConsole),
			requestedLogLevel:   utils.LogLevelInfo,
			requestedLogFormat:  utils.LogFormatConsole,
			expectError:         false,
			expectStructuredLog: false,
		},
		{
			name:               testLoggerFactoryCaseUnsupportedLevelConstant,
			requestedLogLevel:  utils.LogLevel(testInvalidLogLevelConstant),
			requestedLogFormat: utils.LogFormatStructured,
			expectError:        true,
		},
		{
			name:               testLoggerFactoryCaseUnsupportedFormatConstant,
			requestedLogLevel:  utils.LogLevelInfo,
			requestedLogFormat: utils.LogFormat(testInvalidLogFormatConstant),
			expectError:        true,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testLoggerFactorySubtestTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			loggerFactory := utils.NewLoggerFactoryWithTerminalDetector(func(uintptr) bool { return false })

			pipeReader, pipeWriter, pipeError := os.Pipe()
			require.NoError(testInstance, pipeError)

			originalStderr := os.Stderr
			os.Stderr = pipeWriter

			logger, creationError := loggerFactory.CreateLogger(testCase.requestedLogLevel, testCase.requestedLogFormat)

			os.Stderr = originalStderr

			if testCase.expectError {
				require.Error(testInstance, creationError)
				require.Nil(testInstance, logger)

				require.NoError(testInstance, pipeWriter.Close())
				require.NoError(testInstance, pipeReader.Close())
				return
			}

			require.NoError(testInstance, creationError)
			require.NotNil(testInstance, logger)

			logger.Info(testLogMessageConstant)
			syncError := logger.Sync()
			if syncError != nil {
				require.True(testInstance, errors.Is(syncError, syscall.ENOTSUP) || errors.Is(syncError, syscall.EINVAL))
			}

			require.NoError(testInstance, pipeWriter.Close())

			capturedOutput, readError := io.ReadAll(pipeReader)
			require.NoError(testInstance, readError)
			require.NoError(testInstance, pipeReader.Close())

			trimmedOutput := bytes.TrimSpace(capturedOutput)
			require.NotEmpty(testInstance, trimmedOutput)
			require.Contains(testInstance, string(trimmedOutput), testLogMessageConstant)

			isJSONLog := json.Valid(trimmedOutput)
			if testCase.expectStructuredLog {
				require.True(testInstance, isJSONLog)
			} else {
				require.False(testInstance, isJSONLog)
				require.NotContains(testInstance, string(trimmedOutput), testColorEscapeSequenceConstant)
			}
		})
	}
}

func TestLoggerFactoryColorizesConsoleLevelsOnTerminals(testInstance *testing.T) {
	capturedOutput := captureStandardError(testInstance, func() {
		loggerFactory := utils.NewLoggerFactoryWithTerminalDetector(func(uintptr) bool { return true })
		logger, creationError := loggerFactory.CreateLogger(utils.LogLevelInfo, utils.LogFormatConsole)
		require.NoError(testInstance, creationError)
		logger.Warn(testLogMessageConstant)
	})

	require.Contains(testInstance, capturedOutput, testColorEscapeSequenceConstant)
	require.Contains(testInstance, capturedOutput, testLogMessageConstant)
}

func TestLoggerFactoryWritesRotatingLogFile(testInstance *testing.T) {
	logFilePath := filepath.Join(testInstance.TempDir(), testLogFileNameConstant)

	var outputs utils.LoggerOutputs
	captureStandardError(testInstance, func() {
		loggerFactory := utils.NewLoggerFactory()
		createdOutputs, creationError := loggerFactory.CreateLoggerOutputs(utils.LogLevelDebug, utils.LogFormatConsole, logFilePath)
		require.NoError(testInstance, creationError)
		outputs = createdOutputs
		outputs.DiagnosticLogger.Debug(testLogMessageConstant)
	})
	require.NoError(testInstance, outputs.Close())

	fileContent, readError := os.ReadFile(logFilePath)
	require.NoError(testInstance, readError)
	require.True(testInstance, json.Valid(bytes.TrimSpace(fileContent)))
	require.Contains(testInstance, string(fileContent), testLogMessageConstant)
}

func TestLoggerFactoryConsoleLoggerPrintsBareMessages(testInstance *testing.T) {
	capturedOutput := captureStandardError(testInstance, func() {
		outputs, creationError := utils.NewLoggerFactory().CreateLoggerOutputs(utils.LogLevelInfo, utils.LogFormatStructured, "")
		require.NoError(testInstance, creationError)
		outputs.ConsoleLogger.Info(testLogMessageConstant)
	})

	require.Equal(testInstance, testLogMessageConstant, strings.TrimSpace(capturedOutput))
}

func captureStandardError(testInstance *testing.T, action func()) string {
	testInstance.Helper()

	pipeReader, pipeWriter, pipeError := os.Pipe()
	require.NoError(testInstance, pipeError)

	originalStderr := os.Stderr
	os.Stderr = pipeWriter
	defer func() {
		os.Stderr = originalStderr
	}()

	action()

	require.NoError(testInstance, pipeWriter.Close())
	capturedOutput, readError := io.ReadAll(pipeReader)
	require.NoError(testInstance, readError)
	require.NoError(testInstance, pipeReader.Close())
	return string(capturedOutput)
}
