package testsupport

import (
	"context"
	"fmt"
	"strings"

	"github.com/temirov/repostate/internal/execshell"
)

// GitExecutorStub returns canned results keyed by the space-joined git arguments.
type GitExecutorStub struct {
	Results          map[string]execshell.ExecutionResult
	Errors           map[string]error
	ExecutedCommands []execshell.CommandDetails
}

// ExecuteGit records the invocation and returns the configured outcome.
func (executor *GitExecutorStub) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.ExecutedCommands = append(executor.ExecutedCommands, details)
	key := strings.Join(details.Arguments, " ")
	if executionError, exists := executor.Errors[key]; exists {
		return execshell.ExecutionResult{}, executionError
	}
	if result, exists := executor.Results[key]; exists {
		return result, nil
	}
	return execshell.ExecutionResult{}, fmt.Errorf("unexpected git command: %s", key)
}
