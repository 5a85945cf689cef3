package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const testFormatDescriptionConstant = "Report format"

func TestFormatChoiceUsage(testInstance *testing.T) {
	testCases := []struct {
		name           string
		defaultChoice  string
		choices        []string
		description    string
		expectedOutput string
	}{
		{
			name:           "default_first",
			defaultChoice:  "text",
			choices:        []string{"text", "yaml"},
			description:    testFormatDescriptionConstant,
			expectedOutput: "`<TEXT|yaml>` Report format",
		},
		{
			name:           "default_second",
			defaultChoice:  "yaml",
			choices:        []string{"text", "yaml"},
			description:    testFormatDescriptionConstant,
			expectedOutput: "`<text|YAML>` Report format",
		},
		{
			name:           "no_default",
			choices:        []string{"structured", "console"},
			description:    testFormatDescriptionConstant,
			expectedOutput: "`<structured|console>` Report format",
		},
		{
			name:           "empty_description",
			defaultChoice:  "text",
			choices:        []string{"text", "yaml"},
			expectedOutput: "`<TEXT|yaml>`",
		},
		{
			name:           "duplicates_and_blanks_dropped",
			defaultChoice:  "Yaml",
			choices:        []string{" yaml ", "YAML", "", "text"},
			description:    testFormatDescriptionConstant,
			expectedOutput: "`<YAML|text>` Report format",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedOutput, FormatChoiceUsage(testCase.defaultChoice, testCase.choices, testCase.description))
		})
	}
}
