package cli_test

import (
	"bytes"
	"testing"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/temirov/repostate/cmd/cli"
	"github.com/temirov/repostate/internal/scan"
)

const (
	embeddedDefaultLogLevelConstant  = "error"
	embeddedDefaultLogFormatConstant = "console"
)

func TestEmbeddedDefaultConfigurationMatchesCommandDefaults(testInstance *testing.T) {
	configuration := decodeEmbeddedApplicationConfiguration(testInstance)

	require.Equal(testInstance, embeddedDefaultLogLevelConstant, configuration.Common.LogLevel)
	require.Equal(testInstance, embeddedDefaultLogFormatConstant, configuration.Common.LogFormat)
	require.Empty(testInstance, configuration.Common.LogFile)
	require.Equal(testInstance, scan.DefaultCommandConfiguration(), configuration.Scan)
}

func TestEmbeddedDefaultConfigurationReturnsCopy(testInstance *testing.T) {
	firstCopy, configurationType := cli.EmbeddedDefaultConfiguration()
	require.Equal(testInstance, "yaml", configurationType)
	require.NotEmpty(testInstance, firstCopy)

	firstCopy[0] = '#'
	secondCopy, _ := cli.EmbeddedDefaultConfiguration()
	require.NotEqual(testInstance, firstCopy[0], secondCopy[0])
}

func decodeEmbeddedApplicationConfiguration(testingInstance testing.TB) cli.ApplicationConfiguration {
	testingInstance.Helper()

	configurationData, configurationType := cli.EmbeddedDefaultConfiguration()
	viperInstance := viper.New()
	viperInstance.SetConfigType(configurationType)
	require.NoError(testingInstance, viperInstance.ReadConfig(bytes.NewReader(configurationData)))

	var configuration cli.ApplicationConfiguration
	decodeHook := viper.DecodeHook(mapstructure.TextUnmarshallerHookFunc())
	require.NoError(testingInstance, viperInstance.Unmarshal(&configuration, decodeHook))
	return configuration
}
