package internals

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDefaults = MinerOptionsPackage{
	GeneralOptions: []MinerOption{
		{Type: OptionWithSingleParameter, ID: "opt_a", LongName: "--a", DefaultValue: "1"},
	},
}

func newTestLoader(t *testing.T) (*Loader, *logtest.Hook) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return NewLoader(t.TempDir(), logrus.NewEntry(logger)), hook
}

func writeFile(t *testing.T, path string, value interface{}) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	data, err := json.Marshal(value)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func TestMissingFileSeedsDefaults(t *testing.T) {
	loader, _ := newTestLoader(t)

	assert.Nil(t, loader.InitMinerOptionsPackage(testDefaults))

	data, err := os.ReadFile(loader.Path(OptionsFile))
	require.NoError(t, err)
	var seeded MinerOptionsPackage
	require.NoError(t, json.Unmarshal(data, &seeded))
	assert.Equal(t, testDefaults, seeded)

	// The seeded file does not opt in, defaults stay active on the next start
	assert.Nil(t, loader.InitMinerOptionsPackage(testDefaults))
}

func TestUserSettingsOverride(t *testing.T) {
	loader, _ := newTestLoader(t)
	override := MinerOptionsPackage{
		UseUserSettings: true,
		GeneralOptions: []MinerOption{
			{Type: OptionWithSingleParameter, ID: "opt_a", LongName: "--a", DefaultValue: "7"},
		},
	}
	writeFile(t, loader.Path(OptionsFile), override)

	got := loader.InitMinerOptionsPackage(testDefaults)
	require.NotNil(t, got)
	assert.Equal(t, "7", got.GeneralOptions[0].DefaultValue)
}

func TestUserSettingsWithoutOptIn(t *testing.T) {
	loader, _ := newTestLoader(t)
	writeFile(t, loader.Path(OptionsFile), MinerOptionsPackage{UseUserSettings: false})

	assert.Nil(t, loader.InitMinerOptionsPackage(testDefaults))
}

func TestMalformedSettingsAreIgnored(t *testing.T) {
	loader, hook := newTestLoader(t)
	path := loader.Path(EnvironmentFile)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	assert.Nil(t, loader.InitMinerSystemEnvironmentVariables(MinerSystemEnvironmentVariables{}))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestEnvironmentOverride(t *testing.T) {
	loader, _ := newTestLoader(t)
	writeFile(t, loader.Path(EnvironmentFile), MinerSystemEnvironmentVariables{
		UseUserSettings:                   true,
		DefaultSystemEnvironmentVariables: map[string]string{"GPU_FORCE_64BIT_PTR": "1"},
	})

	got := loader.InitMinerSystemEnvironmentVariables(MinerSystemEnvironmentVariables{})
	require.NotNil(t, got)
	assert.Equal(t, map[string]string{"GPU_FORCE_64BIT_PTR": "1"}, got.DefaultSystemEnvironmentVariables)
}
