package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/mininghq/zenemy-plugin/src/algorithm"
	"github.com/mininghq/zenemy-plugin/src/device"
	"github.com/mininghq/zenemy-plugin/src/internals"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectPairs(t *testing.T) {
	a := &device.CUDADevice{ID: "GPU-a", SMMajor: 6}
	b := &device.CUDADevice{ID: "GPU-b", SMMajor: 7, Ordinal: 1}
	old := &device.CUDADevice{ID: "GPU-old", SMMajor: 5, Ordinal: 2}
	devices := []device.Device{a, old, b}

	disabled := algorithm.New("plugin", algorithm.Skunk)
	disabled.Enabled = false
	supported := map[device.Device][]algorithm.Algorithm{
		a: {algorithm.New("plugin", algorithm.X16R), algorithm.New("plugin", algorithm.Skunk)},
		b: {algorithm.New("plugin", algorithm.X16R), disabled},
	}

	pairs := selectPairs(devices, supported, algorithm.X16R, nil, "-i 20")
	require.Len(t, pairs, 2)
	assert.Equal(t, a, pairs[0].Device)
	assert.Equal(t, b, pairs[1].Device)
	assert.Equal(t, "-i 20", pairs[1].Algorithm.ExtraLaunchParameters)
	// the supported map is not modified
	assert.Empty(t, supported[a][0].ExtraLaunchParameters)

	pairs = selectPairs(devices, supported, algorithm.Skunk, nil, "")
	require.Len(t, pairs, 1)
	assert.Equal(t, a, pairs[0].Device)

	pairs = selectPairs(devices, supported, algorithm.X16R, []string{"GPU-b"}, "")
	require.Len(t, pairs, 1)
	assert.Equal(t, b, pairs[0].Device)

	assert.Empty(t, selectPairs(devices, supported, algorithm.Hex, nil, ""))
}

func TestSetupLeavesInternalsUntouched(t *testing.T) {
	pluginsPath := t.TempDir()
	configPath := filepath.Join(t.TempDir(), "zenemy-plugin.toml")
	config := fmt.Sprintf("pluginsPath = %q\nlogLevel = \"error\"\n", pluginsPath)
	require.NoError(t, os.WriteFile(configPath, []byte(config), 0644))

	a := &app{configPath: configPath}
	require.NoError(t, a.setup())

	dir := filepath.Join(a.plugin.PluginRoot(), internals.Dir)
	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "setup must not write settings")

	a.loadInternals()
	assert.FileExists(t, filepath.Join(dir, internals.OptionsFile))
	assert.FileExists(t, filepath.Join(dir, internals.EnvironmentFile))
}
