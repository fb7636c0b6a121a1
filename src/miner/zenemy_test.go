package miner

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/mininghq/zenemy-plugin/src/algorithm"
	"github.com/mininghq/zenemy-plugin/src/conf"
	"github.com/mininghq/zenemy-plugin/src/device"
	"github.com/mininghq/zenemy-plugin/src/internals"
	"github.com/mininghq/zenemy-plugin/src/launchparams"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLog() *logrus.Entry {
	logger, _ := logtest.NewNullLogger()
	return logrus.NewEntry(logger)
}

func cudaPair(ordinal int, algo algorithm.Type, params string) algorithm.MiningPair {
	a := algorithm.New("plugin", algo)
	a.ExtraLaunchParameters = params
	return algorithm.MiningPair{
		Device:    &device.CUDADevice{ID: "GPU-" + string(rune('a'+ordinal)), Ordinal: ordinal, SMMajor: 6},
		Algorithm: a,
	}
}

func newTestMiner(t *testing.T, root string) *ZEnemy {
	t.Helper()
	options := []internals.MinerOption{
		{Type: internals.OptionWithMultipleParameters, ID: "zenemy_intensity", ShortName: "-i", LongName: "--intensity=", DefaultValue: "19", Delimiter: ","},
	}
	return NewZEnemy(Settings{
		PluginRoot: root,
		Version:    "1.1",
		Options:    internals.MinerOptionsPackage{GeneralOptions: options},
		Environment: internals.MinerSystemEnvironmentVariables{
			DefaultSystemEnvironmentVariables: map[string]string{
				"ZENEMY_TEST":       "default",
				"CUDA_DEVICE_ORDER": "PCI_BUS_ID",
			},
		},
		Parser: launchparams.NewParser(options, nil, nil, testLog()),
	}, testLog())
}

func TestInitMiningSetup(t *testing.T) {
	tests := []struct {
		name  string
		setup MiningSetup
		err   string
	}{
		{
			name:  "no pairs",
			setup: MiningSetup{PoolURL: "stratum+tcp://pool:1"},
			err:   ErrNoPairs.Error(),
		},
		{
			name:  "no pool",
			setup: MiningSetup{Pairs: []algorithm.MiningPair{cudaPair(0, algorithm.X16R, "")}},
			err:   "pool URL",
		},
		{
			name: "mixed algorithms",
			setup: MiningSetup{
				PoolURL: "stratum+tcp://pool:1",
				Pairs: []algorithm.MiningPair{
					cudaPair(0, algorithm.X16R, ""),
					cudaPair(1, algorithm.Skunk, ""),
				},
			},
			err: "Unable to mix",
		},
		{
			name: "non CUDA device",
			setup: MiningSetup{
				PoolURL: "stratum+tcp://pool:1",
				Pairs: []algorithm.MiningPair{{
					Device:    &device.AMDDevice{ID: "AMD-1"},
					Algorithm: algorithm.New("plugin", algorithm.X16R),
				}},
			},
			err: "no CUDA index",
		},
		{
			name: "CUDA device without ordinal",
			setup: MiningSetup{
				PoolURL: "stratum+tcp://pool:1",
				Pairs:   []algorithm.MiningPair{cudaPair(-1, algorithm.X16R, "")},
			},
			err: "no CUDA index",
		},
		{
			name: "API port out of range",
			setup: MiningSetup{
				PoolURL: "stratum+tcp://pool:1",
				Pairs:   []algorithm.MiningPair{cudaPair(0, algorithm.X16R, "")},
				APIPort: 65536,
			},
			err: "outside 1-65535",
		},
		{
			name: "negative API port",
			setup: MiningSetup{
				PoolURL: "stratum+tcp://pool:1",
				Pairs:   []algorithm.MiningPair{cudaPair(0, algorithm.X16R, "")},
				APIPort: -1,
			},
			err: "outside 1-65535",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			miner := newTestMiner(t, t.TempDir())
			err := miner.InitMiningSetup(tt.setup)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.err)
		})
	}
}

func TestCommandLine(t *testing.T) {
	miner := newTestMiner(t, t.TempDir())
	require.NoError(t, miner.InitMiningSetup(MiningSetup{
		Pairs: []algorithm.MiningPair{
			cudaPair(0, algorithm.X16R, "-i 21"),
			cudaPair(2, algorithm.X16R, ""),
		},
		PoolURL:  "stratum+tcp://pool.example.com:3636",
		Username: "wallet.rig",
		Password: "x",
	}))

	assert.Equal(t, []string{
		"-a", "x16r",
		"-o", "stratum+tcp://pool.example.com:3636",
		"-u", "wallet.rig",
		"-p", "x",
		"-d", "0,2",
		"-b", "127.0.0.1:" + "4068",
		"-i", "21,19",
	}, miner.CommandLine())
	assert.Equal(t, "x16r-0,2", miner.GetKey())
	assert.Equal(t, "zenemy", miner.GetType())
	assert.Equal(t, "1.1", miner.GetVersion())
	assert.Equal(t, []string{"CUDA_DEVICE_ORDER=PCI_BUS_ID", "ZENEMY_TEST=default"}, miner.Environment())
}

func TestGetBinAndCwdPaths(t *testing.T) {
	miner := newTestMiner(t, "/plugins/abc")
	bin, cwd := miner.GetBinAndCwdPaths()
	assert.Equal(t, filepath.Join("/plugins/abc", conf.BinsDir, BinaryName), bin)
	assert.Equal(t, filepath.Join("/plugins/abc", conf.BinsDir), cwd)
}

func TestStartWithoutSetup(t *testing.T) {
	miner := newTestMiner(t, t.TempDir())
	assert.ErrorIs(t, miner.Start(context.Background()), ErrNoPairs)
	assert.ErrorIs(t, miner.Stop(), ErrNotRunning)
}

func TestStartMissingBinary(t *testing.T) {
	miner := newTestMiner(t, t.TempDir())
	require.NoError(t, miner.InitMiningSetup(MiningSetup{
		Pairs:   []algorithm.MiningPair{cudaPair(0, algorithm.X16R, "")},
		PoolURL: "stratum+tcp://pool:1",
	}))

	err := miner.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unable to start z-enemy")
	assert.False(t, miner.IsRunning())
}

// installScript puts a shell script where the z-enemy binary is expected
func installScript(t *testing.T, root string, body string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	bins := filepath.Join(root, conf.BinsDir)
	require.NoError(t, os.MkdirAll(bins, 0755))
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(bins, BinaryName), []byte(script), 0755))
}

func TestStartStop(t *testing.T) {
	root := t.TempDir()
	installScript(t, root, `echo "$ZENEMY_TEST $*" > launched.txt
exec sleep 30`)

	miner := newTestMiner(t, root)
	require.NoError(t, miner.InitMiningSetup(MiningSetup{
		Pairs:   []algorithm.MiningPair{cudaPair(1, algorithm.Skunk, "")},
		PoolURL: "stratum+tcp://pool:1",
		APIPort: 5001,
	}))
	handlerCalled := make(chan string, 1)
	miner.SetErrorHandler(func(key string, text string) { handlerCalled <- text })

	require.NoError(t, miner.Start(context.Background()))
	assert.True(t, miner.IsRunning())
	assert.ErrorIs(t, miner.Start(context.Background()), ErrAlreadyRunning)

	launched := filepath.Join(root, conf.BinsDir, "launched.txt")
	var content string
	require.Eventually(t, func() bool {
		data, err := os.ReadFile(launched)
		content = string(data)
		return err == nil && strings.HasSuffix(content, "\n")
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, "default -a skunk -o stratum+tcp://pool:1 -u  -p  -d 1 -b 127.0.0.1:5001\n", content)

	require.NoError(t, miner.Stop())
	assert.False(t, miner.IsRunning())
	assert.ErrorIs(t, miner.Stop(), ErrNotRunning)
	assert.Empty(t, handlerCalled)
}

func TestUnexpectedExitIsReported(t *testing.T) {
	root := t.TempDir()
	installScript(t, root, "exit 3")

	miner := newTestMiner(t, root)
	require.NoError(t, miner.InitMiningSetup(MiningSetup{
		Pairs:   []algorithm.MiningPair{cudaPair(0, algorithm.X16R, "")},
		PoolURL: "stratum+tcp://pool:1",
	}))
	type report struct{ key, text string }
	reports := make(chan report, 1)
	miner.SetErrorHandler(func(key string, text string) { reports <- report{key, text} })

	require.NoError(t, miner.Start(context.Background()))

	select {
	case got := <-reports:
		assert.Equal(t, "x16r-0", got.key)
		assert.Contains(t, got.text, "exit status 3")
	case <-time.After(5 * time.Second):
		t.Fatal("exit was not reported")
	}
	assert.Eventually(t, func() bool { return !miner.IsRunning() }, time.Second, 10*time.Millisecond)
}
