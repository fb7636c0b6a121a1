package internals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinerOptionNames(t *testing.T) {
	both := MinerOption{ShortName: "-i", LongName: "--intensity="}
	assert.Equal(t, []string{"-i", "--intensity="}, both.Names())
	assert.Equal(t, "-i", both.CommandName())

	long := MinerOption{LongName: "--cuda-schedule"}
	assert.Equal(t, []string{"--cuda-schedule"}, long.Names())
	assert.Equal(t, "--cuda-schedule", long.CommandName())
}

func TestOptionsPackageAll(t *testing.T) {
	pkg := MinerOptionsPackage{
		GeneralOptions:     []MinerOption{{ID: "a"}, {ID: "b"}},
		TemperatureOptions: []MinerOption{{ID: "c"}},
	}
	all := pkg.All()
	ids := make([]string, len(all))
	for i, option := range all {
		ids[i] = option.ID
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestEnvironmentResolve(t *testing.T) {
	vars := MinerSystemEnvironmentVariables{
		DefaultSystemEnvironmentVariables: map[string]string{
			"CUDA_DEVICE_ORDER": "PCI_BUS_ID",
			"GPU_MAX_HEAP_SIZE": "100",
		},
		CustomSystemEnvironmentVariables: map[string]map[string]string{
			"skunk": {"GPU_MAX_HEAP_SIZE": "90"},
		},
	}

	assert.Equal(t, map[string]string{
		"CUDA_DEVICE_ORDER": "PCI_BUS_ID",
		"GPU_MAX_HEAP_SIZE": "90",
	}, vars.Resolve("skunk"))
	assert.Equal(t, vars.DefaultSystemEnvironmentVariables, vars.Resolve("x16r"))
	assert.Empty(t, MinerSystemEnvironmentVariables{}.Resolve("x16r"))
}
