package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCUDAView(t *testing.T) {
	gpu := &CUDADevice{ID: "GPU-1", Product: "GeForce GTX 1080", Ordinal: 2, SMMajor: 6, SMMinor: 1}

	view, ok := gpu.CUDA()
	require.True(t, ok)
	assert.Equal(t, 2, view.Index())
	major, minor := view.ComputeCapability()
	assert.Equal(t, 6, major)
	assert.Equal(t, 1, minor)
	assert.Equal(t, TypeCUDA, gpu.Type())
}

func TestNonCUDADevicesHaveNoView(t *testing.T) {
	devices := []Device{
		&AMDDevice{ID: "AMD-1", Product: "Radeon RX 580"},
		&CPUDevice{ID: "CPU-0", Product: "Ryzen 7", Threads: 16},
	}
	for _, dev := range devices {
		view, ok := dev.CUDA()
		assert.False(t, ok, dev.Name())
		assert.Nil(t, view, dev.Name())
	}
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "cpu", TypeCPU.String())
	assert.Equal(t, "cuda", TypeCUDA.String())
	assert.Equal(t, "amd", TypeAMD.String())
	assert.Equal(t, "unknown(9)", Type(9).String())
}
