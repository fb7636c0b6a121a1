//go:build linux && cgo && nvml

package caps

import (
	"fmt"

	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

type nvmlLibrary struct{}

// NewNVML returns the NVML implementation backed by libnvidia-ml
func NewNVML() NVML {
	return &nvmlLibrary{}
}

func (lib *nvmlLibrary) Init() error {
	ret := nvml.Init()
	if ret != nvml.SUCCESS && ret != nvml.ERROR_ALREADY_INITIALIZED {
		return fmt.Errorf("%w: init failed: %s", ErrNVMLUnavailable, nvml.ErrorString(ret))
	}
	return nil
}

func (lib *nvmlLibrary) Shutdown() error {
	ret := nvml.Shutdown()
	if ret != nvml.SUCCESS {
		return fmt.Errorf("Unable to shutdown NVML: %s", nvml.ErrorString(ret))
	}
	return nil
}

func (lib *nvmlLibrary) DriverVersion() (string, error) {
	version, ret := nvml.SystemGetDriverVersion()
	if ret != nvml.SUCCESS {
		return "", fmt.Errorf("Unable to read driver version: %s", nvml.ErrorString(ret))
	}
	return version, nil
}

func (lib *nvmlLibrary) CUDADevices() ([]CUDAInfo, error) {
	count, ret := nvml.DeviceGetCount()
	if ret != nvml.SUCCESS {
		return nil, fmt.Errorf("Unable to get device count: %s", nvml.ErrorString(ret))
	}

	devices := make([]CUDAInfo, 0, count)
	for i := range count {
		dev, ret := nvml.DeviceGetHandleByIndex(i)
		if ret != nvml.SUCCESS {
			return nil, fmt.Errorf("Unable to get device handle for GPU %d: %s", i, nvml.ErrorString(ret))
		}

		uuid, ret := dev.GetUUID()
		if ret != nvml.SUCCESS {
			return nil, fmt.Errorf("Unable to get UUID for GPU %d: %s", i, nvml.ErrorString(ret))
		}

		name, ret := dev.GetName()
		if ret != nvml.SUCCESS {
			return nil, fmt.Errorf("Unable to get name for GPU %d: %s", i, nvml.ErrorString(ret))
		}

		pciInfo, ret := dev.GetPciInfo()
		if ret != nvml.SUCCESS {
			return nil, fmt.Errorf("Unable to get PCI info for GPU %d: %s", i, nvml.ErrorString(ret))
		}

		major, minor, ret := dev.GetCudaComputeCapability()
		if ret != nvml.SUCCESS {
			return nil, fmt.Errorf("Unable to get compute capability for GPU %d: %s", i, nvml.ErrorString(ret))
		}

		var memoryMB uint64
		memory, ret := dev.GetMemoryInfo()
		if ret == nvml.SUCCESS {
			memoryMB = memory.Total >> 20
		}

		devices = append(devices, CUDAInfo{
			Index:      i,
			UUID:       uuid,
			Name:       name,
			PCIAddress: normalizePCIAddress(cString(pciInfo.BusIdLegacy)),
			SMMajor:    major,
			SMMinor:    minor,
			MemoryMB:   memoryMB,
		})
	}
	return devices, nil
}

func cString(raw [16]uint8) string {
	b := make([]byte, 0, len(raw))
	for _, c := range raw {
		if c == 0 {
			break
		}
		b = append(b, c)
	}
	return string(b)
}
