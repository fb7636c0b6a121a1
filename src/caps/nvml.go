package caps

import "errors"

// ErrNVMLUnavailable is returned when the NVIDIA management library cannot
// be used, either because the binary was built without it or because no
// NVIDIA driver is installed
var ErrNVMLUnavailable = errors.New("NVML is unavailable")

// CUDAInfo describes a CUDA device as reported by the NVIDIA driver
type CUDAInfo struct {
	Index      int
	UUID       string
	Name       string
	PCIAddress string
	SMMajor    int
	SMMinor    int
	MemoryMB   uint64
}

// NVML exposes the driver queries needed to build the device inventory
type NVML interface {
	Init() error
	Shutdown() error
	// DriverVersion returns the installed driver version, e.g. "411.31"
	DriverVersion() (string, error)
	// CUDADevices returns the devices in NVML index order
	CUDADevices() ([]CUDAInfo, error)
}
