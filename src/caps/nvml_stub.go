//go:build !(linux && cgo && nvml)

package caps

type nvmlUnavailable struct{}

// NewNVML returns an NVML that always reports ErrNVMLUnavailable. Build with
// the nvml tag on Linux to query the driver
func NewNVML() NVML {
	return nvmlUnavailable{}
}

func (nvmlUnavailable) Init() error                      { return ErrNVMLUnavailable }
func (nvmlUnavailable) Shutdown() error                  { return nil }
func (nvmlUnavailable) DriverVersion() (string, error)   { return "", ErrNVMLUnavailable }
func (nvmlUnavailable) CUDADevices() ([]CUDAInfo, error) { return nil, ErrNVMLUnavailable }
