package caps

import (
	"fmt"
	"strings"

	"github.com/jaypipes/ghw"
)

// PCI vendor IDs of the GPU vendors we recognise
const (
	vendorIDNvidia = "10de"
	vendorIDAMD    = "1002"
)

// Compute platforms a GPU can be used through
const (
	PlatformCUDA        = "cuda"
	PlatformOpenCL      = "opencl"
	PlatformUnsupported = "unsupported"
)

// GPUInfo contains the information about an installed GPU
type GPUInfo struct {
	ID         uint32
	VendorID   string
	Vendor     string
	Product    string
	PCIAddress string
	Compute    GPUComputeInfo
}

// GPUComputeInfo contains information about OpenCL and CUDA capabilities
type GPUComputeInfo struct {
	// Platform can either be `cuda`, `opencl` or `unsupported`
	Platform string
	// The compute capability for CUDA devices, if known
	Version string `json:",omitempty"`
}

// String converts GPUComputeInfo into a readable string
func (compute GPUComputeInfo) String() string {
	if compute.Version == "" {
		return compute.Platform
	}
	return compute.Platform + " " + compute.Version
}

// String converts GPUInfo into a readable string
func (gpu GPUInfo) String() string {
	return fmt.Sprintf(
		"GPU #%d, Vendor: %s, Product: %s, PCI: %s, Compute: %s",
		gpu.ID,
		gpu.Vendor,
		gpu.Product,
		gpu.PCIAddress,
		gpu.Compute)
}

// GetGPUInfo returns the installed GPUs in the system. The compute platform
// is derived from the vendor only, EnumerateDevices refines it
func GetGPUInfo() ([]GPUInfo, error) {
	var gpuInfos []GPUInfo

	gpu, err := ghw.GPU()
	if err != nil {
		return gpuInfos, err
	}

	for _, card := range gpu.GraphicsCards {
		vendorID := ""
		vendor := "Unknown"
		product := "Invalid"
		if card.DeviceInfo != nil {
			if card.DeviceInfo.Vendor != nil {
				vendorID = strings.ToLower(card.DeviceInfo.Vendor.ID)
				vendor = card.DeviceInfo.Vendor.Name
			}
			if card.DeviceInfo.Product != nil {
				product = card.DeviceInfo.Product.Name
			}
		}
		gpuInfos = append(gpuInfos, GPUInfo{
			ID:         uint32(card.Index),
			VendorID:   vendorID,
			Vendor:     vendor,
			Product:    product,
			PCIAddress: normalizePCIAddress(card.Address),
			Compute:    GPUComputeInfo{Platform: platformForVendor(vendorID)},
		})
	}
	return gpuInfos, nil
}

func platformForVendor(vendorID string) string {
	switch vendorID {
	case vendorIDNvidia:
		return PlatformCUDA
	case vendorIDAMD:
		return PlatformOpenCL
	}
	return PlatformUnsupported
}

// normalizePCIAddress lower-cases the address and trims the domain to four
// digits so that ghw (0000:01:00.0) and NVML (00000000:01:00.0) agree
func normalizePCIAddress(pci string) string {
	parts := strings.Split(pci, ":")
	if len(parts) != 3 {
		return strings.ToLower(pci)
	}

	domain := parts[0]
	if len(domain) > 4 {
		domain = domain[len(domain)-4:]
	}

	return fmt.Sprintf("%s:%s:%s",
		strings.ToLower(domain),
		strings.ToLower(parts[1]),
		strings.ToLower(parts[2]))
}
