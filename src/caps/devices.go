package caps

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/mininghq/zenemy-plugin/src/device"
	"github.com/sirupsen/logrus"
)

// Inventory is the device set and driver state handed to the plugin. It is
// read once at startup and treated as immutable afterwards
type Inventory struct {
	Devices       []device.Device
	DriverVersion device.DriverVersion
	GPUs          []GPUInfo
	CPUs          []CPUInfo
}

// EnumerateDevices probes GPUs, CPUs and the NVIDIA driver. Probes that fail
// are logged and skipped, the inventory then simply contains fewer devices
func EnumerateDevices(nvml NVML, log *logrus.Entry) (Inventory, error) {
	gpus, err := GetGPUInfo()
	if err != nil {
		log.Warningf("Unable to enumerate GPUs: %s", err)
	}

	cpus, err := GetCPUInfo()
	if err != nil {
		log.Warningf("Unable to enumerate CPUs: %s", err)
	}

	driver, cudaDevices, err := readNVML(nvml)
	if errors.Is(err, ErrNVMLUnavailable) {
		log.Info("NVML unavailable, CUDA devices will not be reported")
	} else if err != nil {
		return Inventory{}, err
	}

	return buildInventory(gpus, cudaDevices, cpus, driver, log), nil
}

// readNVML reads the driver version and CUDA devices in one NVML session
func readNVML(nvml NVML) (string, []CUDAInfo, error) {
	err := nvml.Init()
	if err != nil {
		return "", nil, err
	}
	defer nvml.Shutdown()

	driver, err := nvml.DriverVersion()
	if err != nil {
		return "", nil, err
	}
	cudaDevices, err := nvml.CUDADevices()
	if err != nil {
		return "", nil, err
	}
	return driver, cudaDevices, nil
}

// buildInventory merges the ghw view of the GPUs with the NVML view. NVML is
// authoritative for CUDA devices, NVIDIA cards NVML did not report are kept
// with an unknown compute capability
func buildInventory(
	gpus []GPUInfo,
	cudaDevices []CUDAInfo,
	cpus []CPUInfo,
	driver string,
	log *logrus.Entry,
) Inventory {
	inventory := Inventory{CPUs: cpus}

	if driver != "" {
		version, err := device.ParseDriverVersion(driver)
		if err != nil {
			log.Warningf("Ignoring driver version: %s", err)
		}
		inventory.DriverVersion = version
	}

	byPCI := make(map[string]CUDAInfo, len(cudaDevices))
	for _, cuda := range cudaDevices {
		byPCI[cuda.PCIAddress] = cuda
		inventory.Devices = append(inventory.Devices, &device.CUDADevice{
			ID:         cuda.UUID,
			Product:    cuda.Name,
			Ordinal:    cuda.Index,
			PCIAddress: cuda.PCIAddress,
			SMMajor:    cuda.SMMajor,
			SMMinor:    cuda.SMMinor,
			MemoryMB:   cuda.MemoryMB,
		})
	}

	for _, gpu := range gpus {
		if cuda, ok := byPCI[gpu.PCIAddress]; ok {
			gpu.Compute = GPUComputeInfo{
				Platform: PlatformCUDA,
				Version:  fmt.Sprintf("%d.%d", cuda.SMMajor, cuda.SMMinor),
			}
			inventory.GPUs = append(inventory.GPUs, gpu)
			continue
		}
		inventory.GPUs = append(inventory.GPUs, gpu)

		switch gpu.Compute.Platform {
		case PlatformCUDA:
			log.WithField("pci", gpu.PCIAddress).Debug("NVIDIA GPU not reported by NVML")
			inventory.Devices = append(inventory.Devices, &device.CUDADevice{
				ID:         "PCI-" + gpu.PCIAddress,
				Product:    gpu.Product,
				Ordinal:    -1,
				PCIAddress: gpu.PCIAddress,
			})
		case PlatformOpenCL:
			inventory.Devices = append(inventory.Devices, &device.AMDDevice{
				ID:         "PCI-" + gpu.PCIAddress,
				Product:    gpu.Product,
				PCIAddress: gpu.PCIAddress,
			})
		}
	}

	for _, cpu := range cpus {
		inventory.Devices = append(inventory.Devices, &device.CPUDevice{
			ID:      "CPU-" + strconv.FormatUint(uint64(cpu.ID), 10),
			Product: cpu.Product,
			Threads: cpu.Threads,
		})
	}

	return inventory
}
