package caps

import (
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/sirupsen/logrus"
)

// HostInfo contains the information about the platform and OS
type HostInfo struct {
	Name            string
	OS              string
	Platform        string
	PlatformVersion string
	KernelVersion   string
}

// GetHostInfo returns the information about the OS and platform
func GetHostInfo() (HostInfo, error) {
	hostInfo, err := host.Info()
	if err != nil {
		return HostInfo{}, fmt.Errorf("Unable to read host info: %w", err)
	}
	return HostInfo{
		Name:            hostInfo.Hostname,
		OS:              hostInfo.OS,
		Platform:        hostInfo.Platform,
		PlatformVersion: hostInfo.PlatformVersion,
		KernelVersion:   hostInfo.KernelVersion,
	}, nil
}

// MemoryInfo contains the installed and free memory in megabyte
type MemoryInfo struct {
	TotalMB     uint64
	AvailableMB uint64
}

// GetMemoryInfo returns the installed memory in the system
func GetMemoryInfo() (MemoryInfo, error) {
	memory, err := mem.VirtualMemory()
	if err != nil {
		return MemoryInfo{}, fmt.Errorf("Unable to read memory info: %w", err)
	}
	return MemoryInfo{
		TotalMB:     memory.Total >> 20,
		AvailableMB: memory.Available >> 20,
	}, nil
}

// SystemInfo contains all the collected capabilities of the system
type SystemInfo struct {
	Host      HostInfo
	Memory    MemoryInfo
	CPU       []CPUInfo
	Inventory Inventory
}

// String converts SystemInfo into a readable report
func (systemInfo SystemInfo) String() string {
	var report strings.Builder
	fmt.Fprintf(&report, "Host:   %s %s %s (kernel %s)\n",
		systemInfo.Host.Name,
		systemInfo.Host.Platform,
		systemInfo.Host.PlatformVersion,
		systemInfo.Host.KernelVersion)
	fmt.Fprintf(&report, "Memory: %d MB total, %d MB available\n",
		systemInfo.Memory.TotalMB,
		systemInfo.Memory.AvailableMB)
	for _, cpu := range systemInfo.CPU {
		fmt.Fprintf(&report, "  %s\n", cpu)
	}
	fmt.Fprintf(&report, "NVIDIA driver: %s\n", systemInfo.Inventory.DriverVersion)
	for _, gpu := range systemInfo.Inventory.GPUs {
		fmt.Fprintf(&report, "  %s\n", gpu)
	}
	return report.String()
}

// GetSystemInfo gathers information about the host, memory and the device
// inventory
func GetSystemInfo(nvml NVML, log *logrus.Entry) (SystemInfo, error) {
	var systemInfo SystemInfo
	var err error

	systemInfo.Host, err = GetHostInfo()
	if err != nil {
		return systemInfo, err
	}

	systemInfo.Memory, err = GetMemoryInfo()
	if err != nil {
		return systemInfo, err
	}

	systemInfo.Inventory, err = EnumerateDevices(nvml, log)
	if err != nil {
		return systemInfo, err
	}
	systemInfo.CPU = systemInfo.Inventory.CPUs

	return systemInfo, nil
}
