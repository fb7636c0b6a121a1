/*
  MiningHQ z-enemy plugin - exposes the z-enemy CUDA miner to a mining host.
  https://mininghq.io

  Copyright (C) 2018  Donovan Solms     <https://github.com/donovansolms>

  This program is free software: you can redistribute it and/or modify
  it under the terms of the GNU General Public License as published by
  the Free Software Foundation, either version 3 of the License, or
  (at your option) any later version.

  This program is distributed in the hope that it will be useful,
  but WITHOUT ANY WARRANTY; without even the implied warranty of
  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
  GNU General Public License for more details.

  You should have received a copy of the GNU General Public License
  along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Package device models the compute devices a mining host can hand to the
// plugin. Devices are enumerated by the host and only ever read here.
package device

import "fmt"

// Type identifies the class of a device
type Type int

const (
	// TypeCPU is a host processor
	TypeCPU Type = iota
	// TypeCUDA is an NVIDIA GPU usable through CUDA
	TypeCUDA
	// TypeAMD is an AMD GPU usable through OpenCL
	TypeAMD
)

// String returns the lower-case name of the device type
func (t Type) String() string {
	switch t {
	case TypeCPU:
		return "cpu"
	case TypeCUDA:
		return "cuda"
	case TypeAMD:
		return "amd"
	}
	return fmt.Sprintf("unknown(%d)", int(t))
}

// Device is a physical compute unit reported by the host
type Device interface {
	// UUID is a stable identifier for the device
	UUID() string
	// Name is the human readable product name
	Name() string
	// Type is the device class discriminator
	Type() Type
	// CUDA returns the CUDA view of the device. The second return value is
	// false for devices that cannot run CUDA kernels
	CUDA() (CUDAView, bool)
}

// CUDAView exposes the CUDA specific attributes of a device
type CUDAView interface {
	// Index is the CUDA device ordinal passed to the miner
	Index() int
	// ComputeCapability returns the SM major and minor version
	ComputeCapability() (major int, minor int)
}

// CUDADevice is an NVIDIA GPU
type CUDADevice struct {
	ID         string
	Product    string
	Ordinal    int
	PCIAddress string
	SMMajor    int
	SMMinor    int
	MemoryMB   uint64
}

// UUID implements Device
func (dev *CUDADevice) UUID() string { return dev.ID }

// Name implements Device
func (dev *CUDADevice) Name() string { return dev.Product }

// Type implements Device
func (dev *CUDADevice) Type() Type { return TypeCUDA }

// CUDA implements Device
func (dev *CUDADevice) CUDA() (CUDAView, bool) { return dev, true }

// Index implements CUDAView
func (dev *CUDADevice) Index() int { return dev.Ordinal }

// ComputeCapability implements CUDAView
func (dev *CUDADevice) ComputeCapability() (int, int) {
	return dev.SMMajor, dev.SMMinor
}

// String converts CUDADevice into a readable string
func (dev *CUDADevice) String() string {
	return fmt.Sprintf(
		"CUDA #%d %s, SM %d.%d, Memory: %d MB, PCI: %s",
		dev.Ordinal,
		dev.Product,
		dev.SMMajor,
		dev.SMMinor,
		dev.MemoryMB,
		dev.PCIAddress)
}

// AMDDevice is an AMD GPU
type AMDDevice struct {
	ID         string
	Product    string
	PCIAddress string
}

// UUID implements Device
func (dev *AMDDevice) UUID() string { return dev.ID }

// Name implements Device
func (dev *AMDDevice) Name() string { return dev.Product }

// Type implements Device
func (dev *AMDDevice) Type() Type { return TypeAMD }

// CUDA implements Device, AMD GPUs have no CUDA view
func (dev *AMDDevice) CUDA() (CUDAView, bool) { return nil, false }

// String converts AMDDevice into a readable string
func (dev *AMDDevice) String() string {
	return fmt.Sprintf("AMD %s, PCI: %s", dev.Product, dev.PCIAddress)
}

// CPUDevice is a host processor package
type CPUDevice struct {
	ID      string
	Product string
	Threads uint32
}

// UUID implements Device
func (dev *CPUDevice) UUID() string { return dev.ID }

// Name implements Device
func (dev *CPUDevice) Name() string { return dev.Product }

// Type implements Device
func (dev *CPUDevice) Type() Type { return TypeCPU }

// CUDA implements Device, CPUs have no CUDA view
func (dev *CPUDevice) CUDA() (CUDAView, bool) { return nil, false }

// String converts CPUDevice into a readable string
func (dev *CPUDevice) String() string {
	return fmt.Sprintf("CPU %s, Threads: %d", dev.Product, dev.Threads)
}
