// Package caps provides utilities to check the capabilities of the current
// system important to cryptocurrency mining.
//
// Capabilities that can be checked:
//  1. CPUs - core count, threads and L3 cache
//  2. Memory
//  3. GPUs - Vendor, PCI address and CUDA support
//  4. The installed NVIDIA driver and each CUDA device's compute capability
//
// EnumerateDevices combines them into the device inventory handed to the
// plugin.
package caps
