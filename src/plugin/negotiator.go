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

package plugin

import (
	"github.com/mininghq/zenemy-plugin/src/algorithm"
	"github.com/mininghq/zenemy-plugin/src/device"
)

// MinimumSMMajor is the lowest CUDA compute capability z-enemy runs on
const MinimumSMMajor = 6

// MinimumDriverVersion is the oldest NVIDIA driver z-enemy supports
var MinimumDriverVersion = device.NewDriverVersion(411, 0)

// GetSupportedAlgorithms returns the algorithms each eligible device can
// run. installedDriver is read once by the host before any call. Ineligible
// devices are left out, an old driver yields an empty map
func (plugin *Plugin) GetSupportedAlgorithms(
	devices []device.Device,
	installedDriver device.DriverVersion,
) map[device.Device][]algorithm.Algorithm {
	supported := make(map[device.Device][]algorithm.Algorithm)
	if installedDriver.Less(MinimumDriverVersion) {
		return supported
	}

	for _, dev := range devices {
		if dev == nil {
			continue
		}
		cuda, ok := dev.CUDA()
		if !ok {
			continue
		}
		if major, _ := cuda.ComputeCapability(); major < MinimumSMMajor {
			continue
		}
		algos := plugin.supportedAlgorithms(cuda)
		if len(algos) > 0 {
			supported[dev] = algos
		}
	}
	return supported
}

// supportedAlgorithms returns the algorithms in order of preference. Every
// eligible device currently gets the same list
func (plugin *Plugin) supportedAlgorithms(_ device.CUDAView) []algorithm.Algorithm {
	minerID := PluginUUID.String()
	return []algorithm.Algorithm{
		algorithm.New(minerID, algorithm.X16R),
		algorithm.New(minerID, algorithm.Skunk),
	}
}

// CanGroup reports whether two pairs may run in the same z-enemy process
func (plugin *Plugin) CanGroup(a algorithm.MiningPair, b algorithm.MiningPair) bool {
	return a.Algorithm.FirstAlgorithmType() == b.Algorithm.FirstAlgorithmType()
}

// Batch splits pairs into groups that can each be launched as one process.
// Groups and the pairs within them keep their first-seen order
func (plugin *Plugin) Batch(pairs []algorithm.MiningPair) [][]algorithm.MiningPair {
	var groups [][]algorithm.MiningPair
	for _, pair := range pairs {
		placed := false
		for i, group := range groups {
			if plugin.CanGroup(group[0], pair) {
				groups[i] = append(group, pair)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, []algorithm.MiningPair{pair})
		}
	}
	return groups
}
