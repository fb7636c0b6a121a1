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

// Package algorithm holds the closed set of mining algorithms and the
// assignments the host makes of algorithms to devices.
package algorithm

import (
	"fmt"
	"strings"

	"github.com/mininghq/zenemy-plugin/src/device"
)

// Type identifies a proof-of-work algorithm
type Type int

// The algorithms z-enemy can run. INVALID is the zero value
const (
	INVALID Type = iota
	X16R
	X16S
	X17
	Skunk
	Bitcore
	Xevan
	Phi2
	Aergo
	Hex
	Tribus
	C11
	Sonoa
	Renesis
	Timetravel
	Polytimos
)

// names are the values z-enemy accepts for --algo
var names = map[Type]string{
	X16R:       "x16r",
	X16S:       "x16s",
	X17:        "x17",
	Skunk:      "skunk",
	Bitcore:    "bitcore",
	Xevan:      "xevan",
	Phi2:       "phi2",
	Aergo:      "aergo",
	Hex:        "hex",
	Tribus:     "tribus",
	C11:        "c11",
	Sonoa:      "sonoa",
	Renesis:    "renesis",
	Timetravel: "timetravel",
	Polytimos:  "polytimos",
}

// String returns the miner's name for the algorithm
func (t Type) String() string {
	if name, ok := names[t]; ok {
		return name
	}
	return "invalid"
}

// ParseType maps a miner algorithm name back to its Type
func ParseType(name string) (Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, n := range names {
		if n == name {
			return t, nil
		}
	}
	return INVALID, fmt.Errorf("Unknown algorithm %q", name)
}

// Algorithm is an algorithm offered by a specific miner plugin. Dual mining
// algorithms carry more than one Type
type Algorithm struct {
	// MinerID is the UUID of the plugin that offers the algorithm
	MinerID string
	// IDs are the algorithm types, the first one is the primary
	IDs []Type
	// Enabled is toggled by the host
	Enabled bool
	// ExtraLaunchParameters are user supplied miner options for this
	// device/algorithm combination, e.g. "-i 21 --cuda-schedule 2"
	ExtraLaunchParameters string
}

// New creates an enabled Algorithm for the given miner
func New(minerID string, ids ...Type) Algorithm {
	return Algorithm{
		MinerID: minerID,
		IDs:     append([]Type(nil), ids...),
		Enabled: true,
	}
}

// FirstAlgorithmType returns the primary algorithm type
func (algo Algorithm) FirstAlgorithmType() Type {
	if len(algo.IDs) == 0 {
		return INVALID
	}
	return algo.IDs[0]
}

// SecondAlgorithmType returns the dual algorithm type, if any
func (algo Algorithm) SecondAlgorithmType() Type {
	if len(algo.IDs) < 2 {
		return INVALID
	}
	return algo.IDs[1]
}

// String converts Algorithm into a readable string
func (algo Algorithm) String() string {
	parts := make([]string, len(algo.IDs))
	for i, id := range algo.IDs {
		parts[i] = id.String()
	}
	return strings.Join(parts, "+")
}

// MiningPair is the host's assignment of one algorithm to one device
type MiningPair struct {
	Device    device.Device
	Algorithm Algorithm
}
