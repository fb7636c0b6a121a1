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

package device

import (
	"fmt"
	"strconv"
	"strings"
)

// DriverVersion is an installed GPU driver version such as 411.31 or
// 535.104.05. The zero value means the version is unknown.
type DriverVersion struct {
	parts []int
}

// NewDriverVersion builds a version from its numeric components
func NewDriverVersion(parts ...int) DriverVersion {
	return DriverVersion{parts: append([]int(nil), parts...)}
}

// ParseDriverVersion parses a dotted driver version string as reported by
// the driver, e.g. "411.31" or "388.13.0.1"
func ParseDriverVersion(raw string) (DriverVersion, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DriverVersion{}, fmt.Errorf("Unable to parse driver version: empty string")
	}
	fields := strings.Split(raw, ".")
	if len(fields) > 4 {
		return DriverVersion{}, fmt.Errorf("Unable to parse driver version %q: too many components", raw)
	}
	parts := make([]int, 0, len(fields))
	for _, field := range fields {
		value, err := strconv.Atoi(field)
		if err != nil || value < 0 {
			return DriverVersion{}, fmt.Errorf("Unable to parse driver version %q: invalid component %q", raw, field)
		}
		parts = append(parts, value)
	}
	return DriverVersion{parts: parts}, nil
}

// IsZero reports whether the version is unknown
func (v DriverVersion) IsZero() bool {
	return len(v.parts) == 0
}

// Major returns the first component
func (v DriverVersion) Major() int {
	return v.component(0)
}

func (v DriverVersion) component(i int) int {
	if i < len(v.parts) {
		return v.parts[i]
	}
	return 0
}

// Compare returns -1, 0 or 1 when v is lower, equal or higher than other.
// Missing components compare as zero, so 411 equals 411.0
func (v DriverVersion) Compare(other DriverVersion) int {
	n := len(v.parts)
	if len(other.parts) > n {
		n = len(other.parts)
	}
	for i := 0; i < n; i++ {
		a, b := v.component(i), other.component(i)
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
	}
	return 0
}

// Less reports whether v is strictly lower than other. An unknown version is
// lower than every known one
func (v DriverVersion) Less(other DriverVersion) bool {
	if v.IsZero() {
		return !other.IsZero()
	}
	return v.Compare(other) < 0
}

// String returns the dotted representation
func (v DriverVersion) String() string {
	if v.IsZero() {
		return "unknown"
	}
	fields := make([]string, len(v.parts))
	for i, part := range v.parts {
		fields[i] = strconv.Itoa(part)
	}
	return strings.Join(fields, ".")
}
