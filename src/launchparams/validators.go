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

package launchparams

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Validator reports whether a launch parameter value is acceptable
type Validator func(value string) error

// DecimalRange accepts decimal numbers within [min, max]. NaN, infinities
// and hexadecimal floats are rejected
func DecimalRange(min float64, max float64) Validator {
	return func(value string) error {
		if strings.ContainsAny(value, "xX") {
			return fmt.Errorf("%q is not a decimal number", value)
		}
		number, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(number) || math.IsInf(number, 0) {
			return fmt.Errorf("%q is not a number", value)
		}
		if number < min || number > max {
			return fmt.Errorf("%v is outside %v-%v", number, min, max)
		}
		return nil
	}
}

// IntegerRange accepts whole numbers within [min, max]
func IntegerRange(min int, max int) Validator {
	return func(value string) error {
		number, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%q is not a whole number", value)
		}
		if number < min || number > max {
			return fmt.Errorf("%d is outside %d-%d", number, min, max)
		}
		return nil
	}
}

// AffinityMask accepts a hexadecimal CPU mask such as 0x3 that selects at
// least one of the first cores CPUs
func AffinityMask(cores int) Validator {
	return func(value string) error {
		digits := strings.TrimPrefix(strings.ToLower(value), "0x")
		mask, err := strconv.ParseUint(digits, 16, 64)
		if err != nil {
			return fmt.Errorf("%q is not a hexadecimal mask", value)
		}
		if mask == 0 {
			return fmt.Errorf("mask selects no CPU")
		}
		if cores > 0 && cores < 64 && mask>>uint(cores) != 0 {
			return fmt.Errorf("mask %s selects CPUs beyond the %d available", value, cores)
		}
		return nil
	}
}
