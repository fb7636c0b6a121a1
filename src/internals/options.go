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

// Package internals contains the declarative miner option tables and
// environment variables a plugin exposes to the host, and loads the user's
// persisted overrides for them.
package internals

// OptionType describes how a miner option is rendered on the command line
type OptionType int

const (
	// OptionIsParameter is a flag without a value, e.g. --no-color
	OptionIsParameter OptionType = iota
	// OptionWithSingleParameter takes one value for the whole process
	OptionWithSingleParameter
	// OptionWithMultipleParameters takes one value per device joined by
	// the option's delimiter
	OptionWithMultipleParameters
)

// MinerOption is a single command line option supported by the miner
type MinerOption struct {
	Type         OptionType `json:"type"`
	ID           string     `json:"id"`
	ShortName    string     `json:"short_name,omitempty"`
	LongName     string     `json:"long_name,omitempty"`
	DefaultValue string     `json:"default_value,omitempty"`
	Delimiter    string     `json:"delimiter,omitempty"`
}

// Names returns the non-empty names the option may be given as
func (option MinerOption) Names() []string {
	var names []string
	if option.ShortName != "" {
		names = append(names, option.ShortName)
	}
	if option.LongName != "" {
		names = append(names, option.LongName)
	}
	return names
}

// CommandName is the name used when rendering the option, the short name
// wins when both are set
func (option MinerOption) CommandName() string {
	if option.ShortName != "" {
		return option.ShortName
	}
	return option.LongName
}

// MinerOptionsPackage groups the options a miner supports
type MinerOptionsPackage struct {
	// UseUserSettings must be true for a persisted package to replace
	// the defaults
	UseUserSettings    bool          `json:"use_user_settings"`
	GeneralOptions     []MinerOption `json:"general_options"`
	TemperatureOptions []MinerOption `json:"temperature_options"`
}

// All returns the general options followed by the temperature options
func (pkg MinerOptionsPackage) All() []MinerOption {
	all := make([]MinerOption, 0, len(pkg.GeneralOptions)+len(pkg.TemperatureOptions))
	all = append(all, pkg.GeneralOptions...)
	return append(all, pkg.TemperatureOptions...)
}

// MinerSystemEnvironmentVariables are set on the miner process
type MinerSystemEnvironmentVariables struct {
	UseUserSettings bool `json:"use_user_settings"`
	// DefaultSystemEnvironmentVariables apply to every launch
	DefaultSystemEnvironmentVariables map[string]string `json:"default_system_environment_variables,omitempty"`
	// CustomSystemEnvironmentVariables are keyed by algorithm name and
	// override the defaults for that algorithm
	CustomSystemEnvironmentVariables map[string]map[string]string `json:"custom_system_environment_variables,omitempty"`
}

// Resolve returns the variables for a launch of the given algorithm
func (vars MinerSystemEnvironmentVariables) Resolve(algorithmName string) map[string]string {
	resolved := make(map[string]string, len(vars.DefaultSystemEnvironmentVariables))
	for key, value := range vars.DefaultSystemEnvironmentVariables {
		resolved[key] = value
	}
	for key, value := range vars.CustomSystemEnvironmentVariables[algorithmName] {
		resolved[key] = value
	}
	return resolved
}
