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

// Package plugin exposes the z-enemy miner to a mining host: which devices
// it supports, which options it accepts and how to create a miner.
package plugin

import (
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/mininghq/zenemy-plugin/src/caps"
	"github.com/mininghq/zenemy-plugin/src/internals"
	"github.com/mininghq/zenemy-plugin/src/launchparams"
	"github.com/mininghq/zenemy-plugin/src/miner"
	"github.com/sirupsen/logrus"
)

const (
	// Name of the plugin
	Name = "ZEnemy"
	// Version of the plugin
	Version = "1.1"
	// Author of the plugin
	Author = "MiningHQ"
)

// PluginUUID identifies the plugin and names its directory
var PluginUUID = uuid.MustParse("881c5230-4bfc-11e9-a481-e144ccd86993")

// Option IDs of the z-enemy option table
const (
	OptionIntensity         = "zenemy_intensity"
	OptionCUDASchedule      = "zenemy_cudaSchedule"
	OptionPriority          = "zenemy_priority"
	OptionAffinity          = "zenemy_affinity"
	OptionMaxTemperature    = "zenemy_maxTemperature"
	OptionResumeTemperature = "zenemy_resumeTemperature"
)

// DefaultMinerOptionsPackage returns the options z-enemy accepts
func DefaultMinerOptionsPackage() internals.MinerOptionsPackage {
	return internals.MinerOptionsPackage{
		GeneralOptions: []internals.MinerOption{
			// GPU intensity 8.0-31.0, decimals allowed
			{
				Type:         internals.OptionWithMultipleParameters,
				ID:           OptionIntensity,
				ShortName:    "-i",
				LongName:     "--intensity=",
				DefaultValue: "19",
				Delimiter:    ",",
			},
			// 0: BlockingSync, 1: Spin, 2: Yield
			{
				Type:         internals.OptionWithSingleParameter,
				ID:           OptionCUDASchedule,
				LongName:     "--cuda-schedule",
				DefaultValue: "0",
			},
			// 0 idle, 2 normal to 5 highest
			{
				Type:         internals.OptionWithSingleParameter,
				ID:           OptionPriority,
				ShortName:    "--cpu-priority",
				DefaultValue: "3",
			},
			// mask 0x3 for cores 0 and 1
			{
				Type:      internals.OptionWithSingleParameter,
				ID:        OptionAffinity,
				ShortName: "--cpu-affinity",
			},
		},
		TemperatureOptions: []internals.MinerOption{
			// only mine while the GPU is cooler than this
			{
				Type:      internals.OptionWithSingleParameter,
				ID:        OptionMaxTemperature,
				ShortName: "--max-temp=",
			},
			// start again after a --max-temp pause
			{
				Type:      internals.OptionWithSingleParameter,
				ID:        OptionResumeTemperature,
				ShortName: "--resume-temp=",
			},
		},
	}
}

// DefaultMinerSystemEnvironmentVariables returns the variables set on every
// launch. PCI bus ordering keeps CUDA indices in line with NVML's
func DefaultMinerSystemEnvironmentVariables() internals.MinerSystemEnvironmentVariables {
	return internals.MinerSystemEnvironmentVariables{
		DefaultSystemEnvironmentVariables: map[string]string{
			"CUDA_DEVICE_ORDER": "PCI_BUS_ID",
		},
	}
}

// Plugin is the z-enemy plugin
type Plugin struct {
	// mutex protects the option tables replaced by InitInternals
	mutex       sync.RWMutex
	pluginRoot  string
	options     internals.MinerOptionsPackage
	environment internals.MinerSystemEnvironmentVariables
	// cpuCount returns the logical CPUs for affinity validation
	cpuCount func() (int, error)
	log      *logrus.Entry
}

// New creates the plugin rooted at <pluginsPath>/<PluginUUID>
func New(pluginsPath string, log *logrus.Entry) *Plugin {
	return &Plugin{
		pluginRoot:  filepath.Join(pluginsPath, PluginUUID.String()),
		options:     DefaultMinerOptionsPackage(),
		environment: DefaultMinerSystemEnvironmentVariables(),
		cpuCount:    caps.LogicalCPUCount,
		log:         log.WithField("plugin", Name),
	}
}

// PluginRoot returns the plugin's directory
func (plugin *Plugin) PluginRoot() string {
	return plugin.pluginRoot
}

// InitInternals applies the user's persisted options and environment
// variables. Absent or disabled settings leave the defaults active
func (plugin *Plugin) InitInternals() {
	loader := internals.NewLoader(plugin.pluginRoot, plugin.log)

	plugin.mutex.Lock()
	defer plugin.mutex.Unlock()

	if options := loader.InitMinerOptionsPackage(plugin.options); options != nil {
		plugin.log.Info("Using persisted miner options")
		plugin.options = *options
	}
	if environment := loader.InitMinerSystemEnvironmentVariables(plugin.environment); environment != nil {
		plugin.log.Info("Using persisted environment variables")
		plugin.environment = *environment
	}
}

// MinerOptionsPackage returns the active options
func (plugin *Plugin) MinerOptionsPackage() internals.MinerOptionsPackage {
	plugin.mutex.RLock()
	defer plugin.mutex.RUnlock()
	return plugin.options
}

// MinerSystemEnvironmentVariables returns the active environment variables
func (plugin *Plugin) MinerSystemEnvironmentVariables() internals.MinerSystemEnvironmentVariables {
	plugin.mutex.RLock()
	defer plugin.mutex.RUnlock()
	return plugin.environment
}

// CreateMiner returns a miner carrying the active options
func (plugin *Plugin) CreateMiner() *miner.ZEnemy {
	options := plugin.MinerOptionsPackage()
	parser := launchparams.NewParser(
		options.All(),
		plugin.validators(),
		[]launchparams.Ordering{{Lower: OptionResumeTemperature, Upper: OptionMaxTemperature}},
		plugin.log,
	)
	return miner.NewZEnemy(miner.Settings{
		PluginRoot:  plugin.pluginRoot,
		Version:     Version,
		Options:     options,
		Environment: plugin.MinerSystemEnvironmentVariables(),
		Parser:      parser,
	}, plugin.log)
}

func (plugin *Plugin) validators() map[string]launchparams.Validator {
	cores, err := plugin.cpuCount()
	if err != nil {
		plugin.log.Warningf("Unable to count CPUs, affinity masks are not bounded: %s", err)
		cores = 0
	}
	return map[string]launchparams.Validator{
		OptionIntensity:         launchparams.DecimalRange(8, 31),
		OptionCUDASchedule:      launchparams.IntegerRange(0, 2),
		OptionPriority:          launchparams.IntegerRange(0, 5),
		OptionAffinity:          launchparams.AffinityMask(cores),
		OptionMaxTemperature:    launchparams.IntegerRange(1, 127),
		OptionResumeTemperature: launchparams.IntegerRange(1, 127),
	}
}

// CheckBinaryPackageMissingFiles returns the required files missing from
// the miner's bins directory
func (plugin *Plugin) CheckBinaryPackageMissingFiles() []string {
	_, binsPath := plugin.CreateMiner().GetBinAndCwdPaths()
	return miner.ReturnMissingFiles(binsPath, miner.RequiredFiles)
}
