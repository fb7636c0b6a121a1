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

package internals

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

const (
	// Dir is the sub directory of a plugin root holding persisted settings
	Dir = "internals"
	// OptionsFile holds the persisted MinerOptionsPackage
	OptionsFile = "MinerOptionsPackage.json"
	// EnvironmentFile holds the persisted MinerSystemEnvironmentVariables
	EnvironmentFile = "MinerSystemEnvironmentVariables.json"
)

// Loader reads and seeds the persisted settings under a plugin root
type Loader struct {
	pluginRoot string
	log        *logrus.Entry
}

// NewLoader creates a loader for the given plugin root
func NewLoader(pluginRoot string, log *logrus.Entry) *Loader {
	return &Loader{
		pluginRoot: pluginRoot,
		log:        log,
	}
}

// Path returns the location of a settings file
func (loader *Loader) Path(name string) string {
	return filepath.Join(loader.pluginRoot, Dir, name)
}

// InitMinerOptionsPackage returns the persisted options package when one
// exists and has UseUserSettings set. A missing file is seeded with
// defaults and nil is returned, meaning the defaults stay active
func (loader *Loader) InitMinerOptionsPackage(defaults MinerOptionsPackage) *MinerOptionsPackage {
	var stored MinerOptionsPackage
	if !loader.init(OptionsFile, defaults, &stored) || !stored.UseUserSettings {
		return nil
	}
	return &stored
}

// InitMinerSystemEnvironmentVariables is InitMinerOptionsPackage for the
// environment variables
func (loader *Loader) InitMinerSystemEnvironmentVariables(
	defaults MinerSystemEnvironmentVariables) *MinerSystemEnvironmentVariables {
	var stored MinerSystemEnvironmentVariables
	if !loader.init(EnvironmentFile, defaults, &stored) || !stored.UseUserSettings {
		return nil
	}
	return &stored
}

// init reads name into target. It returns false when nothing usable was read
func (loader *Loader) init(name string, defaults interface{}, target interface{}) bool {
	path := loader.Path(name)
	log := loader.log.WithField("file", path)

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Debug("No persisted settings, writing defaults")
		if err := writeJSON(path, defaults); err != nil {
			log.Warningf("Unable to write default settings: %s", err)
		}
		return false
	}
	if err != nil {
		log.Warningf("Unable to read persisted settings: %s", err)
		return false
	}
	if err := json.Unmarshal(data, target); err != nil {
		log.Warningf("Ignoring malformed persisted settings: %s", err)
		return false
	}
	return true
}

// writeJSON writes value as indented JSON, creating parent directories
func writeJSON(path string, value interface{}) error {
	err := os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		return fmt.Errorf("Unable to create settings directory: %w", err)
	}
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
