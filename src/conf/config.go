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

package conf

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
)

// Config is the host configuration read from a TOML file
type Config struct {
	// PluginsPath holds one directory per plugin UUID
	PluginsPath string `toml:"pluginsPath"`
	// LogLevel is any level logrus understands
	LogLevel string `toml:"logLevel"`
	// APIPort is the first port handed to launched miners
	APIPort int `toml:"apiPort"`
	// ClientID identifies this rig to the update service
	ClientID string `toml:"clientID"`
	// UpdateEndpoint overrides UnattendedBaseURL
	UpdateEndpoint string `toml:"updateEndpoint"`
	Pool           Pool   `toml:"pool"`
}

// Pool is the stratum pool miners connect to
type Pool struct {
	URL      string `toml:"url"`
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// Default returns the configuration used when no file is present
func Default() Config {
	return Config{
		PluginsPath:    DefaultPluginsPath,
		LogLevel:       logrus.InfoLevel.String(),
		APIPort:        DefaultAPIPort,
		ClientID:       "zenemy-plugin",
		UpdateEndpoint: UnattendedBaseURL,
		Pool: Pool{
			Password: "x",
		},
	}
}

// Load reads the TOML file at path over the defaults. A missing file is
// not an error
func Load(path string) (Config, error) {
	config := Default()
	if path == "" {
		return config, nil
	}

	_, err := toml.DecodeFile(path, &config)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return config, fmt.Errorf("failed to decode TOML file %s: %w", path, err)
	}
	return config, config.Validate()
}

// Validate checks the values that cannot be defaulted
func (config Config) Validate() error {
	if config.PluginsPath == "" {
		return errors.New("pluginsPath must not be empty")
	}
	if config.APIPort < 1 || config.APIPort > 65535 {
		return fmt.Errorf("apiPort must be between 1 and 65535, got %d", config.APIPort)
	}
	if _, err := logrus.ParseLevel(config.LogLevel); err != nil {
		return fmt.Errorf("logLevel: %w", err)
	}
	return nil
}

// Level returns the parsed log level, defaulting to info
func (config Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(config.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
