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

package main

import (
	"fmt"
	"os"

	"github.com/mininghq/zenemy-plugin/src/conf"
	"github.com/mininghq/zenemy-plugin/src/plugin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app carries what every command needs
type app struct {
	configPath string
	config     conf.Config
	plugin     *plugin.Plugin
	log        *logrus.Entry
}

func main() {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "zenemy-plugin",
		Short:         "Discover, configure and launch the z-enemy CUDA miner",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "zenemy-plugin.toml",
		"path to the TOML configuration file")

	rootCmd.AddCommand(
		a.capsCommand(),
		a.devicesCommand(),
		a.checkCommand(),
		a.initCommand(),
		a.mineCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the configuration, the logger and the plugin
func (a *app) setup() error {
	config, err := conf.Load(a.configPath)
	if err != nil {
		return err
	}
	a.config = config

	// Setup the logging, by default we log to stdout
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "Jan 02 15:04:05",
	})
	logrus.SetLevel(config.Level())
	logrus.SetOutput(os.Stdout)
	a.log = logrus.WithFields(logrus.Fields{
		"service": "zenemy-plugin",
	})

	a.plugin = plugin.New(config.PluginsPath, a.log)
	return nil
}

// loadInternals applies the persisted miner settings, seeding the defaults
// on first use. Only commands that launch or configure the miner call it
func (a *app) loadInternals() {
	a.plugin.InitInternals()
}
