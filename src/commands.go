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
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/mininghq/zenemy-plugin/src/algorithm"
	"github.com/mininghq/zenemy-plugin/src/caps"
	"github.com/mininghq/zenemy-plugin/src/conf"
	"github.com/mininghq/zenemy-plugin/src/device"
	"github.com/mininghq/zenemy-plugin/src/internals"
	"github.com/mininghq/zenemy-plugin/src/miner"
	"github.com/mininghq/zenemy-plugin/src/plugin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func (a *app) capsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "caps",
		Short: "Print the capabilities of this system",
		RunE: func(cmd *cobra.Command, args []string) error {
			systemInfo, err := caps.GetSystemInfo(caps.NewNVML(), a.log)
			if err != nil {
				return err
			}
			fmt.Print(systemInfo)
			return nil
		},
	}
}

func (a *app) devicesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List the devices z-enemy can mine on and their algorithms",
		RunE: func(cmd *cobra.Command, args []string) error {
			inventory, err := caps.EnumerateDevices(caps.NewNVML(), a.log)
			if err != nil {
				return err
			}
			supported := a.plugin.GetSupportedAlgorithms(inventory.Devices, inventory.DriverVersion)
			if len(supported) == 0 {
				fmt.Printf("No compatible GPU found (NVIDIA driver %s, need %s or newer and SM %d.0+)\n",
					inventory.DriverVersion, plugin.MinimumDriverVersion, plugin.MinimumSMMajor)
				return nil
			}
			for _, dev := range inventory.Devices {
				algos, ok := supported[dev]
				if !ok {
					continue
				}
				names := make([]string, len(algos))
				for i, algo := range algos {
					names[i] = algo.String()
				}
				fmt.Printf("%s: %s\n", dev, strings.Join(names, ", "))
			}
			return nil
		},
	}
}

func (a *app) checkCommand() *cobra.Command {
	var download bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report missing miner files",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.loadInternals()
			missing := a.plugin.CheckBinaryPackageMissingFiles()
			if len(missing) > 0 && download {
				err := a.fetchBinaries()
				if err != nil {
					return err
				}
				missing = a.plugin.CheckBinaryPackageMissingFiles()
			}
			if len(missing) == 0 {
				fmt.Println("Miner package complete")
				return nil
			}
			return fmt.Errorf("Missing miner files: %s", strings.Join(missing, ", "))
		},
	}
	cmd.Flags().BoolVar(&download, "download", false, "download the miner package when files are missing")
	return cmd
}

func (a *app) fetchBinaries() error {
	updater, err := miner.NewBinaryUpdater(
		a.config.ClientID,
		a.config.UpdateEndpoint,
		filepath.Join(a.plugin.PluginRoot(), conf.BinsDir),
		a.log,
	)
	if err != nil {
		return fmt.Errorf("Unable to set up updates: %w", err)
	}
	return updater.Fetch()
}

func (a *app) initCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the default miner settings for editing",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.loadInternals()
			dir := filepath.Join(a.plugin.PluginRoot(), internals.Dir)
			fmt.Printf("Settings in %s\n", dir)
			fmt.Printf("Set use_user_settings to true in %s or %s to apply your changes\n",
				internals.OptionsFile, internals.EnvironmentFile)
			return nil
		},
	}
}

func (a *app) mineCommand() *cobra.Command {
	var algoName string
	var deviceIDs []string
	var extraParams string
	cmd := &cobra.Command{
		Use:   "mine",
		Short: "Launch z-enemy on every supported device",
		RunE: func(cmd *cobra.Command, args []string) error {
			algoType, err := algorithm.ParseType(algoName)
			if err != nil {
				return err
			}
			a.loadInternals()
			if a.config.Pool.URL == "" {
				return errors.New("No pool configured, set [pool] url in the configuration file")
			}
			if missing := a.plugin.CheckBinaryPackageMissingFiles(); len(missing) > 0 {
				return fmt.Errorf("Missing miner files: %s, run check --download", strings.Join(missing, ", "))
			}

			inventory, err := caps.EnumerateDevices(caps.NewNVML(), a.log)
			if err != nil {
				return err
			}
			supported := a.plugin.GetSupportedAlgorithms(inventory.Devices, inventory.DriverVersion)
			pairs := selectPairs(inventory.Devices, supported, algoType, deviceIDs, extraParams)
			if len(pairs) == 0 {
				return fmt.Errorf("No device supports %s", algoType)
			}
			return a.mine(pairs)
		},
	}
	cmd.Flags().StringVarP(&algoName, "algo", "a", algorithm.X16R.String(), "algorithm to mine")
	cmd.Flags().StringSliceVarP(&deviceIDs, "devices", "d", nil, "device UUIDs to use, all supported devices when empty")
	cmd.Flags().StringVar(&extraParams, "params", "", "extra launch parameters applied to every device")
	return cmd
}

// selectPairs assigns algoType to the supported devices, in inventory order
func selectPairs(
	devices []device.Device,
	supported map[device.Device][]algorithm.Algorithm,
	algoType algorithm.Type,
	deviceIDs []string,
	extraParams string,
) []algorithm.MiningPair {
	wanted := make(map[string]bool, len(deviceIDs))
	for _, id := range deviceIDs {
		wanted[id] = true
	}

	var pairs []algorithm.MiningPair
	for _, dev := range devices {
		if len(wanted) > 0 && !wanted[dev.UUID()] {
			continue
		}
		for _, algo := range supported[dev] {
			if algo.FirstAlgorithmType() != algoType || !algo.Enabled {
				continue
			}
			algo.ExtraLaunchParameters = extraParams
			pairs = append(pairs, algorithm.MiningPair{Device: dev, Algorithm: algo})
			break
		}
	}
	return pairs
}

// mine starts one miner per group of pairs and stops them on a signal
func (a *app) mine(pairs []algorithm.MiningPair) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var miners []*miner.ZEnemy
	stopAll := func() {
		for _, m := range miners {
			err := m.Stop()
			if err != nil && !errors.Is(err, miner.ErrNotRunning) {
				a.log.WithField("key", m.GetKey()).Errorf("Unable to stop miner: %s", err)
			}
		}
	}

	for i, group := range a.plugin.Batch(pairs) {
		m := a.plugin.CreateMiner()
		err := m.InitMiningSetup(miner.MiningSetup{
			Pairs:    group,
			PoolURL:  a.config.Pool.URL,
			Username: a.config.Pool.Username,
			Password: a.config.Pool.Password,
			APIPort:  a.config.APIPort + i,
		})
		if err != nil {
			stopAll()
			return err
		}
		m.SetErrorHandler(func(key string, text string) {
			a.log.WithField("key", key).Error(text)
		})
		err = m.Start(ctx)
		if err != nil {
			stopAll()
			return err
		}
		miners = append(miners, m)
	}

	keys := make([]string, len(miners))
	for i, m := range miners {
		keys[i] = m.GetKey()
	}
	sort.Strings(keys)
	a.log.WithFields(logrus.Fields{
		"miners": strings.Join(keys, " "),
	}).Info("Mining, press Ctrl+C to stop")

	// Remember, on Linux, syscall.SIGKILL can't be caught
	signalChannel := make(chan os.Signal, 2)
	signal.Notify(signalChannel, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	sig := <-signalChannel
	a.log.WithField("signal", sig.String()).Info("Stopping")
	stopAll()
	return nil
}
