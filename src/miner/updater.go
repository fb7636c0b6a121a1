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

package miner

import (
	"time"

	unattended "github.com/ProjectLimitless/go-unattended"
	"github.com/mininghq/zenemy-plugin/src/conf"
	"github.com/sirupsen/logrus"
)

// BinaryUpdater downloads the z-enemy package into a plugin's bins
// directory through Unattended
type BinaryUpdater struct {
	updateWrapper *unattended.Unattended
	log           *logrus.Entry
}

// NewBinaryUpdater creates an updater for binsPath. The endpoint defaults to
// conf.UnattendedBaseURL
func NewBinaryUpdater(
	clientID string,
	endpoint string,
	binsPath string,
	log *logrus.Entry) (*BinaryUpdater, error) {
	if endpoint == "" {
		endpoint = conf.UnattendedBaseURL
	}
	log = log.WithFields(logrus.Fields{
		"service": "unattended",
	})

	updateWrapper, err := unattended.New(
		clientID,
		unattended.Target{
			VersionsPath:          binsPath,
			AppID:                 "z-enemy",
			UpdateEndpoint:        endpoint,
			UpdateChannel:         conf.UpdateChannel,
			ApplicationName:       BinaryName,
			ApplicationParameters: []string{},
		},
		time.Hour, // UpdateCheckInterval
		log,
	)
	if err != nil {
		return nil, err
	}
	return &BinaryUpdater{
		updateWrapper: updateWrapper,
		log:           log,
	}, nil
}

// Fetch downloads the latest package if it is missing or outdated
func (updater *BinaryUpdater) Fetch() error {
	updater.log.Info("Fetching miner package")
	_, err := updater.updateWrapper.ApplyUpdates()
	return err
}
