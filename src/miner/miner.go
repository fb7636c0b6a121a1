/*
  MiningHQ z-enemy plugin - exposes the z-enemy CUDA miner to a mining host.
  https://mininghq.io

	Copyright (C) 2018  Donovan Solms     <https://github.com/donovansolms>
                                        <https://github.com/mininghq>

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
	"context"
	"errors"
)

var (
	// ErrNotRunning is returned when stopping a miner that was not started
	ErrNotRunning = errors.New("miner is not running")
	// ErrAlreadyRunning is returned when starting a miner twice
	ErrAlreadyRunning = errors.New("miner is already running")
	// ErrNoPairs is returned for a mining setup without device assignments
	ErrNoPairs = errors.New("no mining pairs assigned")
)

// Miner interface defines the required behaviour for all cryptocurrency miners
type Miner interface {
	// Start the miner
	Start(ctx context.Context) error
	// Stop the miner
	Stop() error
	// GetType returns the miner type
	GetType() string
	// GetKey returns the key identifying this miner's assignment
	GetKey() string
	// GetVersion returns the plugin version driving the miner
	GetVersion() string
	// SetErrorHandler sets the handler to send any errors to
	// It takes the miner key and the string containing the error
	SetErrorHandler(func(string, string))
}
