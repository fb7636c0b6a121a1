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
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/mininghq/zenemy-plugin/src/algorithm"
	"github.com/mininghq/zenemy-plugin/src/conf"
	"github.com/mininghq/zenemy-plugin/src/internals"
	"github.com/mininghq/zenemy-plugin/src/launchparams"
	"github.com/sirupsen/logrus"
)

// MiningSetup is a single process assignment: every pair shares the same
// primary algorithm
type MiningSetup struct {
	Pairs    []algorithm.MiningPair
	PoolURL  string
	Username string
	Password string
	APIPort  int
}

// Settings configures a z-enemy miner instance
type Settings struct {
	// PluginRoot is the plugin's directory, the package lives in its bins
	PluginRoot string
	// Version is reported through GetVersion
	Version     string
	Options     internals.MinerOptionsPackage
	Environment internals.MinerSystemEnvironmentVariables
	// Parser renders the pairs' extra launch parameters
	Parser *launchparams.Parser
}

// ZEnemy implements the Miner interface for the z-enemy CUDA miner
type ZEnemy struct {
	// mutex protects the process handle
	mutex        sync.Mutex
	settings     Settings
	setup        MiningSetup
	cmd          *exec.Cmd
	exited       chan struct{}
	stopping     bool
	errorHandler func(string, string)
	log          *logrus.Entry
}

var _ Miner = (*ZEnemy)(nil)

// NewZEnemy creates a z-enemy miner, call InitMiningSetup before Start
func NewZEnemy(settings Settings, log *logrus.Entry) *ZEnemy {
	return &ZEnemy{
		settings: settings,
		log:      log.WithField("miner", "zenemy"),
	}
}

// GetBinAndCwdPaths returns the executable path and the working directory
func (miner *ZEnemy) GetBinAndCwdPaths() (string, string) {
	cwd := filepath.Join(miner.settings.PluginRoot, conf.BinsDir)
	return filepath.Join(cwd, BinaryName), cwd
}

// InitMiningSetup validates and stores the assignment
func (miner *ZEnemy) InitMiningSetup(setup MiningSetup) error {
	if len(setup.Pairs) == 0 {
		return ErrNoPairs
	}
	if setup.PoolURL == "" {
		return errors.New("You must provide a pool URL for z-enemy")
	}
	primary := setup.Pairs[0].Algorithm.FirstAlgorithmType()
	for _, pair := range setup.Pairs {
		if pair.Algorithm.FirstAlgorithmType() != primary {
			return fmt.Errorf("Unable to mix %s and %s in one z-enemy process",
				primary, pair.Algorithm.FirstAlgorithmType())
		}
		if pair.Device == nil {
			return errors.New("Mining pair without a device")
		}
		cuda, ok := pair.Device.CUDA()
		if !ok || cuda.Index() < 0 {
			return fmt.Errorf("Device %s has no CUDA index", pair.Device.UUID())
		}
	}
	if setup.APIPort == 0 {
		setup.APIPort = conf.DefaultAPIPort
	}
	if setup.APIPort < 1 || setup.APIPort > 65535 {
		return fmt.Errorf("API port %d is outside 1-65535", setup.APIPort)
	}

	miner.mutex.Lock()
	defer miner.mutex.Unlock()
	miner.setup = setup
	return nil
}

// CommandLine returns the arguments z-enemy is launched with
func (miner *ZEnemy) CommandLine() []string {
	setup := miner.setup
	args := []string{
		"-a", miner.algorithmName(),
		"-o", setup.PoolURL,
		"-u", setup.Username,
		"-p", setup.Password,
		"-d", miner.deviceList(),
		"-b", "127.0.0.1:" + strconv.Itoa(setup.APIPort),
	}
	if miner.settings.Parser != nil {
		args = append(args, miner.settings.Parser.Parse(setup.Pairs)...)
	}
	return args
}

// Environment returns the miner's variables as sorted KEY=VALUE pairs
func (miner *ZEnemy) Environment() []string {
	resolved := miner.settings.Environment.Resolve(miner.algorithmName())
	env := make([]string, 0, len(resolved))
	for key, value := range resolved {
		env = append(env, key+"="+value)
	}
	sort.Strings(env)
	return env
}

// Start launches z-enemy. The process is killed when ctx is cancelled
func (miner *ZEnemy) Start(ctx context.Context) error {
	miner.mutex.Lock()
	defer miner.mutex.Unlock()

	if len(miner.setup.Pairs) == 0 {
		return ErrNoPairs
	}
	if miner.cmd != nil {
		return ErrAlreadyRunning
	}

	binPath, cwd := miner.GetBinAndCwdPaths()
	args := miner.CommandLine()
	cmd := exec.CommandContext(ctx, binPath, args...)
	cmd.Dir = cwd
	cmd.Env = append(os.Environ(), miner.Environment()...)

	miner.log.WithFields(logrus.Fields{
		"bin":  binPath,
		"args": strings.Join(args, " "),
	}).Info("Starting miner")

	err := cmd.Start()
	if err != nil {
		return fmt.Errorf("Unable to start z-enemy: %w", err)
	}

	miner.cmd = cmd
	miner.stopping = false
	miner.exited = make(chan struct{})
	go miner.wait(cmd, miner.exited)
	return nil
}

// wait reaps the process and reports unexpected exits
func (miner *ZEnemy) wait(cmd *exec.Cmd, exited chan struct{}) {
	err := cmd.Wait()
	close(exited)

	miner.mutex.Lock()
	stopping := miner.stopping
	handler := miner.errorHandler
	key := miner.GetKey()
	if miner.cmd == cmd {
		miner.cmd = nil
	}
	miner.mutex.Unlock()

	if stopping {
		return
	}
	text := "z-enemy exited"
	if err != nil {
		text = fmt.Sprintf("z-enemy exited: %s", err)
	}
	miner.log.Warning(text)
	if handler != nil {
		handler(key, text)
	}
}

// Stop kills the miner process and waits for it to exit
func (miner *ZEnemy) Stop() error {
	miner.mutex.Lock()
	cmd := miner.cmd
	exited := miner.exited
	if cmd == nil {
		miner.mutex.Unlock()
		return ErrNotRunning
	}
	miner.stopping = true
	miner.mutex.Unlock()

	miner.log.Info("Stopping miner")
	err := cmd.Process.Kill()
	if err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("Unable to stop z-enemy: %w", err)
	}
	<-exited
	return nil
}

// IsRunning reports whether the process is alive
func (miner *ZEnemy) IsRunning() bool {
	miner.mutex.Lock()
	defer miner.mutex.Unlock()
	return miner.cmd != nil
}

// GetType returns the miner type
func (miner *ZEnemy) GetType() string {
	return "zenemy"
}

// GetKey returns the algorithm and CUDA devices of the assignment
func (miner *ZEnemy) GetKey() string {
	return miner.algorithmName() + "-" + miner.deviceList()
}

// GetVersion returns the plugin version
func (miner *ZEnemy) GetVersion() string {
	return miner.settings.Version
}

// SetErrorHandler sets the handler unexpected exits are reported to
func (miner *ZEnemy) SetErrorHandler(handler func(string, string)) {
	miner.mutex.Lock()
	defer miner.mutex.Unlock()
	miner.errorHandler = handler
}

func (miner *ZEnemy) algorithmName() string {
	if len(miner.setup.Pairs) == 0 {
		return algorithm.INVALID.String()
	}
	return miner.setup.Pairs[0].Algorithm.FirstAlgorithmType().String()
}

// deviceList returns the comma separated CUDA indices
func (miner *ZEnemy) deviceList() string {
	indices := make([]string, 0, len(miner.setup.Pairs))
	for _, pair := range miner.setup.Pairs {
		if cuda, ok := pair.Device.CUDA(); ok {
			indices = append(indices, strconv.Itoa(cuda.Index()))
		}
	}
	return strings.Join(indices, ",")
}
