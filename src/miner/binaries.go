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
	"os"
	"path/filepath"
)

// ReturnMissingFiles returns the files that do not exist in dir. An empty
// result means the package is complete
func ReturnMissingFiles(dir string, files []string) []string {
	missing := []string{}
	for _, file := range files {
		info, err := os.Stat(filepath.Join(dir, file))
		if err != nil || info.IsDir() {
			missing = append(missing, file)
		}
	}
	return missing
}
