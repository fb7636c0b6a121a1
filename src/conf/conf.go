// Package conf contains the base configuration values of the plugin and the
// optional host configuration file
package conf

const (
	// UnattendedBaseURL is the base URL for the Unattended update service
	UnattendedBaseURL = "https://unattended.mininghq.io"
	// UpdateChannel is the Unattended channel binaries are fetched from
	UpdateChannel = "stable"
	// BinsDir is the directory under a plugin root holding the miner package
	BinsDir = "bins"
	// DefaultAPIPort is the first port the miner API binds to, each
	// launched process uses the next free offset
	DefaultAPIPort = 4068
	// DefaultPluginsPath is where plugin roots live when not configured
	DefaultPluginsPath = "miner_plugins"
)
