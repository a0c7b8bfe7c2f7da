package config

import "time"

// Timeouts & Durations
const (
	// DefaultSSHTimeout is the dial timeout for SSH connections
	DefaultSSHTimeout = 30 * time.Second

	// DefaultRunPollInterval is the delay between CI run status polls
	DefaultRunPollInterval = 10 * time.Second
)

// Poll Counts
const (
	// DefaultRunPollLimit caps the CI poll loop (~5 minutes at 10s interval)
	DefaultRunPollLimit = 30
)

// File Permissions
const (
	// PermDirectory is the file permission for created directories
	PermDirectory = 0755

	// PermConfigFile is the file permission for config and cache files
	PermConfigFile = 0644

	// PermScript is the file permission for generated shell scripts
	PermScript = 0755
)

// Path Constants
const (
	// GlobalConfigDir is the home-relative directory for the global store
	GlobalConfigDir = ".slipway"

	// GlobalConfigFile is the filename of the global store
	GlobalConfigFile = "config.json"

	// CacheFile is the per-project cache filename, colocated with the project
	CacheFile = ".slipway.json"

	// SetupScript is the generated server-initialization script path,
	// relative to the project root
	SetupScript = "scripts/server-setup.sh"
)

// Default Values
const (
	// DefaultSSHPort is the default SSH port
	DefaultSSHPort = "22"

	// DefaultProductionBranch is the default production branch name
	DefaultProductionBranch = "main"

	// DefaultStagingBranch is the default staging branch name
	DefaultStagingBranch = "develop"

	// DefaultDeployDir is the base for suggested remote deploy directories
	DefaultDeployDir = "/srv"
)
