// Package state persists the user-global registry of server profiles and the
// log of past project deployments. The registry is a single JSON file read
// and overwritten wholesale; the Store interface exists so the collector can
// be tested against an in-memory implementation.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"slipway/pkg/config"
)

// ServerProfile is a named, reusable server-connection record.
type ServerProfile struct {
	Host      string `json:"host"`
	User      string `json:"user"`
	KeyPath   string `json:"key_path"`
	DeployDir string `json:"deploy_dir"`
}

// ProjectRecord logs a project's archetype and last deploy time.
type ProjectRecord struct {
	Archetype  config.Archetype `json:"archetype"`
	LastDeploy time.Time        `json:"last_deploy"`
}

// GlobalConfig is the on-disk shape of the user-global store.
type GlobalConfig struct {
	Profiles map[string]ServerProfile `json:"profiles"`
	Projects map[string]ProjectRecord `json:"projects"`
}

// SetProfile adds or overwrites a named profile. Reusing a label silently
// replaces the prior profile for that label.
func (g *GlobalConfig) SetProfile(name string, p ServerProfile) {
	if g.Profiles == nil {
		g.Profiles = make(map[string]ServerProfile)
	}
	g.Profiles[name] = p
}

// RecordProject appends or overwrites the history entry for a project.
func (g *GlobalConfig) RecordProject(name string, rec ProjectRecord) {
	if g.Projects == nil {
		g.Projects = make(map[string]ProjectRecord)
	}
	g.Projects[name] = rec
}

// ProfileNames returns the profile labels in sorted order.
func (g *GlobalConfig) ProfileNames() []string {
	names := make([]string, 0, len(g.Profiles))
	for name := range g.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Store is the repository abstraction over the global config. Reads return a
// fresh copy; writes replace the stored config wholesale.
type Store interface {
	Load() (*GlobalConfig, error)
	Save(*GlobalConfig) error
}

// FileStore persists the global config as a JSON file under the user's home
// directory. There is no locking; the tool runs as a single interactive
// foreground session.
type FileStore struct {
	path string
}

// NewFileStore creates a store at the default global config location.
func NewFileStore() *FileStore {
	return &FileStore{path: GlobalConfigPath()}
}

// NewFileStoreAt creates a store at an explicit path.
func NewFileStoreAt(path string) *FileStore {
	return &FileStore{path: path}
}

// GlobalConfigPath returns the path of the user-global store file.
func GlobalConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(config.GlobalConfigDir, config.GlobalConfigFile)
	}
	return filepath.Join(homeDir, config.GlobalConfigDir, config.GlobalConfigFile)
}

func (s *FileStore) Load() (*GlobalConfig, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return &GlobalConfig{
			Profiles: make(map[string]ServerProfile),
			Projects: make(map[string]ProjectRecord),
		}, nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read global config: %w", err)
	}

	var cfg GlobalConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse global config: %w", err)
	}

	if cfg.Profiles == nil {
		cfg.Profiles = make(map[string]ServerProfile)
	}
	if cfg.Projects == nil {
		cfg.Projects = make(map[string]ProjectRecord)
	}

	return &cfg, nil
}

func (s *FileStore) Save(cfg *GlobalConfig) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, config.PermDirectory); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal global config: %w", err)
	}

	if err := os.WriteFile(s.path, data, config.PermConfigFile); err != nil {
		return fmt.Errorf("failed to write global config: %w", err)
	}

	return nil
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	cfg GlobalConfig
}

func NewMemStore() *MemStore {
	return &MemStore{cfg: GlobalConfig{
		Profiles: make(map[string]ServerProfile),
		Projects: make(map[string]ProjectRecord),
	}}
}

func (s *MemStore) Load() (*GlobalConfig, error) {
	out := GlobalConfig{
		Profiles: make(map[string]ServerProfile, len(s.cfg.Profiles)),
		Projects: make(map[string]ProjectRecord, len(s.cfg.Projects)),
	}
	for k, v := range s.cfg.Profiles {
		out.Profiles[k] = v
	}
	for k, v := range s.cfg.Projects {
		out.Projects[k] = v
	}
	return &out, nil
}

func (s *MemStore) Save(cfg *GlobalConfig) error {
	s.cfg = GlobalConfig{
		Profiles: make(map[string]ServerProfile, len(cfg.Profiles)),
		Projects: make(map[string]ProjectRecord, len(cfg.Projects)),
	}
	for k, v := range cfg.Profiles {
		s.cfg.Profiles[k] = v
	}
	for k, v := range cfg.Projects {
		s.cfg.Projects[k] = v
	}
	return nil
}
