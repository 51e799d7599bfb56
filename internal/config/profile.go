package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// profileFileName is the default session profile file in the home directory.
const profileFileName = ".terrasim.yaml"

// Profile holds the user preferences persisted between sessions. It stores
// only input defaults — workflow state is never persisted.
type Profile struct {
	Endpoint  string `yaml:"endpoint,omitempty"`
	Crop      string `yaml:"crop,omitempty"`
	Terrain   string `yaml:"terrain,omitempty"`
	LocateCmd string `yaml:"locateCmd,omitempty"`
}

// DefaultProfilePath returns the default profile location, or "" when the
// home directory cannot be determined.
func DefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, profileFileName)
}

// LoadProfile reads a session profile from the given path. A missing file is
// not an error: it yields an empty profile, matching a fresh session.
func LoadProfile(path string) (Profile, error) {
	var p Profile
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Profile{}, nil
		}
		return Profile{}, err
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// SaveProfile writes the session profile to the given path.
func SaveProfile(path string, p Profile) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// applyProfileDefaults fills unset configuration fields from the session
// profile. Profile values rank below flags and environment variables; a
// profile that fails to load is ignored rather than blocking startup.
func applyProfileDefaults(cfg *AppConfig) {
	path := cfg.ProfilePath
	if path == "" {
		path = DefaultProfilePath()
	}
	if path == "" {
		return
	}

	p, err := LoadProfile(path)
	if err != nil {
		return
	}

	if cfg.Endpoint == "" {
		cfg.Endpoint = p.Endpoint
	}
	if cfg.Crop == "" {
		cfg.Crop = p.Crop
	}
	if cfg.Terrain == "" {
		cfg.Terrain = p.Terrain
	}
	if cfg.LocateCmd == "" {
		cfg.LocateCmd = p.LocateCmd
	}
}
