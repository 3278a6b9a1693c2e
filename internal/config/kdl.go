package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	kdl "github.com/sblinch/kdl-go"
)

// KDL configuration file names.
const (
	GlobalConfigFile  = "config.kdl"
	ProjectConfigFile = ".designcheck.kdl"
)

// Load resolves the configuration for dir. An explicit path wins; otherwise
// the nearest .designcheck.kdl in dir or its parents is used, then the
// global file, then built-in defaults.
func Load(explicit, dir string) (*Config, error) {
	if explicit != "" {
		return LoadFile(explicit)
	}
	if path := FindProjectConfig(dir); path != "" {
		return LoadFile(path)
	}
	if path := GlobalConfigPath(); path != "" {
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	log.Debug().Str("dir", dir).Msg("no config file found, using defaults")
	return Default(), nil
}

// FindProjectConfig searches for .designcheck.kdl starting at dir and
// walking up to the filesystem root.
func FindProjectConfig(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		path := filepath.Join(abs, ProjectConfigFile)
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return ""
		}
		abs = parent
	}
}

// GlobalConfigPath returns $XDG_CONFIG_HOME/designcheck/config.kdl, falling
// back to ~/.config.
func GlobalConfigPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "designcheck", GlobalConfigFile)
}

// LoadFile loads and validates one configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.source = path
	log.Debug().Str("path", path).Msg("loaded config")
	return cfg, nil
}

// Parse decodes KDL on top of the defaults, so a file only needs the nodes
// it changes.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := kdl.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// DefaultKDL is the documented default configuration written by
// WriteDefaultConfig.
const DefaultKDL = `// designcheck configuration
// Every node is optional; omitted values keep these defaults.

// Deviations that still count as matching a design token.
tolerances {
    // Delta-E distance between colors
    color 5
    // cie76 or ciede2000
    color-metric "cie76"
    font-size 2
    font-weight 0
    line-height 2
    spacing 4
    border-radius 2
}

// Deviation at which a mismatch becomes major or critical.
severity {
    color { major 10; critical 25; }
    typography { major 4; critical 8; }
    spacing { major 8; critical 16; }
    layout { major 8; critical 24; }
    border { major 4; critical 8; }
    alignment { major 4; critical 12; }
    size { major 8; critical 24; }
}

pixel-diff {
    // 0 is exact, 1 is lenient
    threshold 0.1
    // count anti-aliased pixels as differences
    include-aa false
    // opacity of unchanged pixels in the diff image
    alpha 0.1
    diff-color "#ff0000"
    aa-color "#ffff00"
    // regions with fewer pixels are dropped
    min-region-pixels 10
    // regions closer than this on both axes are merged
    merge-distance 20
    max-fill-stack 100000
}

// Pass criteria for combined audits.
audit {
    min-score 80
    min-match 95
}

snapshot {
    // storage root, defaults to ~/.designcheck
    dir ""
    min-match 99.5
}
`

// WriteDefaultConfig writes DefaultKDL to path, refusing to overwrite an
// existing file unless force is set.
func WriteDefaultConfig(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("stat config: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(DefaultKDL), 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
