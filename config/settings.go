// Package config resolves the conductor address and cli preferences.
//
// Values come from, in increasing priority: built-in defaults, the settings
// file, the environment, and command line flags. Flags are applied by the
// cli itself; this package handles the rest.
package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/twitter/conduct/common"
)

const (
	HomeEnv = "CONDUCTR_HOME"
	IPEnv   = "CONDUCTR_IP"
	PortEnv = "CONDUCTR_PORT"

	SettingsFile = "settings.toml"

	DefaultIP       = "127.0.0.1"
	DefaultPort     = 9005
	DefaultLogLevel = "error"
)

// Settings for one invocation of the cli.
type Settings struct {
	IP       string `toml:"ip"`
	Port     int    `toml:"port"`
	LongIDs  bool   `toml:"long_ids"`
	LogLevel string `toml:"log_level"`
}

func Defaults() Settings {
	return Settings{IP: DefaultIP, Port: DefaultPort, LogLevel: DefaultLogLevel}
}

// Dir is $CONDUCTR_HOME, or ~/.conductr when unset.
func Dir() string {
	if home := common.FirstEnv(HomeEnv); home != "" {
		return common.ExpandHome(home)
	}
	return common.ExpandHome(filepath.Join("~", ".conductr"))
}

// Path of the settings file.
func Path() string {
	return filepath.Join(Dir(), SettingsFile)
}

// Load returns the defaults overlaid with the settings file at path and then the environment.
// A missing file is skipped.
func Load(path string) (Settings, error) {
	s := Defaults()
	data, err := ioutil.ReadFile(path)
	switch {
	case err == nil:
		if s, err = Parse(data, s); err != nil {
			return s, errors.Wrapf(err, "reading settings %s", path)
		}
	case !os.IsNotExist(err):
		return s, errors.Wrap(err, "reading settings")
	}
	if err := ApplyEnv(&s, os.LookupEnv); err != nil {
		return s, err
	}
	return s, nil
}

// Parse decodes a settings document over base. Keys absent from data keep their base value.
func Parse(data []byte, base Settings) (Settings, error) {
	s := base
	md, err := toml.Decode(string(data), &s)
	if err != nil {
		return base, errors.Wrap(err, "parsing TOML")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return base, errors.Errorf("unknown settings: %s", strings.Join(keys, ", "))
	}
	if err := s.Validate(); err != nil {
		return base, err
	}
	return s, nil
}

// ApplyEnv overrides the address with CONDUCTR_IP and CONDUCTR_PORT when set.
func ApplyEnv(s *Settings, lookup func(string) (string, bool)) error {
	if ip, ok := lookup(IPEnv); ok && ip != "" {
		s.IP = ip
	}
	if port, ok := lookup(PortEnv); ok && port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return errors.Errorf("invalid %s %q", PortEnv, port)
		}
		s.Port = p
	}
	return s.Validate()
}

func (s Settings) Validate() error {
	if s.IP == "" {
		return errors.New("ip must not be empty")
	}
	if s.Port <= 0 || s.Port > 65535 {
		return errors.Errorf("port %d out of range", s.Port)
	}
	return nil
}
