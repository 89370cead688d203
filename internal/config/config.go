package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dsmmcken/devport/internal/discovery"
	"github.com/dsmmcken/devport/internal/platform"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the ~/.devport/config.toml file.
type Config struct {
	Runtimes           []string `toml:"runtimes" json:"runtimes"`
	MinPort            int      `toml:"min_port" json:"min_port"`
	PriorityPorts      []int    `toml:"priority_ports" json:"priority_ports"`
	ResolveConcurrency int      `toml:"resolve_concurrency" json:"resolve_concurrency"`
	// Host replaces the detected LAN address in generated URLs.
	Host   string `toml:"host,omitempty" json:"host"`
	Scheme string `toml:"scheme" json:"scheme"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Runtimes:           append([]string(nil), discovery.DefaultRuntimes...),
		MinPort:            discovery.DefaultMinPort,
		PriorityPorts:      append([]int(nil), discovery.DefaultPriorityPorts...),
		ResolveConcurrency: discovery.DefaultConcurrency,
		Scheme:             "http",
	}
}

// configDirOverride is set by the --config-dir flag.
var configDirOverride string

// SetConfigDir allows the CLI to pass in the --config-dir value.
func SetConfigDir(dir string) {
	configDirOverride = dir
}

// Home returns the config directory path.
// Precedence: --config-dir flag / SetConfigDir > DEVPORT_HOME env > ~/.devport
func Home() string {
	if configDirOverride != "" {
		return configDirOverride
	}
	if v := os.Getenv("DEVPORT_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".devport")
	}
	return filepath.Join(home, ".devport")
}

// ConfigPath returns the full path to config.toml.
func ConfigPath() string {
	return filepath.Join(Home(), "config.toml")
}

// EnsureDir creates the devport home directory if it does not exist.
func EnsureDir() error {
	return os.MkdirAll(Home(), 0o755)
}

// Load reads config.toml on top of the defaults. A missing file yields the
// defaults unchanged.
func Load() (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}
	if cfg.Runtimes == nil {
		cfg.Runtimes = []string{}
	}
	return cfg, nil
}

// Save writes the Config struct back to config.toml.
func Save(cfg *Config) error {
	if err := EnsureDir(); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(ConfigPath(), data, 0o644)
}

// Discovery converts the configuration into discovery options for p.
func (c *Config) Discovery(p platform.Platform) discovery.Options {
	opts := discovery.DefaultOptions(p)
	// An empty, non-nil list disables the process-name filter.
	if c.Runtimes != nil {
		opts.Runtimes = append([]string{}, c.Runtimes...)
	}
	if c.MinPort >= 0 {
		opts.MinPort = c.MinPort
	}
	if c.PriorityPorts != nil {
		opts.PriorityPorts = append([]int(nil), c.PriorityPorts...)
	}
	if c.ResolveConcurrency > 0 {
		opts.Concurrency = c.ResolveConcurrency
	}
	return opts
}

// validKeys lists the keys that can be used with Get/Set.
var validKeys = map[string]bool{
	"runtimes":            true,
	"min_port":            true,
	"priority_ports":      true,
	"resolve_concurrency": true,
	"host":                true,
	"scheme":              true,
}

// Keys returns the settable keys in sorted order.
func Keys() []string {
	return []string{"host", "min_port", "priority_ports", "resolve_concurrency", "runtimes", "scheme"}
}

// Get retrieves a single config value by key.
func Get(key string) (string, error) {
	if !validKeys[key] {
		return "", fmt.Errorf("unknown config key: %s", key)
	}
	cfg, err := Load()
	if err != nil {
		return "", err
	}
	return getField(cfg, key)
}

// Set sets a single config value by key.
func Set(key, value string) error {
	if !validKeys[key] {
		return fmt.Errorf("unknown config key: %s", key)
	}
	cfg, err := Load()
	if err != nil {
		return err
	}
	if err := setField(cfg, key, value); err != nil {
		return err
	}
	return Save(cfg)
}

func getField(cfg *Config, key string) (string, error) {
	switch key {
	case "runtimes":
		return strings.Join(cfg.Runtimes, ","), nil
	case "min_port":
		return strconv.Itoa(cfg.MinPort), nil
	case "priority_ports":
		return joinInts(cfg.PriorityPorts), nil
	case "resolve_concurrency":
		return strconv.Itoa(cfg.ResolveConcurrency), nil
	case "host":
		return cfg.Host, nil
	case "scheme":
		return cfg.Scheme, nil
	default:
		return "", fmt.Errorf("unknown config key: %s", key)
	}
}

func setField(cfg *Config, key, value string) error {
	switch key {
	case "runtimes":
		cfg.Runtimes = append([]string{}, splitList(value)...)
	case "min_port":
		n, err := parseInt(key, value, 0, discovery.MaxValidPort)
		if err != nil {
			return err
		}
		cfg.MinPort = n
	case "priority_ports":
		var ports []int
		for _, s := range splitList(value) {
			n, err := discovery.ParsePort(s)
			if err != nil {
				return fmt.Errorf("invalid value for priority_ports: %q", s)
			}
			ports = append(ports, n)
		}
		cfg.PriorityPorts = ports
	case "resolve_concurrency":
		n, err := parseInt(key, value, 1, 64)
		if err != nil {
			return err
		}
		cfg.ResolveConcurrency = n
	case "host":
		cfg.Host = value
	case "scheme":
		if value != "http" && value != "https" {
			return fmt.Errorf("invalid value for scheme: %q (want http or https)", value)
		}
		cfg.Scheme = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

func parseInt(key, value string, lo, hi int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < lo || n > hi {
		return 0, fmt.Errorf("invalid value for %s: %q (want %d-%d)", key, value, lo, hi)
	}
	return n, nil
}

func splitList(value string) []string {
	var out []string
	for _, s := range strings.Split(value, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func joinInts(vals []int) string {
	s := make([]string, len(vals))
	for i, v := range vals {
		s[i] = strconv.Itoa(v)
	}
	return strings.Join(s, ",")
}
