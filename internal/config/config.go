package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/msalah0e/pathviz/internal/api"
	"github.com/msalah0e/pathviz/internal/layout"
)

// Environment overrides applied after the config files are read.
const (
	EnvServer   = "PATHVIZ_SERVER"
	EnvLogLevel = "PATHVIZ_LOG_LEVEL"
)

// ProjectFile is looked up from the working directory upwards and overlays the
// user config.
const ProjectFile = ".pathviz.toml"

// Config holds pathviz configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Layout LayoutConfig `toml:"layout"`
	Log    LogConfig    `toml:"log"`
	UI     UIConfig     `toml:"ui"`
	Batch  BatchConfig  `toml:"batch"`
}

// ServerConfig locates the route optimizer service.
type ServerConfig struct {
	URL     string   `toml:"url"`
	Timeout Duration `toml:"timeout"`
}

// LayoutConfig tunes the force simulation.
type LayoutConfig struct {
	Width         float64  `toml:"width"`
	Height        float64  `toml:"height"`
	Charge        float64  `toml:"charge"`
	LinkDistance  float64  `toml:"link_distance"`
	CollideRadius float64  `toml:"collide_radius"`
	VelocityDecay float64  `toml:"velocity_decay"`
	AlphaMin      float64  `toml:"alpha_min"`
	TickInterval  Duration `toml:"tick_interval"`
	Seed          int64    `toml:"seed"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "text" or "json"
	Caller bool   `toml:"caller"`
}

// UIConfig controls display options.
type UIConfig struct {
	Color bool `toml:"color"`
}

// BatchConfig controls concurrent plan submission.
type BatchConfig struct {
	Concurrency int `toml:"concurrency"`
}

// Duration is a time.Duration written as a string such as "30s".
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns the default configuration.
func Default() *Config {
	p := layout.DefaultParams()
	return &Config{
		Server: ServerConfig{
			URL:     api.DefaultBaseURL,
			Timeout: Duration{30 * time.Second},
		},
		Layout: LayoutConfig{
			Width:         p.Width,
			Height:        p.Height,
			Charge:        p.Charge,
			LinkDistance:  p.LinkDistance,
			CollideRadius: p.CollideRadius,
			VelocityDecay: p.VelocityDecay,
			AlphaMin:      p.AlphaMin,
			TickInterval:  Duration{16 * time.Millisecond},
			Seed:          p.Seed,
		},
		Log:   LogConfig{Level: "warn", Format: "text"},
		UI:    UIConfig{Color: true},
		Batch: BatchConfig{Concurrency: 4},
	}
}

// Params converts the layout section into simulation parameters.
func (c LayoutConfig) Params() layout.Params {
	p := layout.DefaultParams()
	p.Width = c.Width
	p.Height = c.Height
	p.Charge = c.Charge
	p.LinkDistance = c.LinkDistance
	p.CollideRadius = c.CollideRadius
	p.VelocityDecay = c.VelocityDecay
	p.AlphaMin = c.AlphaMin
	p.Seed = c.Seed
	return p
}

// Validate rejects values the client cannot work with.
func (c *Config) Validate() error {
	var errs []error
	if !strings.HasPrefix(c.Server.URL, "http://") && !strings.HasPrefix(c.Server.URL, "https://") {
		errs = append(errs, fmt.Errorf("server.url %q must be an http(s) URL", c.Server.URL))
	}
	if c.Server.Timeout.Duration <= 0 {
		errs = append(errs, errors.New("server.timeout must be positive"))
	}
	if c.Layout.Width <= 0 || c.Layout.Height <= 0 {
		errs = append(errs, errors.New("layout.width and layout.height must be positive"))
	}
	if c.Layout.VelocityDecay <= 0 || c.Layout.VelocityDecay >= 1 {
		errs = append(errs, errors.New("layout.velocity_decay must be between 0 and 1"))
	}
	if c.Layout.AlphaMin <= 0 || c.Layout.AlphaMin >= 1 {
		errs = append(errs, errors.New("layout.alpha_min must be between 0 and 1"))
	}
	if c.Layout.TickInterval.Duration <= 0 {
		errs = append(errs, errors.New("layout.tick_interval must be positive"))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be text or json", c.Log.Format))
	}
	if c.Batch.Concurrency < 1 {
		errs = append(errs, errors.New("batch.concurrency must be at least 1"))
	}
	return errors.Join(errs...)
}

// ConfigDir returns the pathviz config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "pathviz")
}

// Path returns the user config file path.
func Path() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the user config, overlays the nearest project file and applies
// environment overrides. Missing files are not an error.
func Load() (*Config, error) {
	cfg := Default()
	if err := decodeFile(Path(), cfg); err != nil {
		return nil, err
	}
	if project := findProjectConfig(); project != "" {
		if err := decodeFile(project, cfg); err != nil {
			return nil, err
		}
	}
	applyEnv(cfg)
	return cfg, nil
}

// LoadFile reads path on top of the defaults and applies environment
// overrides. Unlike Load, path must exist.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	applyEnv(cfg)
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvServer); v != "" {
		cfg.Server.URL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
}

// findProjectConfig walks up from the working directory looking for
// ProjectFile.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, ProjectFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Save writes the config to disk.
func Save(cfg *Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// EnsureExists creates the config file with defaults if it doesn't exist.
func EnsureExists() error {
	if _, err := os.Stat(Path()); err == nil {
		return nil // already exists
	}
	return Save(Default())
}
