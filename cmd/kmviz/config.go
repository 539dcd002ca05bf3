package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/hupe1980/kmviz"
	"github.com/hupe1980/kmviz/dataset"
	"github.com/hupe1980/kmviz/internal/resource"
)

// Config is the toml configuration of the kmviz binary.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `toml:"listen"`
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout duration `toml:"shutdown-timeout"`

	Log     LogConfig     `toml:"log"`
	Engine  EngineConfig  `toml:"engine"`
	Limits  LimitsConfig  `toml:"limits"`
	Dataset DatasetConfig `toml:"dataset"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
	// Format is json or text.
	Format string `toml:"format"`
}

// EngineConfig configures the clustering engine.
type EngineConfig struct {
	Tolerance     float64 `toml:"tolerance"`
	MaxIterations int     `toml:"max-iterations"`
	Restarts      int     `toml:"restarts"`
	// Seed makes every unseeded request reproducible. Unset means random.
	Seed *uint64 `toml:"seed"`
}

// LimitsConfig configures server admission control.
type LimitsConfig struct {
	MaxConcurrentRuns int64   `toml:"max-concurrent-runs"`
	PointBudget       int64   `toml:"point-budget"`
	RequestsPerSecond float64 `toml:"requests-per-second"`
	Burst             int     `toml:"burst"`

	// RequestTimeout bounds each request. Requests wait for rate tokens and
	// run slots until it expires. Zero makes admission fail fast.
	RequestTimeout duration `toml:"request-timeout"`
}

// DatasetConfig holds the generator defaults.
type DatasetConfig struct {
	Points   int     `toml:"points"`
	Shape    string  `toml:"shape"`
	Clusters int     `toml:"clusters"`
	Spread   float64 `toml:"spread"`
}

// duration decodes toml strings such as "10s".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func defaultConfig() Config {
	ds := dataset.DefaultConfig()

	return Config{
		Listen:          "127.0.0.1:5000",
		ShutdownTimeout: duration{10 * time.Second},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Engine: EngineConfig{
			Tolerance:     1e-6,
			MaxIterations: 300,
			Restarts:      kmviz.DefaultRestarts,
		},
		Limits: LimitsConfig{
			MaxConcurrentRuns: 4,
			PointBudget:       1_000_000,
			RequestTimeout:    duration{30 * time.Second},
		},
		Dataset: DatasetConfig{
			Points:   ds.Points,
			Shape:    ds.Shape.String(),
			Clusters: ds.Clusters,
			Spread:   ds.Spread,
		},
	}
}

// parseConfigFromFile loads path over the defaults. An empty path yields the defaults.
func parseConfigFromFile(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown config keys in %s: %v", path, undecoded)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error

	if c.Listen == "" {
		errs = append(errs, errors.New("listen address is required"))
	}
	if _, err := c.Log.level(); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	if !(c.Engine.Tolerance > 0) {
		errs = append(errs, fmt.Errorf("engine tolerance must be > 0, got %g", c.Engine.Tolerance))
	}
	if c.Engine.MaxIterations < 1 {
		errs = append(errs, fmt.Errorf("engine max-iterations must be >= 1, got %d", c.Engine.MaxIterations))
	}
	if c.Engine.Restarts < 1 {
		errs = append(errs, fmt.Errorf("engine restarts must be >= 1, got %d", c.Engine.Restarts))
	}
	if c.Limits.MaxConcurrentRuns < 0 || c.Limits.PointBudget < 0 || c.Limits.RequestsPerSecond < 0 || c.Limits.Burst < 0 || c.Limits.RequestTimeout.Duration < 0 {
		errs = append(errs, errors.New("limits must not be negative"))
	}
	if _, err := c.Dataset.config(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (l LogConfig) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}

func (l LogConfig) logger() (*kmviz.Logger, error) {
	level, err := l.level()
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(l.Format, "json") {
		return kmviz.NewJSONLogger(level), nil
	}
	return kmviz.NewTextLogger(level), nil
}

func (e EngineConfig) options() []kmviz.Option {
	opts := []kmviz.Option{
		kmviz.WithTolerance(e.Tolerance),
		kmviz.WithMaxIterations(e.MaxIterations),
		kmviz.WithRestarts(e.Restarts),
	}
	if e.Seed != nil {
		opts = append(opts, kmviz.WithSeed(*e.Seed))
	}
	return opts
}

func (l LimitsConfig) resource() resource.Config {
	return resource.Config{
		PointBudget:       l.PointBudget,
		MaxConcurrentRuns: l.MaxConcurrentRuns,
		RequestsPerSecond: l.RequestsPerSecond,
		Burst:             l.Burst,
	}
}

func (d DatasetConfig) config() (dataset.Config, error) {
	shape, err := dataset.ParseShape(d.Shape)
	if err != nil {
		return dataset.Config{}, err
	}
	return dataset.Config{
		Points:   d.Points,
		Shape:    shape,
		Clusters: d.Clusters,
		Spread:   d.Spread,
	}, nil
}
