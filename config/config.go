// Package config loads fastflow application settings from defaults, an
// optional YAML file, FASTFLOW_* environment variables and flags, in
// increasing order of precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	ff "github.com/Andrej220/go-utils/fastflow"
)

const envPrefix = "FASTFLOW"

// Sink kinds.
const (
	SinkStub = "stub"
	SinkNATS = "nats"
)

type Config struct {
	Workers      int           `yaml:"workers"`
	PollInterval time.Duration `yaml:"poll-interval"`
	Capacity     int           `yaml:"capacity"`
	Overflow     string        `yaml:"overflow"`
	LockOSThread bool          `yaml:"lock-os-thread"`
	PinWorkers   bool          `yaml:"pin-workers"`

	Server ServerConfig `yaml:"server"`
	Sink   SinkConfig   `yaml:"sink"`
	Retry  RetryConfig  `yaml:"retry"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown-timeout"`
}

type SinkConfig struct {
	Kind        string `yaml:"kind"`
	URL         string `yaml:"url"`
	Prefix      string `yaml:"prefix"`
	Destination string `yaml:"destination"`
}

type RetryConfig struct {
	Attempts int           `yaml:"attempts"`
	Backoff  time.Duration `yaml:"backoff"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Workers:      4,
		PollInterval: ff.DefaultPollInterval,
		Overflow:     ff.OverflowBlock.String(),
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 5 * time.Second,
		},
		Sink: SinkConfig{
			Kind:        SinkStub,
			URL:         "nats://127.0.0.1:4222",
			Prefix:      "fastflow",
			Destination: "jobs",
		},
		Retry: RetryConfig{
			Attempts: 3,
			Backoff:  10 * time.Millisecond,
		},
	}
}

// New returns a viper instance seeded with defaults and environment
// lookup. Nested keys map to variables such as FASTFLOW_SERVER_ADDR.
func New() *viper.Viper {
	v := viper.New()
	d := Default()
	v.SetDefault("workers", d.Workers)
	v.SetDefault("poll-interval", d.PollInterval)
	v.SetDefault("capacity", d.Capacity)
	v.SetDefault("overflow", d.Overflow)
	v.SetDefault("lock-os-thread", d.LockOSThread)
	v.SetDefault("pin-workers", d.PinWorkers)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.shutdown-timeout", d.Server.ShutdownTimeout)
	v.SetDefault("sink.kind", d.Sink.Kind)
	v.SetDefault("sink.url", d.Sink.URL)
	v.SetDefault("sink.prefix", d.Sink.Prefix)
	v.SetDefault("sink.destination", d.Sink.Destination)
	v.SetDefault("retry.attempts", d.Retry.Attempts)
	v.SetDefault("retry.backoff", d.Retry.Backoff)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags registers the pool flags on fs and binds them to v.
func BindFlags(v *viper.Viper, fs *flag.FlagSet) error {
	d := Default()
	fs.Int("workers", d.Workers, "Number of worker goroutines; 0 accepts tasks but never runs them.")
	fs.Duration("poll-interval", d.PollInterval, "Idle wait between queue checks.")
	fs.Int("capacity", d.Capacity, "Queue capacity; 0 means unbounded.")
	fs.String("overflow", d.Overflow, "Full-queue policy for a bounded queue: block or drop.")
	fs.Bool("lock-os-thread", d.LockOSThread, "Dedicate an OS thread to each worker.")
	fs.Bool("pin-workers", d.PinWorkers, "Pin each worker to a CPU (linux).")

	for _, name := range []string{"workers", "poll-interval", "capacity", "overflow", "lock-os-thread", "pin-workers"} {
		if err := v.BindPFlag(name, fs.Lookup(name)); err != nil {
			return fmt.Errorf("config: bind flag %s: %w", name, err)
		}
	}
	return nil
}

// BindFlag binds a single flag of fs to key.
func BindFlag(v *viper.Viper, key string, fs *flag.FlagSet, name string) error {
	if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
		return fmt.Errorf("config: bind flag %s: %w", name, err)
	}
	return nil
}

// Load reads path, if given, into v and decodes the merged settings.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var c Config
	err := v.Unmarshal(&c, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)), func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
	})
	if err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("config: workers must not be negative, got %d", c.Workers)
	}
	if _, err := ff.ParseOverflowPolicy(c.Overflow); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch c.Sink.Kind {
	case SinkStub, SinkNATS:
	default:
		return fmt.Errorf("config: unknown sink kind %q", c.Sink.Kind)
	}
	return nil
}

// Options converts the pool settings to scheduler options.
func (c Config) Options() ff.Options {
	overflow, _ := ff.ParseOverflowPolicy(c.Overflow)
	return ff.Options{
		Workers:      c.Workers,
		PollInterval: c.PollInterval,
		Capacity:     c.Capacity,
		Overflow:     overflow,
		LockOSThread: c.LockOSThread,
		PinWorkers:   c.PinWorkers,
	}
}

// Dump renders c as YAML with durations in their string form.
func Dump(c Config) ([]byte, error) {
	type server struct {
		Addr            string `yaml:"addr"`
		ShutdownTimeout string `yaml:"shutdown-timeout"`
	}
	type retry struct {
		Attempts int    `yaml:"attempts"`
		Backoff  string `yaml:"backoff"`
	}
	out := struct {
		Workers      int        `yaml:"workers"`
		PollInterval string     `yaml:"poll-interval"`
		Capacity     int        `yaml:"capacity"`
		Overflow     string     `yaml:"overflow"`
		LockOSThread bool       `yaml:"lock-os-thread"`
		PinWorkers   bool       `yaml:"pin-workers"`
		Server       server     `yaml:"server"`
		Sink         SinkConfig `yaml:"sink"`
		Retry        retry      `yaml:"retry"`
	}{
		Workers:      c.Workers,
		PollInterval: c.PollInterval.String(),
		Capacity:     c.Capacity,
		Overflow:     c.Overflow,
		LockOSThread: c.LockOSThread,
		PinWorkers:   c.PinWorkers,
		Server:       server{Addr: c.Server.Addr, ShutdownTimeout: c.Server.ShutdownTimeout.String()},
		Sink:         c.Sink,
		Retry:        retry{Attempts: c.Retry.Attempts, Backoff: c.Retry.Backoff.String()},
	}
	b, err := yaml.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("config: marshal: %w", err)
	}
	return b, nil
}
