package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"kernel-convolver/internal/logger"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Output formats understood by the encoders.
var Formats = []string{"jpeg", "png", "tiff", "bmp"}

// Codecs selects the decode/encode implementation.
var Codecs = []string{"gocv", "go"}

// Config is the run configuration. Precedence, lowest first: defaults,
// YAML file, environment, command-line flags.
type Config struct {
	Input       string   `yaml:"input"`
	OutputDir   string   `yaml:"output_dir"`
	Format      string   `yaml:"format"`
	Codec       string   `yaml:"codec"`
	Alpha       bool     `yaml:"alpha"`
	Workers     int      `yaml:"workers"`
	Only        []string `yaml:"only"`
	Clean       bool     `yaml:"clean"`
	JPEGQuality int      `yaml:"jpeg_quality"`
	LogLevel    string   `yaml:"log_level"`
	LogFormat   string   `yaml:"log_format"`
}

func Default() *Config {
	return &Config{
		Input:       "0_input.png",
		OutputDir:   ".",
		Format:      "jpeg",
		Codec:       "gocv",
		Alpha:       true,
		Workers:     1,
		Clean:       true,
		JPEGQuality: 95,
		LogLevel:    "info",
		LogFormat:   "console",
	}
}

// Load returns defaults overlaid with the YAML file at path (if non-empty)
// and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		}
	}

	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

// ApplyEnv honours LOG_LEVEL, and DEBUG=1 when LOG_LEVEL is unset.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if level, ok := lookup("LOG_LEVEL"); ok && level != "" {
		c.LogLevel = level
		return
	}
	if debug, ok := lookup("DEBUG"); ok && debug == "1" {
		c.LogLevel = "debug"
	}
}

// RegisterFlags declares one flag per setting, defaulting to c's values.
func (c *Config) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP("output", "o", c.OutputDir, "directory for result images")
	fs.StringP("format", "f", c.Format, "output format: "+strings.Join(Formats, ", "))
	fs.String("codec", c.Codec, "image codec: "+strings.Join(Codecs, ", "))
	fs.Bool("alpha", c.Alpha, "process 4 bytes per pixel (B,G,R,A) instead of 3")
	fs.IntP("workers", "w", c.Workers, "goroutines per convolution pass (0 = one per CPU)")
	fs.StringSlice("only", c.Only, "run only the named kernels, in catalog order")
	fs.Bool("clean", c.Clean, "delete previous result images before the run")
	fs.Int("jpeg-quality", c.JPEGQuality, "JPEG quality, 1-100")
	fs.String("log-level", c.LogLevel, "debug, info, warn or error")
	fs.String("log-format", c.LogFormat, "console or json")
}

// ApplyFlags copies every flag the user actually set onto c.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "output":
			c.OutputDir, err = fs.GetString(f.Name)
		case "format":
			c.Format, err = fs.GetString(f.Name)
		case "codec":
			c.Codec, err = fs.GetString(f.Name)
		case "alpha":
			c.Alpha, err = fs.GetBool(f.Name)
		case "workers":
			c.Workers, err = fs.GetInt(f.Name)
		case "only":
			c.Only, err = fs.GetStringSlice(f.Name)
		case "clean":
			c.Clean, err = fs.GetBool(f.Name)
		case "jpeg-quality":
			c.JPEGQuality, err = fs.GetInt(f.Name)
		case "log-level":
			c.LogLevel, err = fs.GetString(f.Name)
		case "log-format":
			c.LogFormat, err = fs.GetString(f.Name)
		}
	})
	return err
}

func (c *Config) Validate() error {
	c.Format = normalizeFormat(c.Format)

	if strings.TrimSpace(c.Input) == "" {
		return fmt.Errorf("%w: input path is empty", ErrInvalidConfig)
	}
	if !slices.Contains(Formats, c.Format) {
		return fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, c.Format)
	}
	if !slices.Contains(Codecs, c.Codec) {
		return fmt.Errorf("%w: unknown codec %q", ErrInvalidConfig, c.Codec)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("%w: jpeg quality %d outside 1..100", ErrInvalidConfig, c.JPEGQuality)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}

// BytesPerPixel returns the working buffer layout.
func (c *Config) BytesPerPixel() int {
	if c.Alpha {
		return 4
	}
	return 3
}

// EffectiveWorkers resolves 0 to the number of CPUs.
func (c *Config) EffectiveWorkers() int {
	if c.Workers == 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}

func normalizeFormat(f string) string {
	f = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(f), "."))
	switch f {
	case "jpg":
		return "jpeg"
	case "tif":
		return "tiff"
	}
	return f
}
