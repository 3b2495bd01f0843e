package startup

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/Lacarte/video-player/internal/logging"
)

// EnvPrefix is prepended to every environment variable, e.g. PLAYER_PORT.
const EnvPrefix = "PLAYER"

// Config holds all application configuration
type Config struct {
	CoursePath string `envconfig:"COURSE_PATH"`
	Host       string `envconfig:"LISTEN_HOST"`
	// Port 0 picks the first free port in [PortRangeStart, PortRangeEnd].
	Port           int    `envconfig:"PORT" default:"0"`
	PortRangeStart int    `envconfig:"PORT_RANGE_START" default:"8002"`
	PortRangeEnd   int    `envconfig:"PORT_RANGE_END" default:"8020"`
	WebDir         string `envconfig:"WEB_DIR" default:"web"`

	FFmpegPath           string        `envconfig:"FFMPEG" default:"ffmpeg"`
	FFprobePath          string        `envconfig:"FFPROBE" default:"ffprobe"`
	ProbeTimeout         time.Duration `envconfig:"PROBE_TIMEOUT" default:"30s"`
	HardwareProbeTimeout time.Duration `envconfig:"HWACCEL_PROBE_TIMEOUT" default:"15s"`

	ConvertEnabled  bool `envconfig:"CONVERT" default:"true"`
	PlaylistCache   bool `envconfig:"PLAYLIST_CACHE" default:"true"`
	MetricsEnabled  bool `envconfig:"METRICS_ENABLED" default:"true"`
	OpenBrowser     bool `envconfig:"OPEN_BROWSER" default:"false"`
	LogStaticFiles  bool `envconfig:"LOG_STATIC_FILES" default:"false"`
	LogHealthChecks bool `envconfig:"LOG_HEALTH_CHECKS" default:"true"`

	// LogLevel overrides LOG_LEVEL and DEBUG when set.
	LogLevel string `envconfig:"LOG_LEVEL"`
}

// ErrNoCoursePath is returned by Finalize when no course folder was given.
var ErrNoCoursePath = errors.New("no course path given (use --path or PLAYER_COURSE_PATH)")

// LoadConfig reads an optional dotenv file and then the PLAYER_*
// environment. A missing envFile is not an error.
func LoadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	return &cfg, nil
}

// Finalize validates the course folder, applies the log level and picks a
// port. It must run after command-line overrides are applied.
func (c *Config) Finalize() error {
	if c.LogLevel != "" {
		level, err := logging.ParseLevel(c.LogLevel)
		if err != nil {
			return err
		}
		logging.SetLevel(level)
	}

	if c.CoursePath == "" {
		return ErrNoCoursePath
	}

	abs, err := filepath.Abs(c.CoursePath)
	if err != nil {
		return fmt.Errorf("resolve course path: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return fmt.Errorf("course path: %w", err)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return fmt.Errorf("course path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("course path is not a directory: %s", resolved)
	}
	c.CoursePath = resolved

	if c.Port == 0 {
		port, err := FindFreePort(c.Host, c.PortRangeStart, c.PortRangeEnd)
		if err != nil {
			return err
		}
		c.Port = port
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Log prints the effective configuration.
func (c *Config) Log() {
	section("CONFIGURATION")
	logging.Info("  COURSE:              %s", c.CoursePath)
	logging.Info("  PORT:                %d", c.Port)
	logging.Info("  WEB_DIR:             %s", c.WebDir)
	logging.Info("  FFMPEG:              %s", c.FFmpegPath)
	logging.Info("  FFPROBE:             %s", c.FFprobePath)
	logging.Info("  PROBE_TIMEOUT:       %v", c.ProbeTimeout)
	logging.Info("  PLAYLIST_CACHE:      %v", c.PlaylistCache)
	logging.Info("  LOG_STATIC_FILES:    %v", c.LogStaticFiles)
	logging.Info("  LOG_HEALTH_CHECKS:   %v", c.LogHealthChecks)
	logging.Info("  LOG_LEVEL:           %s", logging.GetLevel())
	logging.Info("")
	logging.Info("  Feature availability:")
	logging.Info("    Conversion:  %s", enabledString(c.ConvertEnabled))
	logging.Info("    Metrics:     %s", enabledString(c.MetricsEnabled))
}
