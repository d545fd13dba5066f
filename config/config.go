package config

import (
	stdlog "log"
	"log/slog"
	"os"
	"path"
	"sync"
	"time"

	sflog "github.com/gwos/gosfml/log"
	"github.com/gwos/gosfml/logzer"
	"github.com/gwos/gosfml/system"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

var (
	once sync.Once
	cfg  *Config

	metricsOnce sync.Once
	metrics     *system.StreamMetrics

	// MetricsRegisterer defines where the stream metrics are registered
	MetricsRegisterer prometheus.Registerer = prometheus.DefaultRegisterer
)

// LogLevel defines levels in logrus-style
type LogLevel int

// Enum levels
const (
	Error LogLevel = iota
	Warn
	Info
	Debug
	Trace
)

func (l LogLevel) String() string {
	if l < Error || l > Trace {
		return "Unknown"
	}
	return [...]string{"Error", "Warn", "Info", "Debug", "Trace"}[l]
}

// ZerologLevel returns the zerolog level, out of range values are clamped
func (l LogLevel) ZerologLevel() zerolog.Level {
	switch {
	case l < Error:
		l = Error
	case l > Trace:
		l = Trace
	}
	return [...]zerolog.Level{3, 2, 1, 0, -1}[l]
}

// Logging defines logger configuration
type Logging struct {
	// Condense accepts time duration for condensing similar records
	// if 0 turn off condensing
	Condense time.Duration `env:"CONDENSE" yaml:"condense"`
	// File accepts file path to log in addition to stdout
	File        string `env:"FILE" yaml:"file"`
	FileMaxSize int64  `env:"FILEMAXSIZE" yaml:"fileMaxSize"`
	// Log files are rotated count times before being removed.
	// If count is 0, old versions are removed rather than rotated.
	FileRotate int      `env:"FILEROTATE" yaml:"fileRotate"`
	Level      LogLevel `env:"LEVEL" yaml:"level"`
	Colors     bool     `env:"COLORS" yaml:"colors"`
	TimeFormat string   `env:"TIMEFORMAT" yaml:"timeFormat"`
	// LastErrors defines count of error records kept for GetLastErrors
	LastErrors int `env:"LASTERRORS" yaml:"lastErrors"`
}

// Stream defines input stream configuration
type Stream struct {
	// MaxRead limits bytes served by a single read callback, 0 means no limit
	MaxRead int64 `env:"MAXREAD" yaml:"maxRead"`
	// Metrics enables the stream callbacks metrics
	Metrics bool `env:"METRICS" yaml:"metrics"`
}

// Config defines gosfml configuration
type Config struct {
	Logging Logging `envPrefix:"LOG_" yaml:"logging"`
	Stream  Stream  `envPrefix:"STREAM_" yaml:"stream"`
}

func defaults() Config {
	return Config{
		Logging: Logging{
			Condense:    0,
			FileMaxSize: 1024 * 1024 * 10, // 10MB
			FileRotate:  5,
			Level:       Warn,
			Colors:      false,
			TimeFormat:  time.RFC3339,
			LastErrors:  10,
		},
		Stream: Stream{
			MaxRead: 0,
			Metrics: false,
		},
	}
}

// GetConfig implements Singleton pattern
func GetConfig() *Config {
	once.Do(func() {
		/* buffer the logging while configuring */
		logBuf := &logzer.LogBuffer{
			Level: zerolog.TraceLevel,
			Size:  16,
		}
		log.Logger = zerolog.New(logBuf).
			With().Timestamp().Caller().Logger()
		log.Info().Msgf("Build info: %s / %s", buildTag, buildTime)

		/* merge defaults, file, and env */
		applyFlags()
		cfg = new(Config)
		*cfg = defaults()
		if err := cfg.loadFile(cfg.ConfigPath()); err != nil {
			log.Warn().Err(err).
				Str("configPath", cfg.ConfigPath()).
				Msg("could not load config")
		}
		if err := applyEnv(cfg); err != nil {
			log.Warn().Err(err).
				Msg("could not apply env vars")
		}

		/* init logger and flush buffer */
		cfg.initLogger()
		logzer.WriteLogBuffer(logBuf)
	})
	return cfg
}

// ConfigPath returns config file path
func (cfg Config) ConfigPath() string {
	configPath := os.Getenv(ConfigEnv)
	if configPath == "" {
		configPath = ConfigName
		if wd, err := os.Getwd(); err == nil {
			configPath = path.Join(wd, ConfigName)
		}
	}
	return configPath
}

func (cfg *Config) loadFile(configPath string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		log.Debug().Str("configData", string(data)).Msg("could not parse config")
		return err
	}
	return nil
}

// Reload applies the config file and env again and reinits the logger
func (cfg *Config) Reload() error {
	newCfg := new(Config)
	*newCfg = defaults()
	if err := newCfg.loadFile(cfg.ConfigPath()); err != nil && !os.IsNotExist(err) {
		return err
	}
	if err := applyEnv(newCfg); err != nil {
		return err
	}
	*cfg = *newCfg
	cfg.initLogger()
	return nil
}

// StreamOptions returns the input stream options configured
func (cfg Config) StreamOptions(name string) []system.StreamOption {
	opts := []system.StreamOption{system.WithStreamName(name)}
	if cfg.Stream.MaxRead > 0 {
		opts = append(opts, system.WithMaxRead(cfg.Stream.MaxRead))
	}
	if cfg.Stream.Metrics {
		metricsOnce.Do(func() {
			metrics = system.NewStreamMetrics(MetricsRegisterer)
		})
		opts = append(opts, system.WithMetrics(metrics))
	}
	return opts
}

func (cfg Config) initLogger() {
	lvl := cfg.Logging.Level.ZerologLevel()
	condense := cfg.Logging.Condense
	if lvl <= zerolog.DebugLevel {
		condense = 0
	}
	opts := []logzer.Option{
		logzer.WithColors(cfg.Logging.Colors),
		logzer.WithCondense(condense),
		logzer.WithLastErrors(cfg.Logging.LastErrors),
		logzer.WithLevel(lvl),
		logzer.WithTimeFormat(cfg.Logging.TimeFormat),
	}
	if cfg.Logging.File != "" {
		opts = append(opts, logzer.WithLogFile(&logzer.LogFile{
			FilePath: cfg.Logging.File,
			MaxSize:  cfg.Logging.FileMaxSize,
			Rotate:   cfg.Logging.FileRotate,
		}))
	}
	SetLogger(opts...)
}

// SetLogger sets the global zerolog logger with options
// and adapts the library logger to it
func SetLogger(opts ...logzer.Option) {
	/* prevent writes in global logger */
	log.Logger = zerolog.Nop()
	/* reset to defaults */
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	/* apply options */
	w := logzer.NewLoggerWriter(opts...)
	/* set global logger */
	log.Logger = zerolog.New(w).
		With().Timestamp().Caller().
		Logger()
	/* adapt library logger */
	sflog.Logger = slog.New(&logzer.SLogHandler{CallerSkipFrame: 3}).WithGroup("gosfml")
	/* set as standard logger output */
	stdlog.SetFlags(0)
	stdlog.SetOutput(log.Logger)
}
