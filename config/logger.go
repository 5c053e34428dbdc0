package config

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LogConfig struct {
	// debug, info, warn or error.
	Level string `yaml:"level"`
	// Log file. Empty logs to stderr.
	Path       string `yaml:"path"`
	MaxSize    int    `yaml:"maxSize"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAge     int    `yaml:"maxAge"`
	Compress   bool   `yaml:"compress"`
}

// WithDefaults returns a copy of the LogConfig with any missing fields set to
// their default values.
func (c LogConfig) WithDefaults() LogConfig {
	cpy := c
	if cpy.Level == "" {
		cpy.Level = defaultLogLevel
	}
	if cpy.MaxSize == 0 {
		cpy.MaxSize = 50
	}
	if cpy.MaxBackups == 0 {
		cpy.MaxBackups = 5
	}
	if cpy.MaxAge == 0 {
		cpy.MaxAge = 14
	}
	return cpy
}

func (c LogConfig) zapLevel() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return lvl, errors.Wrap(err, "logger.level")
	}
	return lvl, nil
}

// CreateLogger builds the process logger. With a configured path the output
// goes to a rotating file that the returned Closer closes; otherwise it goes
// to stderr and the Closer is nil. debug forces debug level.
func (c *Config) CreateLogger(debug bool) (
	*zap.Logger,
	io.Closer,
	error,
) {
	lvl, err := c.Logger.zapLevel()
	if err != nil {
		return nil, nil, err
	}
	if debug {
		lvl = zap.DebugLevel
	}

	if c.Logger.Path != "" {
		logger, closer, err := newFileLogger(c.Logger, lvl, debug)
		return logger, closer, errors.Wrap(err, "create logger")
	}

	var zc zap.Config
	if debug {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := zc.Build()
	return logger, nil, errors.Wrap(err, "create logger")
}

func newFileLogger(c LogConfig, lvl zapcore.Level, debug bool) (
	*zap.Logger,
	io.Closer,
	error,
) {
	if dir := filepath.Dir(c.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}

	rot := &lumberjack.Logger{
		Filename:   c.Path,
		MaxSize:    c.MaxSize,
		MaxBackups: c.MaxBackups,
		MaxAge:     c.MaxAge,
		Compress:   c.Compress,
	}

	encCfg := zap.NewProductionEncoderConfig()
	if debug {
		encCfg = zap.NewDevelopmentEncoderConfig()
	}
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
	enc := zapcore.NewConsoleEncoder(encCfg)

	core := zapcore.NewCore(enc, zapcore.AddSync(rot), lvl)
	return zap.New(core, zap.AddCaller()), rot, nil
}
