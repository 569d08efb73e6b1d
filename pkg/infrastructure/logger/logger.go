package logger

import (
	"todo-web/config"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// New creates a logger from config.C.
func New() (*zap.Logger, error) {
	return NewWithOptions(config.C.Log.Level, config.C.Log.Development)
}

// NewWithOptions creates a development (console) or production (JSON) logger
// at level. An empty level keeps the preset's default. Output goes to
// outputPaths when given, stderr otherwise.
func NewWithOptions(level string, development bool, outputPaths ...string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	if len(outputPaths) > 0 {
		cfg.OutputPaths = outputPaths
	}

	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid log level %q", level)
		}
		cfg.Level = lvl
	}

	return cfg.Build()
}
