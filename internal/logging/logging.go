// Package logging builds the application logger.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls logger construction.
type Options struct {
	Debug bool
	// OutputPaths overrides the default stderr sink.
	OutputPaths []string
}

// New builds a production zap logger. Debug lowers the level and switches to
// the console encoder.
func New(options Options) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if options.Debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		config.Encoding = "console"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	if len(options.OutputPaths) > 0 {
		config.OutputPaths = options.OutputPaths
		config.ErrorOutputPaths = options.OutputPaths
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
