// Package logging builds the zap loggers used by harvest runs.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the run logger. Development output is colorized console
// lines; production output is JSON. Sampling is off in both modes: a
// harvest is a short batch run and every per-item loss warning has to
// survive into the log.
func New(development bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Sampling = nil
	cfg.EncoderConfig = encoderConfig(development)

	logger, err := cfg.Build(zap.Fields(zap.String("app", "portal-crawler")))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// encoderConfig is shared by both modes so a dev console line and a
// prod JSON record carry the same keys, ts for the timestamp included.
func encoderConfig(development bool) zapcore.EncoderConfig {
	ec := zap.NewProductionEncoderConfig()
	if development {
		ec = zap.NewDevelopmentEncoderConfig()
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	ec.TimeKey = "ts"
	return ec
}
