// Package logger builds the zap.SugaredLogger every component in this
// module accepts at construction time, via logger.New(service).
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production-style JSON logger tagged with the given service
// name, e.g. "kvs-server" or "kvs-client".
func New(service string) *zap.SugaredLogger {
	return build(service, false)
}

// NewDebug builds a logger at debug level with human-readable console
// output, for the -v/--debug CLI flags.
func NewDebug(service string) *zap.SugaredLogger {
	return build(service, true)
}

func build(service string, debug bool) *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	log, err := cfg.Build()
	if err != nil {
		// Config.Build only fails on a malformed encoder/sink configuration,
		// which the literals above never produce; fall back rather than panic.
		log = zap.NewNop()
	}

	return log.Sugar().With("service", service)
}
