// Package log builds the zap logger of camp-builder. Logs always go to stderr so stdout stays
// free for the MCP stdio transport.
package log

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Formats.
const (
	JSONFormat    = "json"
	ConsoleFormat = "console"
)

// ErrUnknownFormat is returned for a format other than json or console.
var ErrUnknownFormat = errors.New("unknown log format")

// New builds a logger at the given level. The json format uses the production encoder and the
// console format the development one.
func New(level, format string, opts ...zap.Option) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to parse log level %q", level)
	}

	var cfg zap.Config

	switch format {
	case JSONFormat:
		cfg = zap.NewProductionConfig()
	case ConsoleFormat:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", format)
	}

	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Sampling = nil
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "unable to build logger")
	}

	return logger.Named("camp-builder"), nil
}
