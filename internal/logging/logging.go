// internal/logging/logging.go
package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger writing to w. verbose enables debug output;
// quiet drops everything below warnings and wins over verbose.
func New(w io.Writer, verbose, quiet bool) *zap.Logger {
	level := zapcore.InfoLevel
	switch {
	case quiet:
		level = zapcore.WarnLevel
	case verbose:
		level = zapcore.DebugLevel
	}

	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	enc.CallerKey = ""
	enc.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), level)
	return zap.New(core)
}

// Warnf logs a formatted warning; it is a no-op on a nil logger.
func Warnf(log *zap.Logger, format string, a ...any) {
	if log == nil {
		return
	}
	log.Sugar().Warnf(format, a...)
}
