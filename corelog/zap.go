package corelog

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewZap builds the structured logger used by the node subsystems. Console
// output goes to stderr; when file is non-empty, log lines are mirrored into
// a size-rotated file next to it.
func NewZap(level zapcore.Level, file string, disableStdOut bool) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var sinks []zapcore.WriteSyncer
	if !disableStdOut {
		sinks = append(sinks, zapcore.Lock(os.Stderr))
	}
	if file != "" {
		roller := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    150, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		sinks = append(sinks, zapcore.AddSync(roller))
	}
	if len(sinks) == 0 {
		sinks = append(sinks, zapcore.AddSync(io.Discard))
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.NewMultiWriteSyncer(sinks...),
		level,
	)

	return zap.New(core).With(zap.String("app", "blackd"))
}
