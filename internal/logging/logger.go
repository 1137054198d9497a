package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the JSON logger used by every component. When logstashAddr is set,
// entries are teed to Logstash as well as stdout. The returned cleanup flushes
// and closes the sinks.
func New(level, logstashAddr string) (*zap.Logger, func(), error) {
	atomicLevel := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if strings.TrimSpace(level) != "" {
		if err := atomicLevel.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
			return nil, nil, err
		}
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "time"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.Lock(os.Stdout), atomicLevel),
	}

	var shipper *LogstashWriter
	if strings.TrimSpace(logstashAddr) != "" {
		w, err := NewLogstashWriter(logstashAddr)
		if err != nil {
			return nil, nil, err
		}
		shipper = w
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), w, atomicLevel))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	cleanup := func() {
		_ = logger.Sync()
		if shipper != nil {
			_ = shipper.Close()
		}
	}
	return logger, cleanup, nil
}
