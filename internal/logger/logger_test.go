package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Order events are logged as structured JSON with level, timestamp, message and fields
func TestProperty_OrderEventLogsAreStructured(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("every entry decodes as JSON carrying its order fields", prop.ForAll(
		func(message string, orderID string, level string) bool {
			var buf bytes.Buffer

			cfg := zap.NewProductionEncoderConfig()
			cfg.TimeKey = "timestamp"
			cfg.MessageKey = "message"
			cfg.EncodeTime = zapcore.ISO8601TimeEncoder

			core := zapcore.NewCore(
				zapcore.NewJSONEncoder(cfg),
				zapcore.AddSync(&buf),
				zapcore.DebugLevel,
			)
			logger := zap.New(core)
			defer logger.Sync()

			fields := []zap.Field{zap.String("order_id", orderID)}
			switch level {
			case "debug":
				logger.Debug(message, fields...)
			case "warn":
				logger.Warn(message, fields...)
			case "error":
				logger.Error(message, fields...)
			default:
				logger.Info(message, fields...)
			}

			var entry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				return false
			}

			if entry["level"] != level {
				return false
			}
			if _, ok := entry["timestamp"]; !ok {
				return false
			}
			return entry["message"] == message && entry["order_id"] == orderID
		},
		gen.AnyString(),
		gen.RegexMatch(`ORDER-[0-9]{13}`),
		gen.OneConstOf("debug", "info", "warn", "error"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestNew_RespectsLevel(t *testing.T) {
	logger, err := New("production", "warn")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
	if !logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("error should be enabled at warn level")
	}
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	logger, err := New("development", "chatty")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug should be disabled when falling back to info")
	}
	if !logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be enabled when falling back to info")
	}
}
