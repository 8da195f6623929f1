package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap.Logger. Production gets JSON output, anything else
// gets the console encoder.
func New(level, env string) (*zap.Logger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	lvl := zapcore.InfoLevel
	if err := lvl.Set(level); err != nil {
		// fall back to info level if parsing fails
		lvl = zapcore.InfoLevel
	}

	var encoder zapcore.Encoder
	switch env {
	case "production", "prod":
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	default:
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	core := zapcore.NewCore(
		encoder,
		zapcore.AddSync(zapcore.Lock(os.Stdout)),
		lvl,
	)

	return zap.New(core, zap.AddCaller()), nil
}
