package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu    sync.RWMutex
	sugar *zap.SugaredLogger
)

// wrapperSkip attributes printf-style calls to the caller of Info/Warn/...
var wrapperSkip = zap.AddCallerSkip(1)

type Config struct {
	Environment string
	Level       string
}

func init() {
	sugar = build(Config{Environment: os.Getenv("ENVIRONMENT"), Level: os.Getenv("LOG_LEVEL")})
}

// Init replaces the package logger. Call it once config is loaded.
func Init(cfg Config) {
	l := build(cfg)

	mu.Lock()
	old := sugar
	sugar = l
	mu.Unlock()

	_ = old.Sync()
}

func build(cfg Config) *zap.SugaredLogger {
	var zcfg zap.Config
	if cfg.Environment == "production" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if cfg.Level != "" {
		var lvl zapcore.Level
		if err := lvl.UnmarshalText([]byte(cfg.Level)); err == nil {
			zcfg.Level = zap.NewAtomicLevelAt(lvl)
		}
	}

	l, err := zcfg.Build(wrapperSkip)
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

func get() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// L exposes the structured logger for callers that want key/value fields.
// It drops the wrapper skip so the caller of L is reported.
func L() *zap.SugaredLogger {
	return get().WithOptions(zap.AddCallerSkip(-1))
}

func Info(format string, v ...interface{}) {
	get().Infof(format, v...)
}

func Error(format string, v ...interface{}) {
	get().Errorf(format, v...)
}

func Debug(format string, v ...interface{}) {
	get().Debugf(format, v...)
}

func Warn(format string, v ...interface{}) {
	get().Warnf(format, v...)
}

func Sync() {
	_ = get().Sync()
}

// Helper for offer transition logs
func LogOfferError(offerID, action string, err error) {
	get().Warnw("offer log error", "action", action, "offer_id", offerID, "error", err)
}
