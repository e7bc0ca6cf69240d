package logger

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logger configuration
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, console
}

// Printer is the printf-style surface used across the service.
type Printer struct {
	level zapcore.Level
	name  string
}

var (
	base *zap.Logger
	mu   sync.RWMutex

	Debug   = &Printer{level: zapcore.DebugLevel}
	Info    = &Printer{level: zapcore.InfoLevel}
	Warning = &Printer{level: zapcore.WarnLevel}
	Error   = &Printer{level: zapcore.ErrorLevel}
	HTTP    = &Printer{level: zapcore.InfoLevel, name: "http"}
)

func init() {
	base = zap.NewNop()
}

// Setup configures the process-wide logger from LOG_LEVEL and LOG_FORMAT.
func Setup() {
	SetupWithConfig(&Config{
		Level:  os.Getenv("LOG_LEVEL"),
		Format: os.Getenv("LOG_FORMAT"),
	})
}

func SetupWithConfig(cfg *Config) {
	l := New(cfg)
	Replace(l)
}

// New builds a zap logger without installing it.
func New(cfg *Config) *zap.Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	if strings.ToLower(cfg.Format) == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), parseLevel(cfg.Level))
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))
}

// Replace installs l as the process-wide logger. Tests use it with zaptest/observer cores.
func Replace(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	base = l
}

// L returns the structured logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// With creates a child logger with the given fields
func With(fields ...zap.Field) *zap.Logger {
	return L().With(fields...)
}

func Sync() error {
	return L().Sync()
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (p *Printer) sugar() *zap.SugaredLogger {
	l := L()
	if p.name != "" {
		l = l.Named(p.name)
	}
	return l.Sugar()
}

func (p *Printer) Printf(format string, args ...any) {
	p.sugar().Logf(p.level, strings.TrimSuffix(format, "\n"), args...)
}

func (p *Printer) Println(args ...any) {
	p.sugar().Logln(p.level, args...)
}
