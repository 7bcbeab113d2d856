// Package log provides structured logging for treeforge on top of zerolog.
//
// Components obtain a named Logger and attach well-known keys:
//
//	logger := log.GetLoggerWithName("tree").With(log.ModelNameKey, "DecisionTreeClassifier")
//	logger.Info("Training started", log.OperationKey, log.OperationFit, log.SamplesKey, n)
//
// Key/value pairs follow the slog convention (alternating key, value). A
// trailing key without a value is logged under "!BADKEY".
package log

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the structured logger used across treeforge.
type Logger interface {
	Debug(msg string, kv ...interface{})
	Info(msg string, kv ...interface{})
	Warn(msg string, kv ...interface{})
	Error(msg string, kv ...interface{})
	With(kv ...interface{}) Logger
	Enabled(level zerolog.Level) bool
}

// LoggerProvider hands out component loggers sharing one sink and level.
type LoggerProvider interface {
	GetLogger() Logger
	GetLoggerWithName(name string) Logger
	SetLevel(level zerolog.Level)
}

// Well-known keys.
const (
	OperationKey  = "operation"
	PhaseKey      = "phase"
	SamplesKey    = "samples"
	FeaturesKey   = "features"
	DurationMsKey = "duration_ms"
	ModelNameKey  = "model_name"
	ComponentKey  = "component"
	ColumnKey     = "column"
	GainKey       = "gain"
	DepthKey      = "depth"
	NodeKey       = "node"
	ErrorKey      = "error"
)

// Operation and phase values.
const (
	OperationFit     = "fit"
	OperationPredict = "predict"
	OperationSplit   = "split"
	OperationLoad    = "load"

	PhaseTraining  = "training"
	PhaseInference = "inference"
	PhaseSearch    = "search"
)

type zerologLogger struct {
	zl zerolog.Logger
}

func (l *zerologLogger) Debug(msg string, kv ...interface{}) { emit(l.zl.Debug(), msg, kv) }
func (l *zerologLogger) Info(msg string, kv ...interface{})  { emit(l.zl.Info(), msg, kv) }
func (l *zerologLogger) Warn(msg string, kv ...interface{})  { emit(l.zl.Warn(), msg, kv) }
func (l *zerologLogger) Error(msg string, kv ...interface{}) { emit(l.zl.Error(), msg, kv) }

func (l *zerologLogger) With(kv ...interface{}) Logger {
	ctx := l.zl.With()
	for i := 0; i < len(kv); i += 2 {
		key, val := pair(kv, i)
		ctx = ctx.Interface(key, val)
	}
	return &zerologLogger{zl: ctx.Logger()}
}

func (l *zerologLogger) Enabled(level zerolog.Level) bool {
	return l.zl.GetLevel() <= level && zerolog.GlobalLevel() <= level
}

func emit(e *zerolog.Event, msg string, kv []interface{}) {
	if e == nil {
		return
	}
	for i := 0; i < len(kv); i += 2 {
		key, val := pair(kv, i)
		if err, ok := val.(error); ok {
			e = e.AnErr(key, err)
			continue
		}
		e = e.Interface(key, val)
	}
	e.Msg(msg)
}

func pair(kv []interface{}, i int) (string, interface{}) {
	key, ok := kv[i].(string)
	if !ok {
		key = "!BADKEY"
	}
	if i+1 >= len(kv) {
		return "!BADKEY", kv[i]
	}
	return key, kv[i+1]
}

type zerologProvider struct {
	mu   sync.RWMutex
	base zerolog.Logger
}

// NewZerologProvider creates a provider writing JSON lines to stderr at the given level.
func NewZerologProvider(level zerolog.Level) LoggerProvider {
	return NewZerologProviderWithWriter(os.Stderr, level)
}

// NewZerologProviderWithWriter creates a provider writing to w.
func NewZerologProviderWithWriter(w io.Writer, level zerolog.Level) LoggerProvider {
	return &zerologProvider{base: zerolog.New(w).Level(level).With().Timestamp().Logger()}
}

func (p *zerologProvider) GetLogger() Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return &zerologLogger{zl: p.base}
}

func (p *zerologProvider) GetLoggerWithName(name string) Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return &zerologLogger{zl: p.base.With().Str(ComponentKey, name).Logger()}
}

func (p *zerologProvider) SetLevel(level zerolog.Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.base = p.base.Level(level)
}

// ToLogLevel parses a level name. Unknown names map to info.
func ToLogLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off", "none":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

var (
	globalMu       sync.RWMutex
	globalProvider LoggerProvider = NewZerologProvider(zerolog.InfoLevel)
	globalZerolog                 = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

// SetupLogger configures the global provider with a human-readable console writer.
func SetupLogger(level string) {
	lvl := ToLogLevel(level)
	cw := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}

	globalMu.Lock()
	defer globalMu.Unlock()
	globalProvider = NewZerologProviderWithWriter(cw, lvl)
	globalZerolog = zerolog.New(cw).Level(lvl).With().Timestamp().Logger()
}

// SetProvider replaces the global provider and returns the previous one.
// Tests use it to capture output.
func SetProvider(p LoggerProvider) LoggerProvider {
	globalMu.Lock()
	defer globalMu.Unlock()
	prev := globalProvider
	globalProvider = p
	return prev
}

// GetLoggerWithName returns a component logger from the global provider.
func GetLoggerWithName(name string) Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalProvider.GetLoggerWithName(name)
}

// GetLogger returns the raw zerolog logger for event-style logging.
func GetLogger() *zerolog.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	l := globalZerolog
	return &l
}

// LogError logs err at error level with its full chain.
func LogError(err error, msg string) {
	if err == nil {
		return
	}
	GetLogger().Error().Err(err).Msg(msg)
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return &zerologLogger{zl: zerolog.Nop()}
}
