package log

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// logger implements the Logger interface using zap.
type logger struct {
	zap *zap.Logger
}

// noopLogger implements Logger but does nothing. Engine, Gate and Client do
// not substitute it for a nil logger; they skip logging instead.
type noopLogger struct{}

type LogLevel string

const (
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
	LevelFatal LogLevel = "fatal"
	LevelDebug LogLevel = "debug"
)

// NewLogger creates a new logger with the given configuration.
func NewLogger(config LoggingConfig) Logger {
	var zapLogger *zap.Logger

	logLevel := zapcore.InfoLevel

	switch strings.ToLower(string(config.Level)) {
	case "debug":
		logLevel = zapcore.DebugLevel
	case "info":
		logLevel = zapcore.InfoLevel
	case "warn", "warning":
		logLevel = zapcore.WarnLevel
	case "error":
		logLevel = zapcore.ErrorLevel
	case "fatal":
		logLevel = zapcore.FatalLevel
	}

	if config.Environment == "production" || config.Format == "json" {
		zapConfig := zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(logLevel)
		zapLogger, _ = zapConfig.Build(zap.AddCallerSkip(1))
	} else {
		zapLogger = createDevelopmentLogger(logLevel)
	}

	return &logger{zap: zapLogger}
}

// NewDevelopmentLogger creates a development logger with enhanced colors.
func NewDevelopmentLogger() Logger {
	return &logger{zap: createDevelopmentLogger(zapcore.DebugLevel)}
}

// NewDevelopmentLoggerWithLevel creates a development logger with specified level.
func NewDevelopmentLoggerWithLevel(level zapcore.Level) Logger {
	return &logger{zap: createDevelopmentLogger(level)}
}

// NewProductionLogger creates a production logger.
func NewProductionLogger() Logger {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	zapLogger, _ := config.Build(zap.AddCallerSkip(1))

	return &logger{zap: zapLogger}
}

// NewNoopLogger creates a logger that does nothing.
func NewNoopLogger() Logger {
	return &noopLogger{}
}

// createDevelopmentLogger creates a development logger with enhanced formatting.
func createDevelopmentLogger(level zapcore.Level) *zap.Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	writeSyncer := &ColoredWriteSyncer{
		WriteSyncer: zapcore.AddSync(os.Stdout),
	}

	core := zapcore.NewCore(
		createColoredEncoder(encoderConfig),
		writeSyncer,
		zap.NewAtomicLevelAt(level),
	)

	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
}

// enhancedColorLevelEncoder adds enhanced colors to log levels.
func enhancedColorLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	colorCode := colorForLevel(level)
	levelText := level.CapitalString()
	paddedLevel := fmt.Sprintf("%-5s", levelText)
	enc.AppendString(colorCode + paddedLevel + Reset)
}

// enhancedTimeEncoder formats timestamps with subtle coloring.
func enhancedTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	timestamp := t.Format("2006-01-02 15:04:05.000")
	enc.AppendString(BrightBlack + timestamp + Reset)
}

// enhancedDurationEncoder formats durations with performance-based coloring:
// red above 1s, yellow above 100ms. These thresholds are lower than the
// 5s/1s ones log.PerformanceMonitor uses to pick a log level.
func enhancedDurationEncoder(d time.Duration, enc zapcore.PrimitiveArrayEncoder) {
	var color string

	switch {
	case d > time.Second:
		color = Red
	case d > 100*time.Millisecond:
		color = Yellow
	default:
		color = Green
	}

	enc.AppendString(color + d.String() + Reset)
}

// enhancedCallerEncoder formats caller information with subtle highlighting.
func enhancedCallerEncoder(caller zapcore.EntryCaller, enc zapcore.PrimitiveArrayEncoder) {
	if !caller.Defined {
		enc.AppendString(BrightBlack + "undefined" + Reset)

		return
	}

	enc.AppendString(Blue + caller.TrimmedPath() + Reset)
}

// colorForLevel returns the appropriate color for a log level.
func colorForLevel(level zapcore.Level) string {
	switch level {
	case zapcore.DebugLevel:
		return Cyan
	case zapcore.InfoLevel:
		return Green
	case zapcore.WarnLevel:
		return Yellow
	case zapcore.ErrorLevel:
		return Red
	case zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return Magenta
	default:
		return Reset
	}
}

// ColoredWriteSyncer wraps WriteSyncer to add full-line coloring and fix spacing.
type ColoredWriteSyncer struct {
	zapcore.WriteSyncer
}

// Write implements io.Writer with enhanced line coloring and spacing fixes.
func (w *ColoredWriteSyncer) Write(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}

	var (
		fixedLog   []byte
		lastWasTab bool
	)

	for i := range p {
		if p[i] == '\t' {
			if !lastWasTab {
				fixedLog = append(fixedLog, ' ')
				lastWasTab = true
			}
		} else {
			fixedLog = append(fixedLog, p[i])
			lastWasTab = false
		}
	}

	var colorCode string

	content := string(fixedLog)

	for i := range len(content) - 6 {
		if content[i] == '[' || (i > 0 && content[i-1] == ' ') {
			switch {
			case i+5 < len(content) && content[i:i+5] == "DEBUG":
				colorCode = Cyan
			case i+4 < len(content) && content[i:i+4] == "INFO":
				colorCode = Green
			case i+4 < len(content) && content[i:i+4] == "WARN":
				colorCode = Yellow
			case i+5 < len(content) && content[i:i+5] == "ERROR":
				colorCode = Red
			case i+5 < len(content) && content[i:i+5] == "FATAL":
				colorCode = Magenta
			}

			if colorCode != "" {
				break
			}
		}
	}

	if colorCode == "" {
		return w.WriteSyncer.Write(fixedLog)
	}

	colorPrefix := []byte(colorCode)
	colorSuffix := []byte(Reset)

	written, err := w.WriteSyncer.Write(colorPrefix)
	if err != nil {
		return written, fmt.Errorf("failed to write color prefix: %w", err)
	}

	n, err = w.WriteSyncer.Write(fixedLog)
	if err != nil {
		return n, fmt.Errorf("failed to write log content: %w", err)
	}

	_, err = w.WriteSyncer.Write(colorSuffix)
	if err != nil {
		return n, fmt.Errorf("failed to write color suffix: %w", err)
	}

	return n, nil
}

// createColoredEncoder creates an encoder with enhanced color support.
func createColoredEncoder(encoderConfig zapcore.EncoderConfig) zapcore.Encoder {
	encoderConfig.EncodeLevel = enhancedColorLevelEncoder
	encoderConfig.EncodeTime = enhancedTimeEncoder
	encoderConfig.EncodeDuration = enhancedDurationEncoder
	encoderConfig.EncodeCaller = enhancedCallerEncoder

	return zapcore.NewConsoleEncoder(encoderConfig)
}

// Implementation of Logger interface for logger.

func (l *logger) Debug(msg string, fields ...Field) {
	l.zap.Debug(msg, fieldsToZap(fields)...)
}

func (l *logger) Info(msg string, fields ...Field) {
	l.zap.Info(msg, fieldsToZap(fields)...)
}

func (l *logger) Warn(msg string, fields ...Field) {
	l.zap.Warn(msg, fieldsToZap(fields)...)
}

func (l *logger) Error(msg string, fields ...Field) {
	l.zap.Error(msg, fieldsToZap(fields)...)
}

func (l *logger) Fatal(msg string, fields ...Field) {
	l.zap.Fatal(msg, fieldsToZap(fields)...)
}

func (l *logger) Debugf(template string, args ...any) {
	l.zap.Debug(fmt.Sprintf(template, args...))
}

func (l *logger) Infof(template string, args ...any) {
	l.zap.Info(fmt.Sprintf(template, args...))
}

func (l *logger) Warnf(template string, args ...any) {
	l.zap.Warn(fmt.Sprintf(template, args...))
}

func (l *logger) Errorf(template string, args ...any) {
	l.zap.Error(fmt.Sprintf(template, args...))
}

func (l *logger) Fatalf(template string, args ...any) {
	l.zap.Fatal(fmt.Sprintf(template, args...))
}

func (l *logger) With(fields ...Field) Logger {
	return &logger{zap: l.zap.With(fieldsToZap(fields)...)}
}

func (l *logger) WithContext(ctx context.Context) Logger {
	if ctx == nil {
		return l
	}

	if fields := ContextFields(ctx); len(fields) > 0 {
		return &logger{zap: l.zap.With(fieldsToZap(fields)...)}
	}

	return l
}

func (l *logger) Named(name string) Logger {
	return &logger{zap: l.zap.Named(name)}
}

func (l *logger) Sync() error {
	return l.zap.Sync()
}

// Implementation of Logger interface for noopLogger.

func (l *noopLogger) Debug(msg string, fields ...Field)      {}
func (l *noopLogger) Info(msg string, fields ...Field)       {}
func (l *noopLogger) Warn(msg string, fields ...Field)       {}
func (l *noopLogger) Error(msg string, fields ...Field)      {}
func (l *noopLogger) Fatal(msg string, fields ...Field)      {}
func (l *noopLogger) Debugf(template string, args ...any)    {}
func (l *noopLogger) Infof(template string, args ...any)     {}
func (l *noopLogger) Warnf(template string, args ...any)     {}
func (l *noopLogger) Errorf(template string, args ...any)    {}
func (l *noopLogger) Fatalf(template string, args ...any)    {}
func (l *noopLogger) With(fields ...Field) Logger            { return l }
func (l *noopLogger) WithContext(ctx context.Context) Logger { return l }
func (l *noopLogger) Named(name string) Logger               { return l }
func (l *noopLogger) Sync() error                            { return nil }

// fieldsToZap converts Field interfaces to zap.Field.
func fieldsToZap(fields []Field) []zap.Field {
	zapFields := make([]zap.Field, len(fields))
	for i, field := range fields {
		zapFields[i] = field.ZapField()
	}

	return zapFields
}
