package log

import (
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
	LevelNone
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelError:
		return "ERROR"
	case LevelNone:
		return "NONE"
	default:
		return "UNKNOWN"
	}
}

func LevelFromString(s string) Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "ERROR":
		return LevelError
	case "NONE":
		return LevelNone
	default:
		return LevelDebug // Default to DEBUG
	}
}

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelInfo:
		return zapcore.InfoLevel
	case LevelError:
		return zapcore.ErrorLevel
	case LevelNone:
		return zapcore.FatalLevel + 1 // nothing logs above Fatal
	default:
		return zapcore.DebugLevel
	}
}

// Logger exposes the Debugf/Infof/Warnf/Errorf surface the rest of the code
// logs through, backed by a zap core writing to out.
type Logger struct {
	sugar  *zap.SugaredLogger
	atomic zap.AtomicLevel
	level  Level
}

func New(out io.Writer, level Level) *Logger {
	atomic := zap.NewAtomicLevelAt(level.zapLevel())
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(out),
		atomic,
	)
	return &Logger{
		sugar:  zap.New(core).Sugar(),
		atomic: atomic,
		level:  level,
	}
}

func (l *Logger) Debugf(format string, v ...interface{}) { l.sugar.Debugf(format, v...) }
func (l *Logger) Infof(format string, v ...interface{})  { l.sugar.Infof(format, v...) }
func (l *Logger) Warnf(format string, v ...interface{})  { l.sugar.Warnf(format, v...) }
func (l *Logger) Errorf(format string, v ...interface{}) { l.sugar.Errorf(format, v...) }

func (l *Logger) SetLevel(level Level) {
	l.level = level
	l.atomic.SetLevel(level.zapLevel())
}

func (l *Logger) Level() Level {
	return l.level
}
