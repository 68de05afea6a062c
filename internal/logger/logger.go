package logger

import (
	"fmt"
	"io"
	"log"
	"strings"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "Debug"
	case LevelWarn:
		return "Warn"
	case LevelError:
		return "Error"
	default:
		return "Info"
	}
}

type Logger struct {
	l     *log.Logger
	level Level
}

func New(l *log.Logger, level Level) *Logger {
	return &Logger{l: l, level: level}
}

// Default writes through the standard logger at info level.
func Default() *Logger {
	return New(log.Default(), LevelInfo)
}

// Discard drops everything; handy in tests.
func Discard() *Logger {
	return New(log.New(io.Discard, "", 0), LevelError+1)
}

func (l *Logger) logf(level Level, format string, v ...any) {
	if l == nil || level < l.level {
		return
	}
	msg := fmt.Sprintf(format, v...)
	l.l.Printf("[%s]: %s\n", level, msg)
}

func (l *Logger) Debugf(format string, v ...any) { l.logf(LevelDebug, format, v...) }
func (l *Logger) Infof(format string, v ...any)  { l.logf(LevelInfo, format, v...) }
func (l *Logger) Warnf(format string, v ...any)  { l.logf(LevelWarn, format, v...) }
func (l *Logger) Errorf(format string, v ...any) { l.logf(LevelError, format, v...) }
