package logger

import (
	"io"
	"log"
	"os"

	"github.com/fatih/color"
)

type Logger struct {
	info  *log.Logger
	warn  *log.Logger
	error *log.Logger
}

func New() *Logger {
	return &Logger{
		info:  log.New(os.Stdout, color.GreenString("[INFO] "), log.LstdFlags),
		warn:  log.New(os.Stdout, color.YellowString("[WARN] "), log.LstdFlags),
		error: log.New(os.Stderr, color.RedString("[ERROR] "), log.LstdFlags),
	}
}

// NewWithWriter sends every level to w without colors.
func NewWithWriter(w io.Writer) *Logger {
	return &Logger{
		info:  log.New(w, "[INFO] ", 0),
		warn:  log.New(w, "[WARN] ", 0),
		error: log.New(w, "[ERROR] ", 0),
	}
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.info.Printf(format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.warn.Printf(format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.error.Printf(format, args...)
}
