package perf

import (
	"log"

	"github.com/fatih/color"
	"go.uber.org/zap"
)

// Logger encapsulates a Logger and the module which it belongs to.
type Logger struct {
	*zap.SugaredLogger
	module string
}

// Module returns (stylised) module name.
func (l *Logger) Module() string {
	return l.module
}

// NewLogger returns a new diagnostic logger writing to stderr.
func NewLogger() *Logger {
	l, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal("Cannot create new logger:", err)
	}
	return &Logger{SugaredLogger: l.Sugar(), module: color.CyanString("perf")}
}

// NopLogger returns a logger that discards everything. Used as the default
// when a pass is constructed without a logger.
func NopLogger() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar(), module: "perf"}
}
