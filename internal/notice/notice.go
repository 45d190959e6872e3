// Package notice carries non-blocking user notifications.
package notice

import (
	"context"
	"log/slog"
)

type Level int

const (
	Info Level = iota
	Error
)

type Notice struct {
	Level   Level
	Message string
	Err     error
}

type Notifier interface {
	Notify(n Notice)
}

type Func func(n Notice)

func (f Func) Notify(n Notice) { f(n) }

// Logger writes notices to a slog logger.
type Logger struct {
	log *slog.Logger
}

func NewLogger(log *slog.Logger) *Logger {
	return &Logger{log: log}
}

func (l *Logger) Notify(n Notice) {
	level := slog.LevelInfo
	if n.Level == Error {
		level = slog.LevelError
	}
	args := []any{}
	if n.Err != nil {
		args = append(args, "error", n.Err)
	}
	l.log.Log(context.Background(), level, n.Message, args...)
}
