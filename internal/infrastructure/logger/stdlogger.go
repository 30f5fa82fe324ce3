package logger

import (
	"io"
	"log"
	"os"
)

// StdLogger простой логгер на основе стандартного log пакета
type StdLogger struct {
	logger       *log.Logger
	debugEnabled bool
}

// NewStdLogger создает новый логгер, пишущий в stderr
func NewStdLogger(debugEnabled bool) *StdLogger {
	return NewWriterLogger(os.Stderr, debugEnabled)
}

// NewWriterLogger создает логгер, пишущий в w
func NewWriterLogger(w io.Writer, debugEnabled bool) *StdLogger {
	return &StdLogger{
		logger:       log.New(w, "qr: ", log.LstdFlags),
		debugEnabled: debugEnabled,
	}
}

// Info логирует информационное сообщение
func (l *StdLogger) Info(msg string, args ...interface{}) {
	l.logger.Printf(msg, args...)
}

// Error логирует сообщение об ошибке
func (l *StdLogger) Error(msg string, args ...interface{}) {
	l.logger.Printf("ОШИБКА: "+msg, args...)
}

// Debug логирует отладочное сообщение
func (l *StdLogger) Debug(msg string, args ...interface{}) {
	if l.debugEnabled {
		l.logger.Printf("DEBUG: "+msg, args...)
	}
}
