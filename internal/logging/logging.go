package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelNone
)

var logger *logrus.Logger

func init() {
	logger = logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	SetLevel(LevelWarning)
}

func SetLevel(l Level) {
	switch l {
	case LevelDebug:
		logger.SetOutput(os.Stderr)
		logger.SetLevel(logrus.DebugLevel)
	case LevelInfo:
		logger.SetOutput(os.Stderr)
		logger.SetLevel(logrus.InfoLevel)
	case LevelWarning:
		logger.SetOutput(os.Stderr)
		logger.SetLevel(logrus.WarnLevel)
	case LevelError:
		logger.SetOutput(os.Stderr)
		logger.SetLevel(logrus.ErrorLevel)
	case LevelNone:
		logger.SetOutput(io.Discard)
		logger.SetLevel(logrus.PanicLevel)
	}
}

// SetOutput redirects all log output.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// SetJSON switches between text and JSON formatted output.
func SetJSON(enabled bool) {
	if enabled {
		logger.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// WithField returns an entry tagged with a single field,
// typically the component that logs.
func WithField(key string, value interface{}) *logrus.Entry {
	return logger.WithField(key, value)
}

func Debug(msg string, v ...interface{}) {
	logger.Debugf(msg, v...)
}

func Info(msg string, v ...interface{}) {
	logger.Infof(msg, v...)
}

func Warning(msg string, v ...interface{}) {
	logger.Warnf(msg, v...)
}

func Error(msg string, v ...interface{}) {
	logger.Errorf(msg, v...)
}
