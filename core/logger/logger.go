package logger

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Environment variables configuring the process logger.
const (
	EnvLevel  = "LITBRIDGE_LOGGING_LEVEL"
	EnvFormat = "LITBRIDGE_LOGGING_FORMAT"
)

const defaultLevel = "warning"

var (
	lg   *logrus.Logger
	once sync.Once
)

// Logger returns the process logger. It is configured from the environment on first use
// and panics if the configured level is invalid.
func Logger() *logrus.Logger {
	once.Do(func() {
		lg = New(os.Getenv(EnvLevel), os.Getenv(EnvFormat))
	})

	return lg
}

// New returns a logger writing to stderr. An empty level means "warning";
// format is "json" or "text", anything else falls back to text.
func New(levelStr, format string) *logrus.Logger {
	if levelStr == "" {
		levelStr = defaultLevel
	}

	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		panic(err)
	}

	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(level)
	l.SetFormatter(formatter(format))

	return l
}

func formatter(format string) logrus.Formatter {
	if format == "json" {
		return &logrus.JSONFormatter{}
	}

	return &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000 MST",
	}
}
