// Package logging provides the shared logrus setup for the analyzer.
package logging

import (
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	base *logrus.Logger
	once sync.Once
)

// New returns an entry tagged with the given module name. The underlying
// logger is configured once: pretty console output locally, JSON elsewhere.
func New(module string) *logrus.Entry {
	once.Do(setup)
	return base.WithField("module", module)
}

// SetDebug raises the shared logger to debug level, overriding LOG_LEVEL.
// The CLI calls this when verbose output is requested.
func SetDebug() {
	once.Do(setup)
	base.SetLevel(logrus.DebugLevel)
}

func setup() {
	base = logrus.New()
	base.SetOutput(os.Stdout)

	env := os.Getenv("ENVIRONMENT")
	if env == "" || env == "local" {
		base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339Nano,
		})
	} else {
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
	}

	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		base.SetLevel(logrus.DebugLevel)
	case "warn":
		base.SetLevel(logrus.WarnLevel)
	case "error":
		base.SetLevel(logrus.ErrorLevel)
	default:
		base.SetLevel(logrus.InfoLevel)
	}
}
