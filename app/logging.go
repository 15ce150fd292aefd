package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

// newLogger builds the process-wide diagnostic logger. Everything it
// writes goes to standard error; standard output is reserved for query
// results so the CLI's output contract (see formatter.go) stays exact.
func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.WarnLevel)
	if os.Getenv("SQLITE_READER_DEBUG") != "" {
		l.SetLevel(logrus.DebugLevel)
	}
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	return l
}
