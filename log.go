package sapling

import (
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// NewLogger returns the default engine logger: stderr, text or JSON
// depending on LOG_FORMAT, level from LOG_LEVEL (default info).
func NewLogger() *logrus.Logger {
	return newLogger(os.Stderr, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
}

func newLogger(w io.Writer, levelName, format string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)
	if strings.ToLower(format) == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return l
}

// sessionLog tags every entry of one game run with a fresh session id.
func sessionLog(l *logrus.Logger) *logrus.Entry {
	return l.WithField("session", uuid.NewString())
}
