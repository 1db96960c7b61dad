// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

const redacted = "[REDACTED]"

// sensitiveKeys are field names whose values never reach the log output.
var sensitiveKeys = []string{"password", "token", "authorization", "secret"}

// New returns a logger writing to stdout with the given level and format
// ("text" or "json").
func New(level, format string) (*logrus.Logger, error) {
	return NewWithOutput(os.Stdout, level, format)
}

// NewWithOutput is New with an explicit writer.
func NewWithOutput(out io.Writer, level, format string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(lvl)

	switch strings.ToLower(format) {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}

	log.AddHook(RedactHook{})
	return log, nil
}

// RedactHook masks sensitive fields before an entry is formatted.
type RedactHook struct{}

func (RedactHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (RedactHook) Fire(entry *logrus.Entry) error {
	for key := range entry.Data {
		if isSensitive(key) {
			entry.Data[key] = redacted
		}
	}
	return nil
}

func isSensitive(key string) bool {
	k := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(k, s) {
			return true
		}
	}
	return false
}
