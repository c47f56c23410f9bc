package obs

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

var logLevels = map[string]logrus.Level{
	"trace": logrus.TraceLevel,
	"debug": logrus.DebugLevel,
	"info":  logrus.InfoLevel,
	"warn":  logrus.WarnLevel,
	"error": logrus.ErrorLevel,
}

// SetupLogging configures the process-wide logrus logger.
func SetupLogging(level string) error {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.0000",
	})

	lvl, ok := logLevels[strings.ToLower(strings.TrimSpace(level))]
	if !ok {
		return fmt.Errorf("setup logging: unknown level %q", level)
	}
	logrus.SetLevel(lvl)
	return nil
}
