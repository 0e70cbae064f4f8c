package initializers

import (
	"os"

	"github.com/sirupsen/logrus"
)

// InitLogger configures the process-wide logrus logger. JSON output so the
// platform log pipeline can index fields.
func InitLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logrus.SetLevel(level)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}
