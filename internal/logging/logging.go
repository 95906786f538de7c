package logging

import (
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"
)

func SetupLogging(level string) *logrus.Logger {
	parsedLevel, err := logrus.ParseLevel(level)
	if err != nil {
		parsedLevel = logrus.InfoLevel
	}

	logger := logrus.Logger{
		Formatter: &logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyLevel: "loglevel",
			},
		},
		Out:   os.Stdout,
		Level: parsedLevel,
	}

	return &logger
}

// Dump renders a payload for debug-level logging. Callers should gate on
// logger.IsLevelEnabled(logrus.DebugLevel) to avoid the formatting cost.
func Dump(value interface{}) string {
	return spew.Sdump(value)
}
