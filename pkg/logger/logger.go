package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"github.com/pkg/errors"
)

// Init configures the global logrus instance. level is the -v count
// (0 = info, 1 = debug, 2+ = trace). When logFilePath is set, output is
// mirrored to a rotating file next to stdout.
func Init(level int, logFilePath string) error {
	switch {
	case level >= 2:
		logrus.SetLevel(logrus.TraceLevel)
	case level == 1:
		logrus.SetLevel(logrus.DebugLevel)
	default:
		logrus.SetLevel(logrus.InfoLevel)
	}

	logrus.SetFormatter(&prefixed.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
		ForceFormatting: true,
	})

	if logFilePath == "" {
		logrus.SetOutput(os.Stdout)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(logFilePath), 0755); err != nil {
		return errors.Wrapf(err, "create log directory for %q", logFilePath)
	}

	logrus.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    5,
		MaxBackups: 2,
		MaxAge:     30,
	}))

	return nil
}

// GetLogger returns a component-scoped entry, shown as the log prefix.
func GetLogger(prefix string) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{"prefix": prefix})
}
