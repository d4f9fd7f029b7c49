package config

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Log configures the logger shared by the client and the command line tool.
type Log struct {
	Level  string `envconfig:"LEVEL" default:"info"`
	Format string `envconfig:"FORMAT" default:"text"`
}

// Logger builds a logrus logger writing to stderr.
func (l Log) Logger() (*logrus.Logger, error) {
	logger := logrus.New()
	logger.Out = os.Stderr

	level := l.Level
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrap(err, "parsing log level")
	}
	logger.SetLevel(lvl)

	switch l.Format {
	case "", "text":
		logger.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	case "json":
		logger.Formatter = &logrus.JSONFormatter{}
	default:
		return nil, InvalidConfigError("invalid log format " + l.Format + ": must be text or json")
	}
	return logger, nil
}
