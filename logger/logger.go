package logger

import (
	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// Init sets the level and formatter of the shared logger. JSON in production, text otherwise.
func Init(level string, production bool) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	if production {
		Log.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}
