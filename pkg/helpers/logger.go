package helpers

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NewLogger creates a configured Logrus logger. level overrides the
// environment default (debug in development, info elsewhere) when it parses.
func NewLogger(appName, env, level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if env == "development" {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if level != "" {
		if lvl, err := logrus.ParseLevel(level); err == nil {
			logger.SetLevel(lvl)
		} else {
			logger.WithField("level", level).Warn("unknown log level, keeping default")
		}
	}
	logger.WithFields(logrus.Fields{"app": appName, "env": env, "level": logger.GetLevel().String()}).Info("logger initialized")
	return logger
}

// RequestEntry tags an entry with the request id and client ip set by the middlewares.
func RequestEntry(logger *logrus.Logger, c *gin.Context) *logrus.Entry {
	fields := logrus.Fields{"path": c.FullPath(), "method": c.Request.Method}
	if id := c.GetString("request_id"); id != "" {
		fields["request_id"] = id
	}
	if ip := c.GetString("real_ip"); ip != "" {
		fields["ip"] = ip
	}
	return logger.WithFields(fields)
}
