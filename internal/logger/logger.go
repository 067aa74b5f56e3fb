package logger

import "github.com/sirupsen/logrus"

// New builds the process-wide structured logger. Development gets debug
// noise; everything else stays at info.
func New(appEnv string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if appEnv == "development" {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}

	return log
}
