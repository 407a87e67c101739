package logger

import (
	"os"

	"github.com/google/uuid"
	"github.com/nullseed/logruseq"
	"github.com/sirupsen/logrus"

	"core/internal/config"
)

// Logger is the structured log entry handed to every component.
type Logger = *logrus.Entry

// New builds the process logger: JSON output in production, colored text
// otherwise, with an optional Seq shipping hook and a per-process TraceId.
func New(cfg *config.LoggingConfig) Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Environment == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			ForceColors:      true,
			FullTimestamp:    false,
			QuoteEmptyFields: true,
		})
	}

	if cfg.SeqURL != "" {
		log.AddHook(logruseq.NewSeqHook(cfg.SeqURL, logruseq.OptionAPIKey(cfg.SeqToken)))
	}

	return log.WithField("TraceId", uuid.New().String())
}
