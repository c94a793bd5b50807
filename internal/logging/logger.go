package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/NutthakitPatike/Project-Fitness-app/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggerSetupParams struct {
	LogFileName      string
	LogToStdout      bool
	LogLevel         string
	LogFormatJSON    bool
	Environment      string
	SentryEnabled    bool
	SentryDSN        string
	SentryServerName string
}

// Setup configures the global logrus logger. The returned func closes the log file, if one is used,
// and is meant to run last on shutdown.
func Setup(params LoggerSetupParams) func() {
	if params.LogFormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	logrus.SetLevel(GetLevel(params.LogLevel))

	out, logFile := newOutput(params)
	logrus.SetOutput(out)

	if params.SentryEnabled {
		if err := setupSentry(params); err != nil {
			logrus.Errorf("sentry not set up: %s", err)
		} else {
			logrus.Infoln("sentry set up successfully")
		}
	}

	if logFile == nil {
		return func() {}
	}
	return func() {
		if err := logFile.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "close log file %s: %s\n", logFile.Filename, err)
		}
	}
}

func setupSentry(params LoggerSetupParams) error {
	if params.SentryDSN == "" {
		return errors.New("SENTRY_DSN not set")
	}
	if err := sentry.Init(sentry.ClientOptions{
		Environment:      params.Environment,
		Dsn:              params.SentryDSN,
		TracesSampleRate: 1.0,
		ServerName:       params.SentryServerName,
	}); err != nil {
		return fmt.Errorf("sentry init: %w", err)
	}

	logrus.AddHook(NewSentryHook([]logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
	}))
	return nil
}

// newOutput picks stdout, a rotating log file, or both. The file is returned so it can be closed.
func newOutput(params LoggerSetupParams) (io.Writer, *lumberjack.Logger) {
	if params.LogFileName == "" {
		return os.Stdout, nil
	}

	fileName := params.LogFileName
	if filepath.Ext(fileName) != ".log" {
		fileName += ".log"
	}
	logFile := &lumberjack.Logger{
		Filename:   fileName,
		MaxSize:    50, // megabytes
		MaxBackups: 10,
		Compress:   true,
	}

	if params.LogToStdout {
		return pkg.NewCombinedWriter(os.Stdout, logFile), logFile
	}
	return logFile, logFile
}

// GetLevel parses a configured level, falling back to info.
func GetLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}
