package logger

import (
	"go.uber.org/zap"
)

// New builds the process logger: human-readable in development,
// JSON in anything else. The returned logger is also installed as
// zap's global so packages without an injected logger can reach it.
func New(appEnv string) (*zap.Logger, error) {
	var (
		log *zap.Logger
		err error
	)
	if appEnv == "development" {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(log)
	return log, nil
}
