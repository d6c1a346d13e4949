package log

import (
	"os"

	"go.uber.org/zap"
)

// Logger defaults to a nop logger so library code and tests can log without
// initialization; main replaces it via InitLogger.
var Logger = zap.NewNop()

func InitLogger() {
	var (
		l   *zap.Logger
		err error
	)
	if os.Getenv("IS_DEV") == "true" {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	Logger = l
}

func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}
