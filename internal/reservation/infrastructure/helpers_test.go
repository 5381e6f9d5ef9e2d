package infrastructure

import (
	"go.uber.org/zap"

	pkgApp "github.com/mateusmacedo/bus-reservation/pkg/application"
	zapAdapter "github.com/mateusmacedo/bus-reservation/pkg/infrastructure/zaplogger/adapter"
)

func nopLogger() pkgApp.AppLogger {
	return zapAdapter.NewZapAppLoggerFrom(zap.NewNop())
}
