package adapter

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/mateusmacedo/bus-reservation/pkg/application"
)

// watermillLoggerAdapter encaminha os logs internos do watermill para o AppLogger.
// O Info do watermill é rebaixado para Debug: são mensagens de infraestrutura.
type watermillLoggerAdapter struct {
	ctx       context.Context
	appLogger application.AppLogger
	fields    watermill.LogFields
}

func NewWatermillLoggerAdapter(ctx context.Context, appLogger application.AppLogger) watermill.LoggerAdapter {
	return &watermillLoggerAdapter{
		ctx:       ctx,
		appLogger: appLogger,
		fields:    watermill.LogFields{"component": "watermill"},
	}
}

func (a *watermillLoggerAdapter) Error(msg string, err error, fields watermill.LogFields) {
	application.LogError(a.ctx, a.appLogger, msg, err, a.fields.Add(fields))
}

func (a *watermillLoggerAdapter) Info(msg string, fields watermill.LogFields) {
	a.appLogger.Debug(a.ctx, msg, a.fields.Add(fields))
}

func (a *watermillLoggerAdapter) Debug(msg string, fields watermill.LogFields) {
	a.appLogger.Debug(a.ctx, msg, a.fields.Add(fields))
}

func (a *watermillLoggerAdapter) Trace(msg string, fields watermill.LogFields) {
	a.appLogger.Trace(a.ctx, msg, a.fields.Add(fields))
}

func (a *watermillLoggerAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &watermillLoggerAdapter{
		ctx:       a.ctx,
		appLogger: a.appLogger,
		fields:    a.fields.Add(fields),
	}
}
