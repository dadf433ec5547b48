package health

import (
	"context"

	"github.com/m04kA/SMC-CarparkService/internal/service/carpark"
)

type CarparkService interface {
	Snapshot(ctx context.Context) (*carpark.Snapshot, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
