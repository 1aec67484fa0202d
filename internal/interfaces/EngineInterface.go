package interfaces

import (
	"commitblock/internal/models"
	"context"
)

type EngineInterface interface {
	Start(ctx context.Context) error
	Stop() error
	Trigger()
	RunCycle(ctx context.Context) models.CycleResult
	Progress() uint32
	Updates() <-chan uint32
}
