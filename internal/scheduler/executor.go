package scheduler

import (
	"context"

	"github.com/google/uuid"
	"github.com/moerwald/quartznet/internal/logger"
)

// Executor runs jobs when their triggers fire.
type Executor interface {
	Execute(ctx context.Context, job Job)
}

// LogExecutor logs each firing. It is the default executor; deployments
// embed the scheduler and supply their own Executor for real work.
type LogExecutor struct {
	logger *logger.Logger
}

// NewLogExecutor creates an executor that only logs firings.
func NewLogExecutor(log *logger.Logger) *LogExecutor {
	return &LogExecutor{logger: log}
}

func (e *LogExecutor) Execute(_ context.Context, job Job) {
	e.logger.Info("job fired",
		logger.Field{Key: "run_id", Value: uuid.New().String()},
		logger.Field{Key: "job", Value: job.Key().String()},
		logger.Field{Key: "command", Value: job.Command})
}
