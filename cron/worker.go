package cron

import (
	"context"
	"time"

	"vapicalendar/config"
	"vapicalendar/services/audit"
	"vapicalendar/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// RedisOpt is the asynq connection shared by the audit queue client and worker.
func RedisOpt(cfg config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisQueueDB,
	}
}

// InitAuditWorker drains capture tasks into sink in the background. The
// returned server must be shut down by the caller.
func InitAuditWorker(redisOpt asynq.RedisClientOpt, sink audit.Recorder, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				tasks.AuditQueue: 1,
			},
			Logger: logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeCaptureInteraction, HandleCaptureTask(sink, logger))

	go func() {
		logger.Info("[AuditWorker] starting async worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil {
				return
			}
			logger.Error("[AuditWorker] failed to start worker",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("[AuditWorker] max retry attempts reached, audit capture is queue-only")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

// HandleCaptureTask writes one queued interaction to sink. Malformed payloads
// are skipped rather than retried.
func HandleCaptureTask(sink audit.Recorder, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		interaction, err := tasks.ParseCaptureTask(task)
		if err != nil {
			logger.Error("[AuditWorker] dropping task", zap.Error(err))
			return asynq.SkipRetry
		}

		if err := sink.Capture(ctx, interaction); err != nil {
			logger.Warn("[AuditWorker] capture failed, will retry",
				zap.String("requestId", interaction.RequestID), zap.Error(err))
			return err
		}
		logger.Debug("[AuditWorker] interaction captured",
			zap.String("requestId", interaction.RequestID), zap.String("function", interaction.FunctionName))
		return nil
	}
}
