package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hleeroa/Autoshop/internal/importer"
	"github.com/hleeroa/Autoshop/pkg/broker"
	"github.com/hleeroa/Autoshop/pkg/logger"
	"go.uber.org/zap"
)

// ImportListener consumes dispatched import tasks and runs them.
type ImportListener struct {
	consumer *broker.KafkaConsumer
	uc       importer.UseCase
	logger   logger.ZapLogger
}

func NewImportListener(consumer *broker.KafkaConsumer, uc importer.UseCase, log logger.ZapLogger) *ImportListener {
	return &ImportListener{
		consumer: consumer,
		uc:       uc,
		logger:   log,
	}
}

func (l *ImportListener) Start(ctx context.Context) {
	l.logger.Info("Starting catalog import listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping catalog import listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}

			var task importer.Task
			if err := json.Unmarshal(msg.Value, &task); err != nil {
				l.logger.Error("Failed to unmarshal import task", zap.Error(err))
				continue
			}
			l.uc.Run(ctx, &task)
		}
	}
}
