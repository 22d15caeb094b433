package listener

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hleeroa/Autoshop/internal/notify"
	"github.com/hleeroa/Autoshop/pkg/broker"
	"github.com/hleeroa/Autoshop/pkg/logger"
	"go.uber.org/zap"
)

// Sender is the mail transport; satisfied by pkg/mailer.
type Sender interface {
	Send(to, subject, body string) error
}

// NotifyListener consumes notification events and turns them into
// outbound email.
type NotifyListener struct {
	consumer *broker.KafkaConsumer
	mailer   Sender
	logger   logger.ZapLogger
}

func NewNotifyListener(consumer *broker.KafkaConsumer, mailer Sender, log logger.ZapLogger) *NotifyListener {
	return &NotifyListener{
		consumer: consumer,
		mailer:   mailer,
		logger:   log,
	}
}

func (l *NotifyListener) Start(ctx context.Context) {
	l.logger.Info("Starting notification listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping notification listener")
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

			var event notify.Event
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				l.logger.Error("Failed to unmarshal notification event", zap.Error(err))
				continue
			}
			l.handle(&event)
		}
	}
}

func (l *NotifyListener) handle(event *notify.Event) {
	subject, body, ok := Compose(event)
	if !ok {
		l.logger.Warn("Skipping notification event of unknown type",
			zap.String("event_id", event.ID),
			zap.String("event_type", event.Type))
		return
	}

	if err := l.mailer.Send(event.Email, subject, body); err != nil {
		l.logger.Error("Failed to send notification mail",
			zap.String("event_id", event.ID),
			zap.String("event_type", event.Type),
			zap.Error(err))
		return
	}

	l.logger.Info("Notification mail sent",
		zap.String("event_id", event.ID),
		zap.String("event_type", event.Type))
}

// Compose maps an event to a mail subject and body. The second return
// is false for event types this listener does not know.
func Compose(event *notify.Event) (subject, body string, ok bool) {
	switch event.Type {
	case notify.EventUserRegistered:
		return "Confirm your registration",
			fmt.Sprintf("Your confirmation token: %s", event.Payload["token"]),
			true
	case notify.EventPasswordReset:
		return "Password reset",
			fmt.Sprintf("Your password reset token: %s", event.Payload["token"]),
			true
	case notify.EventOrderPlaced:
		return "Order status update",
			fmt.Sprintf("Your order %s has been placed and is being processed.", event.Payload["order_id"]),
			true
	default:
		return "", "", false
	}
}
