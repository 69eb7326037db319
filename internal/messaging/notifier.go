package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Notifier reports task completion to the client tier.
type Notifier interface {
	Notify(ctx context.Context, payload NotificationPayload) error
}

// rabbitMQNotifier publishes notifications to a durable queue. The channel
// is owned by the caller and closed there.
type rabbitMQNotifier struct {
	channel   *amqp.Channel
	queueName string
	logger    *zap.Logger
}

func NewRabbitMQNotifier(ch *amqp.Channel, logger *zap.Logger) (Notifier, error) {
	_, err := ch.QueueDeclare(
		NotificationsQueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare notifications queue %q: %w", NotificationsQueueName, err)
	}
	return &rabbitMQNotifier{
		channel:   ch,
		queueName: NotificationsQueueName,
		logger:    logger.Named("Notifier"),
	}, nil
}

func (n *rabbitMQNotifier) Notify(ctx context.Context, payload NotificationPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification for task %s: %w", payload.TaskID, err)
	}

	err = n.channel.PublishWithContext(ctx,
		"", // default exchange
		n.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
			Timestamp:    time.Now(),
			AppId:        "fable-server",
			MessageId:    payload.TaskID + "-notif",
		},
	)
	if err != nil {
		n.logger.Error("Failed to publish notification",
			zap.String("task_id", payload.TaskID), zap.Error(err))
		return fmt.Errorf("failed to publish notification for task %s: %w", payload.TaskID, err)
	}

	n.logger.Info("Notification published",
		zap.String("task_id", payload.TaskID), zap.String("status", payload.Status))
	return nil
}
