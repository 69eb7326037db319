package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// TaskPublisher enqueues generation tasks for the worker pool.
type TaskPublisher interface {
	Enqueue(ctx context.Context, payload StoryTaskPayload) error
}

type rabbitMQTaskPublisher struct {
	channel *amqp.Channel
	logger  *zap.Logger
}

// NewRabbitMQTaskPublisher returns a publisher for the task queue. The queue
// itself is declared by DeclareTopology at startup.
func NewRabbitMQTaskPublisher(ch *amqp.Channel, logger *zap.Logger) TaskPublisher {
	return &rabbitMQTaskPublisher{
		channel: ch,
		logger:  logger.Named("TaskPublisher"),
	}
}

func (p *rabbitMQTaskPublisher) Enqueue(ctx context.Context, payload StoryTaskPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal task %s: %w", payload.TaskID, err)
	}

	err = p.channel.PublishWithContext(ctx,
		"", // default exchange
		TaskQueueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
			Timestamp:    time.Now(),
			AppId:        "fable-server",
			MessageId:    payload.TaskID,
		},
	)
	if err != nil {
		p.logger.Error("Failed to publish task",
			zap.String("task_id", payload.TaskID), zap.Error(err))
		return fmt.Errorf("failed to publish task %s: %w", payload.TaskID, err)
	}

	p.logger.Info("Generation task enqueued",
		zap.String("task_id", payload.TaskID), zap.String("user_id", payload.UserID))
	return nil
}
