package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"fable-server/internal/generation"
	"fable-server/internal/models"
	"fable-server/internal/service"
)

// DeclareTopology sets up the task queue with its dead-letter exchange and
// queue. Rejected tasks land in the DLQ for inspection instead of being
// redelivered forever.
func DeclareTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(DeadLetterExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare DLX: %w", err)
	}
	if _, err := ch.QueueDeclare(DeadLetterQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare DLQ: %w", err)
	}
	if err := ch.QueueBind(DeadLetterQueue, DeadLetterRoutingKey, DeadLetterExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind DLQ: %w", err)
	}
	_, err := ch.QueueDeclare(TaskQueueName, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    DeadLetterExchange,
		"x-dead-letter-routing-key": DeadLetterRoutingKey,
	})
	if err != nil {
		return fmt.Errorf("failed to declare task queue: %w", err)
	}
	return nil
}

// TaskConsumer processes queued generation tasks one at a time.
type TaskConsumer struct {
	channel  *amqp.Channel
	stories  *service.StoryService
	notifier Notifier
	logger   *zap.Logger
}

func NewTaskConsumer(ch *amqp.Channel, stories *service.StoryService, notifier Notifier, logger *zap.Logger) *TaskConsumer {
	return &TaskConsumer{
		channel:  ch,
		stories:  stories,
		notifier: notifier,
		logger:   logger.Named("TaskConsumer"),
	}
}

// Start consumes the task queue until ctx is cancelled. Prefetch is 1:
// a generation occupies the worker for its whole attempt loop.
func (c *TaskConsumer) Start(ctx context.Context) error {
	if err := c.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	deliveries, err := c.channel.Consume(TaskQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming %q: %w", TaskQueueName, err)
	}
	c.logger.Info("Consuming generation tasks", zap.String("queue", TaskQueueName))

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("Task consumer stopping")
				return
			case delivery, ok := <-deliveries:
				if !ok {
					c.logger.Warn("Delivery channel closed")
					return
				}
				c.handleDelivery(ctx, delivery)
			}
		}
	}()
	return nil
}

func (c *TaskConsumer) handleDelivery(ctx context.Context, delivery amqp.Delivery) {
	var payload StoryTaskPayload
	if err := json.Unmarshal(delivery.Body, &payload); err != nil {
		c.logger.Error("Unparseable task payload, sending to DLQ", zap.Error(err))
		_ = delivery.Nack(false, false)
		return
	}

	log := c.logger.With(zap.String("task_id", payload.TaskID), zap.String("user_id", payload.UserID))
	log.Info("Processing generation task",
		zap.String("language", payload.Language), zap.String("story_type", payload.StoryType))

	notification := c.process(ctx, &payload)
	if err := c.notifier.Notify(ctx, notification); err != nil {
		log.Error("Failed to notify task result", zap.Error(err))
	}

	// Terminal outcomes, success or failure, are acked: the attempt trail
	// and the notification already record what happened, and a requeue
	// would re-spend the whole attempt budget.
	if err := delivery.Ack(false); err != nil {
		log.Error("Failed to ack delivery", zap.Error(err))
	}
}

func (c *TaskConsumer) process(ctx context.Context, payload *StoryTaskPayload) NotificationPayload {
	req, err := c.buildRequest(ctx, payload)
	if err != nil {
		c.logger.Warn("Rejecting invalid task", zap.String("task_id", payload.TaskID), zap.Error(err))
		return NotificationPayload{
			TaskID: payload.TaskID, UserID: payload.UserID,
			Status: NotificationStatusError, ErrorDetails: err.Error(),
		}
	}

	story, err := c.stories.GenerateStory(ctx, req)
	if err != nil {
		notification := NotificationPayload{
			TaskID: payload.TaskID, UserID: payload.UserID,
			Status: NotificationStatusError, ErrorDetails: err.Error(),
		}
		var failure *generation.GenerationFailure
		if errors.As(err, &failure) {
			notification.AttemptsCount = failure.AttemptsCount
		}
		return notification
	}

	return NotificationPayload{
		TaskID: payload.TaskID, UserID: payload.UserID,
		Status:        NotificationStatusSuccess,
		StoryID:       story.ID.String(),
		AttemptsCount: story.GenerationAttemptsCount,
	}
}

// buildRequest resolves hero ids into character profiles and assembles the
// generation request.
func (c *TaskConsumer) buildRequest(ctx context.Context, payload *StoryTaskPayload) (*models.GenerationRequest, error) {
	storyType := models.StoryType(payload.StoryType)

	var profile models.CharacterProfile
	switch storyType {
	case models.StoryTypeSolo:
		p, err := c.stories.ResolveProfile(ctx, payload.ChildHeroID, models.StoryTypeSolo)
		if err != nil {
			return nil, err
		}
		profile = p
	case models.StoryTypeCompanion:
		p, err := c.stories.ResolveProfile(ctx, payload.CompanionHeroID, models.StoryTypeCompanion)
		if err != nil {
			return nil, err
		}
		profile = p
	case models.StoryTypeCombined:
		child, err := c.stories.ResolveProfile(ctx, payload.ChildHeroID, models.StoryTypeSolo)
		if err != nil {
			return nil, err
		}
		companion, err := c.stories.ResolveProfile(ctx, payload.CompanionHeroID, models.StoryTypeCompanion)
		if err != nil {
			return nil, err
		}
		profile = models.CombinedProfile{
			Child:            child.(models.ChildProfile),
			Hero:             companion.(models.HeroProfile),
			RelationshipNote: payload.RelationshipNote,
		}
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidStoryType, payload.StoryType)
	}

	return &models.GenerationRequest{
		UserID:              payload.UserID,
		Language:            payload.Language,
		StoryType:           storyType,
		Profile:             profile,
		Moral:               payload.Moral,
		TargetLengthMinutes: payload.TargetLengthMinutes,
		ParentStorySummary:  payload.ParentStorySummary,
		WithAudio:           payload.WithAudio,
		VoiceProvider:       payload.VoiceProvider,
		VoiceID:             payload.VoiceID,
	}, nil
}
