package service

import (
	"context"
	"encoding/json"
	"errors"

	"legal-insight-be/internal/dto"
	"legal-insight-be/internal/pkg/logger"
	"legal-insight-be/pkg/lock"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	jobService IAnalysisJobService
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	jobService IAnalysisJobService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		jobService: jobService,
		logger:     log,
	}
}

// Consume handles queued jobs one at a time until ctx is cancelled.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var job dto.PublishAnalysisJobMessage
	if err := json.Unmarshal(msg.Payload, &job); err != nil {
		cs.logger.Error(jobModule, "Failed to unmarshal job", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Invalid payloads never succeed
		return
	}

	cs.logger.Info(jobModule, "Processing analysis job", map[string]interface{}{
		"job_id":  job.JobId,
		"trigger": job.Trigger,
	})

	res, err := cs.jobService.RunNow(ctx)
	switch {
	case errors.Is(err, lock.ErrLocked):
		cs.logger.Warn(jobModule, "Skipping job, another analysis holds the lock", map[string]interface{}{"job_id": job.JobId})
	case err != nil:
		// Failures are reported through ANALYSIS_FAILED; redelivering would only repeat them
		cs.logger.Error(jobModule, "Analysis job failed", map[string]interface{}{
			"job_id": job.JobId,
			"error":  err.Error(),
		})
	default:
		cs.logger.Info(jobModule, "Analysis job done", map[string]interface{}{
			"job_id": job.JobId,
			"run_id": res.RunId.String(),
		})
	}
	msg.Ack()
}
