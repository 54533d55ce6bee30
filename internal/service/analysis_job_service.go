package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"legal-insight-be/internal/dto"
	"legal-insight-be/internal/pkg/logger"
	"legal-insight-be/pkg/events"
	"legal-insight-be/pkg/lock"

	"github.com/google/uuid"
)

const (
	jobModule       = "ANALYSIS_JOB"
	analysisLockKey = "corpus-analysis"

	TriggerHTTP  = "http"
	TriggerEvent = "event"
	TriggerCLI   = "cli"
)

// EventPublisher is satisfied by the NATS publisher.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// IAnalysisJobService serializes analysis runs. At most one run holds the lock at a time,
// across every process sharing the lock backend.
type IAnalysisJobService interface {
	// Enqueue queues a run unless one is already in progress.
	Enqueue(ctx context.Context, trigger string) (*dto.AnalysisJobResponse, error)
	// RunNow runs inline while holding the lock.
	RunNow(ctx context.Context) (*dto.AnalysisRunResponse, error)
	// HandleCorpusIngested queues a run after new clauses were ingested.
	HandleCorpusIngested(ctx context.Context, event events.Event) error
}

type analysisJobService struct {
	analysisService IAnalysisService
	publisher       IPublisherService
	events          EventPublisher
	locker          lock.Locker
	lockTTL         time.Duration
	logger          logger.ILogger
}

func NewAnalysisJobService(
	analysisService IAnalysisService,
	publisher IPublisherService,
	eventPublisher EventPublisher,
	locker lock.Locker,
	lockTTL time.Duration,
	log logger.ILogger,
) IAnalysisJobService {
	return &analysisJobService{
		analysisService: analysisService,
		publisher:       publisher,
		events:          eventPublisher,
		locker:          locker,
		lockTTL:         lockTTL,
		logger:          log,
	}
}

func (s *analysisJobService) Enqueue(ctx context.Context, trigger string) (*dto.AnalysisJobResponse, error) {
	// Probe so callers learn about a running analysis up front. The consumer takes the lock for real.
	release, err := s.locker.Acquire(ctx, analysisLockKey, s.lockTTL)
	if err != nil {
		return nil, err
	}
	if err := release(ctx); err != nil {
		s.logger.Warn(jobModule, "Failed to release probe lock", map[string]interface{}{"error": err.Error()})
	}

	job := dto.PublishAnalysisJobMessage{
		JobId:       uuid.NewString(),
		Trigger:     trigger,
		RequestedAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to queue analysis job: %w", err)
	}

	s.logger.Info(jobModule, "Analysis job queued", map[string]interface{}{
		"job_id":  job.JobId,
		"trigger": trigger,
	})
	return &dto.AnalysisJobResponse{JobId: job.JobId, Status: "queued"}, nil
}

func (s *analysisJobService) RunNow(ctx context.Context) (*dto.AnalysisRunResponse, error) {
	release, err := s.locker.Acquire(ctx, analysisLockKey, s.lockTTL)
	if err != nil {
		return nil, err
	}
	defer func() {
		// The run may have used up ctx; releasing must still reach the backend.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := release(releaseCtx); err != nil {
			s.logger.Warn(jobModule, "Failed to release analysis lock", map[string]interface{}{"error": err.Error()})
		}
	}()

	res, err := s.analysisService.RunFullAnalysis(ctx)
	if err != nil {
		s.publish(ctx, events.AnalysisFailed(failureReason(err), err))
		return nil, err
	}

	s.publish(ctx, events.AnalysisCompleted(
		res.RunId.String(), res.K, res.ClauseCount, res.AgreementCount, res.OutlierCount, res.DurationMs,
	))
	return res, nil
}

func (s *analysisJobService) HandleCorpusIngested(ctx context.Context, event events.Event) error {
	s.logger.Info(jobModule, "Corpus ingested, scheduling analysis", event.Payload())

	_, err := s.Enqueue(ctx, TriggerEvent)
	// A locked corpus is retried through redelivery so the new clauses are not missed.
	return err
}

func (s *analysisJobService) publish(ctx context.Context, event events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn(jobModule, "Failed to publish analysis event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrEmptyCorpus):
		return "empty_corpus"
	case errors.Is(err, ErrMalformedEmbedding):
		return "malformed_embedding"
	default:
		return "internal"
	}
}
