package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"legal-insight-be/internal/dto"
	"legal-insight-be/internal/pkg/logger"
	"legal-insight-be/pkg/events"
	"legal-insight-be/pkg/lock"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJobTopic = "RUN_CORPUS_ANALYSIS_TEST"

type stubAnalysisService struct {
	mu    sync.Mutex
	calls int
	err   error
	ran   chan struct{}
	// block, when set, holds RunFullAnalysis until closed
	block chan struct{}
}

func (s *stubAnalysisService) RunFullAnalysis(ctx context.Context) (*dto.AnalysisRunResponse, error) {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.ran != nil {
		s.ran <- struct{}{}
	}
	if s.err != nil {
		return nil, s.err
	}
	return &dto.AnalysisRunResponse{RunId: uuid.New(), K: 5, ClauseCount: 10, AgreementCount: 2}, nil
}

func (s *stubAnalysisService) GetLatest(ctx context.Context) ([]*dto.AnalysisResultResponse, error) {
	return nil, nil
}

func (s *stubAnalysisService) GetLatestByType(ctx context.Context, analysisType string) (*dto.AnalysisResultResponse, error) {
	return nil, nil
}

func (s *stubAnalysisService) GetRun(ctx context.Context, runId uuid.UUID) ([]*dto.AnalysisResultResponse, error) {
	return nil, nil
}

func (s *stubAnalysisService) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

type jobHarness struct {
	analysis *stubAnalysisService
	events   *recordingPublisher
	locker   *lock.LocalLocker
	pubSub   *gochannel.GoChannel
	jobs     IAnalysisJobService
}

func newJobHarness(t *testing.T) *jobHarness {
	t.Helper()
	h := &jobHarness{
		analysis: &stubAnalysisService{},
		events:   &recordingPublisher{},
		locker:   lock.NewLocalLocker(),
		pubSub:   gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{}),
	}
	t.Cleanup(func() { _ = h.pubSub.Close() })

	h.jobs = NewAnalysisJobService(
		h.analysis,
		NewPublisherService(testJobTopic, h.pubSub),
		h.events,
		h.locker,
		time.Minute,
		logger.NewNopLogger(),
	)
	return h
}

func TestRunNow_PublishesCompletion(t *testing.T) {
	h := newJobHarness(t)

	res, err := h.jobs.RunNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, res.K)
	assert.Equal(t, []string{events.TypeAnalysisCompleted}, h.events.types())

	// The lock is free again
	_, err = h.jobs.RunNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, h.analysis.callCount())
}

func TestRunNow_RejectsWhileLocked(t *testing.T) {
	h := newJobHarness(t)
	release, err := h.locker.Acquire(context.Background(), analysisLockKey, time.Minute)
	require.NoError(t, err)
	defer release(context.Background())

	_, err = h.jobs.RunNow(context.Background())
	assert.ErrorIs(t, err, lock.ErrLocked)
	assert.Zero(t, h.analysis.callCount())
	assert.Empty(t, h.events.types())
}

func TestRunNow_ConcurrentCallsRunOnce(t *testing.T) {
	h := newJobHarness(t)
	h.analysis.block = make(chan struct{})

	firstDone := make(chan error, 1)
	go func() {
		_, err := h.jobs.RunNow(context.Background())
		firstDone <- err
	}()

	// Wait until the first run holds the lock
	require.Eventually(t, func() bool {
		release, err := h.locker.Acquire(context.Background(), analysisLockKey, time.Minute)
		if err != nil {
			return true
		}
		_ = release(context.Background())
		return false
	}, time.Second, 5*time.Millisecond)

	_, err := h.jobs.RunNow(context.Background())
	assert.ErrorIs(t, err, lock.ErrLocked)

	close(h.analysis.block)
	require.NoError(t, <-firstDone)
	assert.Equal(t, 1, h.analysis.callCount())
}

func TestRunNow_PublishesFailure(t *testing.T) {
	h := newJobHarness(t)
	h.analysis.err = ErrEmptyCorpus

	_, err := h.jobs.RunNow(context.Background())
	assert.ErrorIs(t, err, ErrEmptyCorpus)

	require.Len(t, h.events.events, 1)
	assert.Equal(t, events.TypeAnalysisFailed, h.events.events[0].EventType())
	assert.Equal(t, "empty_corpus", h.events.events[0].Payload()["reason"])
}

func TestEnqueue_ConsumerRunsJob(t *testing.T) {
	h := newJobHarness(t)
	h.analysis.ran = make(chan struct{}, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	consumer := NewConsumerService(h.pubSub, testJobTopic, h.jobs, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	job, err := h.jobs.Enqueue(ctx, TriggerHTTP)
	require.NoError(t, err)
	assert.NotEmpty(t, job.JobId)
	assert.Equal(t, "queued", job.Status)

	select {
	case <-h.analysis.ran:
	case <-time.After(2 * time.Second):
		t.Fatal("queued job was not consumed")
	}
	assert.Eventually(t, func() bool {
		return len(h.events.types()) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestEnqueue_RejectsWhileLocked(t *testing.T) {
	h := newJobHarness(t)
	release, err := h.locker.Acquire(context.Background(), analysisLockKey, time.Minute)
	require.NoError(t, err)
	defer release(context.Background())

	_, err = h.jobs.Enqueue(context.Background(), TriggerHTTP)
	assert.ErrorIs(t, err, lock.ErrLocked)
}

func TestHandleCorpusIngested_QueuesRun(t *testing.T) {
	h := newJobHarness(t)
	h.analysis.ran = make(chan struct{}, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, NewConsumerService(h.pubSub, testJobTopic, h.jobs, logger.NewNopLogger()).Consume(ctx))

	err := h.jobs.HandleCorpusIngested(ctx, events.BaseEvent{
		Type:       events.TypeCorpusIngested,
		Data:       map[string]interface{}{"clauses": 12},
		OccurredAt: time.Now(),
	})
	require.NoError(t, err)

	select {
	case <-h.analysis.ran:
	case <-time.After(2 * time.Second):
		t.Fatal("ingest event did not trigger a run")
	}
}
