package pipeline

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Session debounces comparisons of a document pair that keeps changing.
// Each Update replaces any pending comparison; a comparison that finishes
// after a newer Update is discarded.
type Session struct {
	pipeline *Pipeline
	delay    time.Duration
	onResult func(*Result)
	logger   *zap.Logger

	mu         sync.Mutex
	timer      *time.Timer
	generation uint64
	closed     bool

	deliver sync.Mutex
	wg      sync.WaitGroup
}

// NewSession creates a Session that runs p once input has been quiet for
// delay and hands each current result to onResult
func NewSession(p *Pipeline, delay time.Duration, onResult func(*Result)) *Session {
	if delay < 0 {
		delay = 0
	}
	if onResult == nil {
		onResult = func(*Result) {}
	}
	return &Session{
		pipeline: p,
		delay:    delay,
		onResult: onResult,
		logger:   p.logger,
	}
}

// Update schedules a comparison of the given texts
func (s *Session) Update(leftText, rightText string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.generation++
	gen := s.generation

	if s.timer != nil && s.timer.Stop() {
		// the stopped callback will never run
		s.wg.Done()
	}
	s.wg.Add(1)
	s.timer = time.AfterFunc(s.delay, func() {
		defer s.wg.Done()
		s.fire(gen, leftText, rightText)
	})
}

func (s *Session) fire(gen uint64, leftText, rightText string) {
	if !s.current(gen) {
		return
	}

	result := s.pipeline.Run(leftText, rightText)

	s.deliver.Lock()
	defer s.deliver.Unlock()
	if !s.current(gen) {
		s.logger.Debug("dropping superseded result",
			zap.String("result_id", result.ID),
			zap.Uint64("generation", gen))
		return
	}
	s.onResult(result)
}

func (s *Session) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && gen == s.generation
}

// Close cancels any pending comparison and waits for running ones
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	if s.timer != nil && s.timer.Stop() {
		s.wg.Done()
	}
	s.timer = nil
	s.mu.Unlock()

	s.wg.Wait()
}
