package chat

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	chatModels "humblebot/internal/domain/models/chat"
	chatSvc "humblebot/internal/domain/services/chat"
	"humblebot/internal/metrics"
	"humblebot/internal/observability"
)

// Service implements the Session interface.
// All state changes happen under mu; only the backend call runs outside it.
type Service struct {
	id      string
	backend chatSvc.Backend
	policy  LateResultPolicy
	now     func() time.Time
	logger  *slog.Logger

	// ctx bounds backend calls to the session lifetime, not to any caller
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.Mutex
	messages    []chatModels.Message
	busy        bool
	lastError   *string
	lastStamp   int64
	generation  uint64 // bumped by ClearChat
	version     uint64
	closed      bool
	subscribers map[uint64]chan chatModels.Snapshot
	nextSubID   uint64
}

var _ chatSvc.Session = (*Service)(nil)

// NewService creates an empty session backed by backend
func NewService(backend chatSvc.Backend, logger *slog.Logger, opts ...Option) *Service {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Service{
		id:          uuid.NewString(),
		backend:     backend,
		policy:      LateResultAppend,
		now:         time.Now,
		ctx:         ctx,
		cancel:      cancel,
		subscribers: make(map[uint64]chan chatModels.Snapshot),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logger.With("session_id", s.id)

	s.logger.Info("session started",
		"backend", backend.Name(),
		"late_result_policy", s.policy,
	)

	return s
}

// ID returns the session identifier
func (s *Service) ID() string {
	return s.id
}

// SendMessage appends the user message, marks the session busy and starts the
// backend call in the background.
func (s *Service) SendMessage(ctx context.Context, text string) {
	log := observability.LoggerFromContext(ctx, s.logger)

	if strings.TrimSpace(text) == "" {
		metrics.SendsIgnored.WithLabelValues("blank").Inc()
		log.Debug("send ignored", "reason", "blank")
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		metrics.SendsIgnored.WithLabelValues("closed").Inc()
		log.Debug("send ignored", "reason", "closed")
		return
	}
	if s.busy {
		s.mu.Unlock()
		metrics.SendsIgnored.WithLabelValues("busy").Inc()
		log.Debug("send ignored", "reason", "busy")
		return
	}

	userMsg := s.newMessageLocked(text, true)
	s.messages = append(s.messages, userMsg)
	s.busy = true
	s.lastError = nil
	generation := s.generation
	s.publishLocked()

	// Add before unlocking so Close cannot start waiting in between
	s.wg.Add(1)
	s.mu.Unlock()

	metrics.MessagesSent.Inc()
	log.Info("message sent",
		"timestamp", userMsg.Timestamp,
		"length", len(text),
	)

	go s.complete(generation, text)
}

// complete runs the backend call and applies its result on the session timeline
func (s *Service) complete(generation uint64, text string) {
	defer s.wg.Done()

	backendName := s.backend.Name()
	start := time.Now()
	reply, err := s.backend.Complete(s.ctx, text)
	metrics.BackendLatency.WithLabelValues(backendName).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.BackendRequests.WithLabelValues(backendName, "failure").Inc()
	} else {
		metrics.BackendRequests.WithLabelValues(backendName, "success").Inc()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		metrics.LateResults.WithLabelValues("dropped").Inc()
		s.logger.Debug("result dropped, session closed", "error", err)
		return
	}

	s.busy = false

	if generation != s.generation {
		if s.policy == LateResultDrop {
			metrics.LateResults.WithLabelValues("dropped").Inc()
			s.logger.Info("result dropped, chat was cleared while in flight")
			s.publishLocked()
			return
		}
		metrics.LateResults.WithLabelValues("appended").Inc()
		s.logger.Info("result surfaced after chat was cleared")
	}

	if err != nil {
		reason := FailureReason(err)
		s.lastError = &reason
		s.logger.Warn("backend request failed",
			"backend", backendName,
			"error", err,
		)
		s.publishLocked()
		return
	}

	aiMsg := s.newMessageLocked(reply, false)
	s.messages = append(s.messages, aiMsg)
	s.logger.Info("reply received",
		"backend", backendName,
		"timestamp", aiMsg.Timestamp,
		"length", len(reply),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	s.publishLocked()
}

// ClearError drops the last backend failure
func (s *Service) ClearError(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.lastError == nil {
		return
	}
	s.lastError = nil
	s.publishLocked()

	observability.LoggerFromContext(ctx, s.logger).Debug("error cleared")
}

// ClearChat empties the log and the last error; busy is preserved
func (s *Service) ClearChat(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	cleared := len(s.messages)
	s.messages = nil
	s.lastError = nil
	s.generation++
	s.publishLocked()

	observability.LoggerFromContext(ctx, s.logger).Info("chat cleared",
		"messages", cleared,
		"busy", s.busy,
	)
}

// Snapshot returns a copy of the current state
func (s *Service) Snapshot() chatModels.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers an observer. The channel has capacity 1 and always
// holds the newest undelivered snapshot.
func (s *Service) Subscribe() (<-chan chatModels.Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan chatModels.Snapshot, 1)
	ch <- s.snapshotLocked()

	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = ch
	metrics.ActiveSubscribers.Inc()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if sub, ok := s.subscribers[id]; ok {
				delete(s.subscribers, id)
				close(sub)
				metrics.ActiveSubscribers.Dec()
			}
		})
	}

	return ch, unsubscribe
}

// Close ends the session. Any in-flight backend call is cancelled and its
// result dropped; all subscriber channels are closed.
func (s *Service) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.cancel()
	for id, ch := range s.subscribers {
		delete(s.subscribers, id)
		close(ch)
		metrics.ActiveSubscribers.Dec()
	}
	inFlight := s.busy
	s.mu.Unlock()

	s.wg.Wait()

	s.logger.Info("session closed", "abandoned_request", inFlight)
}

func (s *Service) newMessageLocked(text string, fromUser bool) chatModels.Message {
	now := s.now()
	ts := now.UnixMilli()
	if ts <= s.lastStamp {
		ts = s.lastStamp + 1
	}
	s.lastStamp = ts

	return chatModels.Message{
		Text:       text,
		IsFromUser: fromUser,
		Timestamp:  ts,
		CreatedAt:  now,
	}
}

func (s *Service) snapshotLocked() chatModels.Snapshot {
	messages := make([]chatModels.Message, len(s.messages))
	copy(messages, s.messages)

	var lastError *string
	if s.lastError != nil {
		errText := *s.lastError
		lastError = &errText
	}

	return chatModels.Snapshot{
		Messages:  messages,
		Busy:      s.busy,
		LastError: lastError,
		Version:   s.version,
	}
}

func (s *Service) publishLocked() {
	s.version++
	snap := s.snapshotLocked()
	for _, ch := range s.subscribers {
		offer(ch, snap)
	}
}

// offer replaces whatever is buffered in ch with snap. Callers hold s.mu, so
// no other writer can refill the slot between the drain and the send.
func offer(ch chan chatModels.Snapshot, snap chatModels.Snapshot) {
	for {
		select {
		case ch <- snap:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
