package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gtanav/assistant/backend/internal/analysis/intent"
	"github.com/gtanav/assistant/backend/internal/metrics"
	"github.com/gtanav/assistant/backend/internal/model/chat"
	"github.com/gtanav/assistant/backend/internal/model/profile"
)

var (
	ErrProfileRequired = errors.New("profile id is required")
	ErrProfileNotFound = errors.New("profile not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrEmptyMessage    = errors.New("message text is empty")
	ErrReplyPending    = errors.New("assistant is still typing a reply")
	ErrReplyCancelled  = errors.New("reply cancelled")
	ErrNoPendingReply  = errors.New("no reply pending")
)

// DefaultTypingDelay is how long the assistant "types" before replying.
const DefaultTypingDelay = 1500 * time.Millisecond

// Options tunes a Service. Zero values fall back to defaults.
type Options struct {
	TypingDelay time.Duration
	Logger      *zap.Logger
}

// Service encapsulates conversation state management.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]chat.Session
	messages map[string][]chat.Message
	pending  map[string]*PendingReply

	profiles    profile.Store
	replies     *replyChain
	typingDelay time.Duration
	logger      *zap.Logger

	baseCtx context.Context
	stop    context.CancelFunc
	wg      sync.WaitGroup
}

// NewService bootstraps the in-memory chat service.
func NewService(ctx context.Context, profiles profile.Store, matcher *intent.Matcher, opts Options) (*Service, error) {
	replies, err := newReplyChain(ctx, matcher)
	if err != nil {
		return nil, err
	}

	delay := opts.TypingDelay
	if delay < 0 {
		delay = 0
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	base, stop := context.WithCancel(context.Background())
	return &Service{
		sessions:    make(map[string]chat.Session),
		messages:    make(map[string][]chat.Message),
		pending:     make(map[string]*PendingReply),
		profiles:    profiles,
		replies:     replies,
		typingDelay: delay,
		logger:      logger.Named("chat"),
		baseCtx:     base,
		stop:        stop,
	}, nil
}

// CreateSession provisions an anonymous session bound to a profile. The
// transcript starts with the profile's greeting.
func (s *Service) CreateSession(_ context.Context, profileID string) (chat.Session, error) {
	if profileID == "" {
		return chat.Session{}, ErrProfileRequired
	}
	p, ok := s.profiles.FindByID(profileID)
	if !ok {
		return chat.Session{}, fmt.Errorf("%w: %s", ErrProfileNotFound, profileID)
	}

	session := chat.Session{
		ID:        uuid.NewString(),
		ProfileID: profileID,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.messages[session.ID] = []chat.Message{greetingMessage(session.ID, p)}
	s.mu.Unlock()

	s.logger.Info("session created", zap.String("session_id", session.ID), zap.String("profile_id", profileID))
	return session, nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}
	return session, nil
}

// Transcript returns the session's messages in display order.
func (s *Service) Transcript(_ context.Context, sessionID string) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages, ok := s.messages[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	copied := make([]chat.Message, len(messages))
	copy(copied, messages)
	return copied, nil
}

// Typing reports whether a reply is pending for the session.
func (s *Service) Typing(sessionID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending[sessionID] != nil
}

// Submit appends the user's message and starts typing the reply. Blank text
// is rejected without touching the transcript. Only one reply may be pending
// per session.
func (s *Service) Submit(_ context.Context, sessionID, text string) (chat.Message, *PendingReply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return chat.Message{}, nil, ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return chat.Message{}, nil, ErrSessionNotFound
	}
	if s.pending[sessionID] != nil {
		return chat.Message{}, nil, ErrReplyPending
	}

	msg := chat.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Text:      text,
		IsUser:    true,
		Timestamp: time.Now().UTC(),
	}
	s.messages[sessionID] = append(s.messages[sessionID], msg)
	metrics.Messages.WithLabelValues(msg.Role()).Inc()

	ctx, cancel := context.WithCancel(s.baseCtx)
	p := &PendingReply{cancel: cancel, done: make(chan struct{})}
	s.pending[sessionID] = p

	s.wg.Add(1)
	go s.typeReply(ctx, msg, p)

	return msg, p, nil
}

// Reply waits for the session's pending reply. If ctx ends first the reply
// is cancelled and never reaches the transcript.
func (s *Service) Reply(ctx context.Context, sessionID string) (chat.Message, error) {
	s.mu.RLock()
	_, ok := s.sessions[sessionID]
	p := s.pending[sessionID]
	s.mu.RUnlock()

	if !ok {
		return chat.Message{}, ErrSessionNotFound
	}
	if p == nil {
		return chat.Message{}, ErrNoPendingReply
	}
	return p.WaitOrCancel(ctx)
}

// Converse submits text and waits for the reply.
func (s *Service) Converse(ctx context.Context, sessionID, text string) (chat.Message, chat.Message, error) {
	userMsg, pending, err := s.Submit(ctx, sessionID, text)
	if err != nil {
		return chat.Message{}, chat.Message{}, err
	}
	reply, err := pending.WaitOrCancel(ctx)
	return userMsg, reply, err
}

// Reset cancels any pending reply and rewinds the transcript to the greeting.
func (s *Service) Reset(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	if p := s.pending[sessionID]; p != nil {
		p.cancel()
		delete(s.pending, sessionID)
	}

	p, _ := s.profiles.FindByID(session.ProfileID)
	s.messages[sessionID] = []chat.Message{greetingMessage(sessionID, p)}
	return nil
}

// Close cancels all pending replies and waits for their goroutines.
func (s *Service) Close() {
	s.stop()
	s.wg.Wait()
}

func (s *Service) typeReply(ctx context.Context, userMsg chat.Message, p *PendingReply) {
	defer s.wg.Done()
	defer p.cancel()
	start := time.Now()

	timer := time.NewTimer(s.typingDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		s.finish(userMsg.SessionID, p, chat.Message{}, ErrReplyCancelled)
		return
	case <-timer.C:
	}

	reply, err := s.replies.generate(ctx, userMsg)
	if err != nil {
		s.logger.Error("reply generation failed", zap.String("session_id", userMsg.SessionID), zap.Error(err))
		s.finish(userMsg.SessionID, p, chat.Message{}, err)
		return
	}

	s.mu.Lock()
	if s.pending[userMsg.SessionID] != p {
		// Reset won the race; the transcript no longer holds userMsg.
		s.mu.Unlock()
		s.finish(userMsg.SessionID, p, chat.Message{}, ErrReplyCancelled)
		return
	}
	s.messages[userMsg.SessionID] = append(s.messages[userMsg.SessionID], reply)
	delete(s.pending, userMsg.SessionID)
	s.mu.Unlock()

	metrics.Messages.WithLabelValues(reply.Role()).Inc()
	metrics.IntentMatches.WithLabelValues(reply.Intent).Inc()
	metrics.ReplyLatency.Observe(time.Since(start).Seconds())
	s.logger.Debug("reply sent",
		zap.String("session_id", userMsg.SessionID),
		zap.String("intent", reply.Intent),
		zap.Duration("elapsed", time.Since(start)))

	p.resolve(reply, nil)
}

// finish records a failed or cancelled reply and frees the session's slot.
func (s *Service) finish(sessionID string, p *PendingReply, reply chat.Message, err error) {
	s.mu.Lock()
	if s.pending[sessionID] == p {
		delete(s.pending, sessionID)
	}
	s.mu.Unlock()
	p.resolve(reply, err)
}

func greetingMessage(sessionID string, p profile.Profile) chat.Message {
	text := p.Greeting
	if text == "" {
		text = "Hi! How can I help you get around today?"
	}
	return chat.Message{
		ID:          uuid.NewString(),
		SessionID:   sessionID,
		Text:        text,
		IsUser:      false,
		Timestamp:   time.Now().UTC(),
		Intent:      string(intent.Greeting),
		Suggestions: append([]string(nil), p.Suggestions...),
	}
}

// PendingReply is a reply the assistant is still typing.
type PendingReply struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
	reply  chat.Message
	err    error
}

func (p *PendingReply) resolve(reply chat.Message, err error) {
	p.once.Do(func() {
		p.reply = reply
		p.err = err
		close(p.done)
	})
}

// Done is closed once the reply is appended, failed, or was cancelled.
func (p *PendingReply) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the reply is ready or ctx ends. Giving up on the wait
// does not cancel the reply; it still lands in the transcript. Use
// Service.Reply to tie the reply to a request's lifetime.
func (p *PendingReply) Wait(ctx context.Context) (chat.Message, error) {
	select {
	case <-ctx.Done():
		return chat.Message{}, ctx.Err()
	case <-p.done:
		return p.reply, p.err
	}
}

// WaitOrCancel is Wait, except that giving up cancels the reply.
func (p *PendingReply) WaitOrCancel(ctx context.Context) (chat.Message, error) {
	reply, err := p.Wait(ctx)
	if err != nil && ctx.Err() != nil {
		p.cancel()
		<-p.done
		// The timer may have fired before the cancel landed.
		if p.err == nil {
			return p.reply, nil
		}
	}
	return reply, err
}
