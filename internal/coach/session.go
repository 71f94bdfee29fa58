// Package coach keeps the per-device coach chat. Replies are delivered after
// a delay by a tracked task that is cancelled when the session closes.
package coach

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

var (
	ErrEmptyMessage  = errors.New("message is empty")
	ErrSessionClosed = errors.New("coach session closed")
)

const (
	Greeting     = "Hi! I'm your LooksMax AI Coach. Ask me anything about peptides, training, or maximizing your results."
	DefaultReply = "That's a great question! Based on your goals and scan results, I'd recommend focusing on consistent protocols and tracking your progress over time."
)

const DefaultReplyDelay = time.Second

type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

type Message struct {
	Role   Role      `json:"role"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sentAt"`
}

// Replier produces the coach answer to a user message.
type Replier func(ctx context.Context, userText string) string

func cannedReply(context.Context, string) string { return DefaultReply }

type Session struct {
	delay   time.Duration
	replier Replier

	mu       sync.Mutex
	messages []Message
	closed   bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type Option func(*Session)

func WithReplier(r Replier) Option {
	return func(s *Session) { s.replier = r }
}

func NewSession(delay time.Duration, opts ...Option) *Session {
	if delay <= 0 {
		delay = DefaultReplyDelay
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		delay:    delay,
		replier:  cannedReply,
		messages: []Message{{Role: RoleAI, Text: Greeting, SentAt: time.Now().UTC()}},
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send records the user message and schedules the coach reply.
func (s *Session) Send(text string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Message{}, ErrSessionClosed
	}
	msg := Message{Role: RoleUser, Text: text, SentAt: time.Now().UTC()}
	s.messages = append(s.messages, msg)

	s.wg.Add(1)
	go s.replyLater(text)
	return msg, nil
}

func (s *Session) replyLater(userText string) {
	defer s.wg.Done()

	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-s.ctx.Done():
		return
	}

	reply := s.replier(s.ctx, userText)
	if s.ctx.Err() != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.messages = append(s.messages, Message{Role: RoleAI, Text: reply, SentAt: time.Now().UTC()})
}

// Messages returns a copy of the transcript, oldest first.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.messages...)
}

// Close cancels pending replies and waits for their tasks to exit.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
	s.wg.Wait()
}
