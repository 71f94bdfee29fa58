package coach

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSession_GreetsFirst(t *testing.T) {
	s := NewSession(time.Millisecond)
	defer s.Close()

	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, RoleAI, msgs[0].Role)
	assert.Equal(t, Greeting, msgs[0].Text)
}

func TestSession_ReplyArrivesAfterDelay(t *testing.T) {
	s := NewSession(20 * time.Millisecond)
	defer s.Close()

	sent, err := s.Send("  Is BPC-157 safe?  ")
	require.NoError(t, err)
	assert.Equal(t, "Is BPC-157 safe?", sent.Text)

	msgs := s.Messages()
	require.Len(t, msgs, 2, "reply must not be immediate")
	assert.Equal(t, RoleUser, msgs[1].Role)

	require.Eventually(t, func() bool { return len(s.Messages()) == 3 }, time.Second, 5*time.Millisecond)
	last := s.Messages()[2]
	assert.Equal(t, RoleAI, last.Role)
	assert.Equal(t, DefaultReply, last.Text)
}

func TestSession_EmptyMessage(t *testing.T) {
	s := NewSession(time.Millisecond)
	defer s.Close()

	_, err := s.Send("   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Len(t, s.Messages(), 1)
}

func TestSession_CloseCancelsPendingReply(t *testing.T) {
	s := NewSession(time.Hour)
	_, err := s.Send("hello")
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		s.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close did not cancel the pending reply")
	}

	assert.Len(t, s.Messages(), 2)
	_, err = s.Send("anyone there?")
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestSession_CustomReplier(t *testing.T) {
	echo := func(_ context.Context, text string) string { return "you said: " + text }
	s := NewSession(time.Millisecond, WithReplier(echo))
	defer s.Close()

	_, err := s.Send("jawline")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(s.Messages()) == 3 }, time.Second, time.Millisecond)
	assert.Equal(t, "you said: jawline", s.Messages()[2].Text)
}

func TestHub_SessionsPerDevice(t *testing.T) {
	h := NewHub(time.Hour)
	defer h.Close()

	a := h.Session("a")
	assert.Same(t, a, h.Session("a"))
	assert.NotSame(t, a, h.Session("b"))

	_, err := a.Send("hi")
	require.NoError(t, err)

	h.End("a")
	fresh := h.Session("a")
	assert.NotSame(t, a, fresh)
	assert.Len(t, fresh.Messages(), 1)

	h.End("missing")
}

func TestArticles(t *testing.T) {
	list := Articles()
	require.Len(t, list, 4)
	list[0].Title = "changed"
	assert.Equal(t, "Peptides 101: A Complete Guide", Articles()[0].Title)
}
