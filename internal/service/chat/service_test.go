package chat_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/gtanav/assistant/backend/internal/analysis/intent"
	"github.com/gtanav/assistant/backend/internal/catalog"
	"github.com/gtanav/assistant/backend/internal/model/profile"
	chat "github.com/gtanav/assistant/backend/internal/service/chat"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newService(t *testing.T, delay time.Duration) *chat.Service {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)

	svc, err := chat.NewService(context.Background(),
		profile.NewMemoryStore(profile.Seed()),
		intent.New(intent.KnowledgeFrom(c)),
		chat.Options{TypingDelay: delay})
	require.NoError(t, err)
	t.Cleanup(svc.Close)
	return svc
}

func TestServiceGetSession(t *testing.T) {
	svc := newService(t, 0)
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "brampton")
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	got, err := svc.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetSession err: %v", err)
	}

	if got.ID != session.ID {
		t.Fatalf("unexpected session ID: got %s want %s", got.ID, session.ID)
	}
	if got.ProfileID != "brampton" {
		t.Fatalf("unexpected profile ID: got %s", got.ProfileID)
	}
}

func TestServiceGetSessionNotFound(t *testing.T) {
	svc := newService(t, 0)

	if _, err := svc.GetSession(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for missing session")
	}
}

func TestCreateSessionValidatesProfile(t *testing.T) {
	svc := newService(t, 0)
	ctx := context.Background()

	_, err := svc.CreateSession(ctx, "")
	assert.ErrorIs(t, err, chat.ErrProfileRequired)

	_, err = svc.CreateSession(ctx, "nowhere")
	assert.ErrorIs(t, err, chat.ErrProfileNotFound)
}

func TestCreateSessionSeedsGreeting(t *testing.T) {
	svc := newService(t, 0)
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "brampton")
	require.NoError(t, err)

	transcript, err := svc.Transcript(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, transcript, 1)
	assert.False(t, transcript[0].IsUser)
	assert.Contains(t, transcript[0].Text, "Brampton assistant")
	assert.Len(t, transcript[0].Suggestions, 4)
}

func TestSubmitRejectsBlankText(t *testing.T) {
	svc := newService(t, 0)
	ctx := context.Background()
	session, err := svc.CreateSession(ctx, "gta-navigator")
	require.NoError(t, err)

	for _, text := range []string{"", "   ", "\n\t "} {
		_, _, err := svc.Submit(ctx, session.ID, text)
		assert.ErrorIs(t, err, chat.ErrEmptyMessage)
	}

	transcript, err := svc.Transcript(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, transcript, 1, "blank input must not create messages")
	assert.False(t, svc.Typing(session.ID))
}

func TestSubmitUnknownSession(t *testing.T) {
	svc := newService(t, 0)
	_, _, err := svc.Submit(context.Background(), "missing", "weather")
	assert.ErrorIs(t, err, chat.ErrSessionNotFound)
}

func TestConverseAppendsReplyInOrder(t *testing.T) {
	svc := newService(t, 0)
	ctx := context.Background()
	session, err := svc.CreateSession(ctx, "gta-navigator")
	require.NoError(t, err)

	userMsg, reply, err := svc.Converse(ctx, session.ID, "  Brampton to CN Tower  ")
	require.NoError(t, err)

	assert.True(t, userMsg.IsUser)
	assert.Equal(t, "Brampton to CN Tower", userMsg.Text)
	assert.False(t, reply.IsUser)
	assert.Equal(t, string(intent.Route), reply.Intent)
	assert.Contains(t, reply.Text, "Brampton")
	assert.Contains(t, reply.Text, "CN Tower")
	assert.NotEmpty(t, reply.Suggestions)
	assert.NotEmpty(t, reply.Links)

	transcript, err := svc.Transcript(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, transcript, 3)
	assert.Equal(t, userMsg.ID, transcript[1].ID)
	assert.Equal(t, reply.ID, transcript[2].ID)
	assert.False(t, transcript[2].Timestamp.Before(transcript[1].Timestamp))
}

func TestSubmitWhileTypingIsRejected(t *testing.T) {
	svc := newService(t, time.Hour)
	ctx := context.Background()
	session, err := svc.CreateSession(ctx, "gta-navigator")
	require.NoError(t, err)

	_, pending, err := svc.Submit(ctx, session.ID, "weather")
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.True(t, svc.Typing(session.ID))

	_, _, err = svc.Submit(ctx, session.ID, "traffic")
	assert.ErrorIs(t, err, chat.ErrReplyPending)
}

func TestResetCancelsPendingReply(t *testing.T) {
	svc := newService(t, time.Hour)
	ctx := context.Background()
	session, err := svc.CreateSession(ctx, "gta-navigator")
	require.NoError(t, err)

	_, pending, err := svc.Submit(ctx, session.ID, "weather")
	require.NoError(t, err)

	require.NoError(t, svc.Reset(ctx, session.ID))

	waitCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	_, err = pending.Wait(waitCtx)
	assert.ErrorIs(t, err, chat.ErrReplyCancelled)

	transcript, err := svc.Transcript(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, transcript, 1)
	assert.False(t, transcript[0].IsUser)
	assert.False(t, svc.Typing(session.ID))

	_, _, err = svc.Submit(ctx, session.ID, "traffic")
	assert.NoError(t, err, "slot must be free after reset")
}

func TestWaitHonoursContext(t *testing.T) {
	svc := newService(t, time.Hour)
	ctx := context.Background()
	session, err := svc.CreateSession(ctx, "gta-navigator")
	require.NoError(t, err)

	_, pending, err := svc.Submit(ctx, session.ID, "weather")
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = pending.Wait(waitCtx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.True(t, svc.Typing(session.ID), "giving up on Wait must not cancel the reply")
}

func TestTypingDelayIsApplied(t *testing.T) {
	delay := 60 * time.Millisecond
	svc := newService(t, delay)
	ctx := context.Background()
	session, err := svc.CreateSession(ctx, "gta-navigator")
	require.NoError(t, err)

	start := time.Now()
	_, reply, err := svc.Converse(ctx, session.ID, "weather")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), delay)
	assert.Equal(t, string(intent.Weather), reply.Intent)
}

func TestCloseCancelsEverything(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)
	svc, err := chat.NewService(context.Background(),
		profile.NewMemoryStore(profile.Seed()),
		intent.New(intent.KnowledgeFrom(c)),
		chat.Options{TypingDelay: time.Hour})
	require.NoError(t, err)

	ctx := context.Background()
	session, err := svc.CreateSession(ctx, "gta-navigator")
	require.NoError(t, err)
	_, pending, err := svc.Submit(ctx, session.ID, "weather")
	require.NoError(t, err)

	svc.Close()

	select {
	case <-pending.Done():
	default:
		t.Fatal("pending reply must be resolved after Close")
	}
	_, err = pending.Wait(ctx)
	assert.ErrorIs(t, err, chat.ErrReplyCancelled)
}

func TestReplyCancelledWithRequest(t *testing.T) {
	svc := newService(t, time.Hour)
	ctx := context.Background()
	session, err := svc.CreateSession(ctx, "gta-navigator")
	require.NoError(t, err)

	_, _, err = svc.Submit(ctx, session.ID, "weather")
	require.NoError(t, err)

	reqCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = svc.Reply(reqCtx, session.ID)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, svc.Typing(session.ID))

	transcript, err := svc.Transcript(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, transcript, 2, "greeting and user message only")
	assert.True(t, transcript[1].IsUser)
}

func TestReplyWithoutPending(t *testing.T) {
	svc := newService(t, 0)
	ctx := context.Background()
	session, err := svc.CreateSession(ctx, "gta-navigator")
	require.NoError(t, err)

	_, err = svc.Reply(ctx, session.ID)
	assert.ErrorIs(t, err, chat.ErrNoPendingReply)

	_, err = svc.Reply(ctx, "missing")
	assert.ErrorIs(t, err, chat.ErrSessionNotFound)
}

func TestReplyReturnsTypedMessage(t *testing.T) {
	svc := newService(t, 10*time.Millisecond)
	ctx := context.Background()
	session, err := svc.CreateSession(ctx, "gta-navigator")
	require.NoError(t, err)

	_, _, err = svc.Submit(ctx, session.ID, "How is traffic on the 401?")
	require.NoError(t, err)

	reply, err := svc.Reply(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, string(intent.Traffic), reply.Intent)
}
