package navigation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tmaxmax/go-sse"
	"go.uber.org/zap"

	navservice "github.com/gtanav/assistant/backend/internal/service/navigation"
)

var progressSSEType = sse.Type("progress")

// broker is the part of *sse.Server the publisher needs.
type broker interface {
	Publish(msg *sse.Message, topics ...string) error
}

// Events fans navigation progress out to SSE subscribers, one topic per
// session.
type Events struct {
	srv    *sse.Server
	broker broker
	logger *zap.Logger
}

// NewEvents creates the SSE server. Subscribers pick their topic from the
// {sessionID} route parameter.
func NewEvents(logger *zap.Logger) *Events {
	if logger == nil {
		logger = zap.NewNop()
	}
	srv := &sse.Server{
		OnSession: func(s *sse.Session) (sse.Subscription, bool) {
			return sse.Subscription{
				Client:      s,
				LastEventID: s.LastEventID,
				Topics:      []string{Topic(sessionIDFrom(s.Req))},
			}, true
		},
	}
	return &Events{srv: srv, broker: srv, logger: logger.Named("navigation.events")}
}

// Topic names the SSE topic carrying a session's progress.
func Topic(sessionID string) string {
	return fmt.Sprintf("nav-%s", sessionID)
}

// Publish implements navigation.Publisher.
func (e *Events) Publish(status navservice.Status) {
	data, err := json.Marshal(status)
	if err != nil {
		e.logger.Warn("failed to marshal status", zap.Error(err))
		return
	}

	msg := &sse.Message{Type: progressSSEType}
	msg.AppendData(string(data))

	if err := e.broker.Publish(msg, Topic(status.SessionID)); err != nil {
		e.logger.Debug("publish failed", zap.String("session_id", status.SessionID), zap.Error(err))
	}
}

// Shutdown tells subscribers to go away and closes their connections.
func (e *Events) Shutdown(ctx context.Context) error {
	bye := &sse.Message{Type: sse.Type("close")}
	bye.AppendData("bye")
	_ = e.srv.Publish(bye)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return e.srv.Shutdown(ctx)
}
