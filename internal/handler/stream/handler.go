package stream

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/gtanav/assistant/backend/internal/model/chat"
	chatService "github.com/gtanav/assistant/backend/internal/service/chat"
	"github.com/gtanav/assistant/backend/pkg/utils"
)

// SSE event names, in the order a client sees them.
const (
	EventUser    = "user"
	EventTyping  = "typing"
	EventMessage = "message"
	EventEnd     = "end"
	EventError   = "error"
)

// Handler streams a chat exchange over Server-Sent Events
type Handler struct {
	chatSvc *chatService.Service
	logger  *zap.Logger
}

// New creates a new stream handler
func New(chatSvc *chatService.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{chatSvc: chatSvc, logger: logger.Named("stream")}
}

// StreamResponse represents a streaming response chunk
type StreamResponse struct {
	Event     string        `json:"event"`
	SessionID string        `json:"sessionId,omitempty"`
	Message   *chat.Message `json:"message,omitempty"`
	Typing    bool          `json:"typing,omitempty"`
	Finished  bool          `json:"finished,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// RegisterRoutes mounts the stream endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stream/{sessionID}", h.handleStream)
}

// handleStream submits ?message= when present, then streams the typing
// indicator and the reply. Without ?message= it streams whatever reply is
// already pending. Disconnecting cancels the reply.
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	query := r.URL.Query()
	_, hasMessage := query["message"]
	text := query.Get("message")

	if hasMessage && strings.TrimSpace(text) == "" {
		utils.RespondError(w, http.StatusBadRequest, "message query parameter must not be blank")
		return
	}
	if _, err := h.chatSvc.GetSession(r.Context(), sessionID); err != nil {
		utils.RespondError(w, chatService.HTTPStatus(err), err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	if err := h.HandleStreamRequest(r.Context(), w, flusher, sessionID, text); err != nil {
		h.logger.Warn("stream ended with error", zap.String("session_id", sessionID), zap.Error(err))
	}
}

// HandleStreamRequest runs one exchange on an open SSE response.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, sessionID, text string) error {
	// Submit before writing headers so a rejected message still gets a status code.
	var (
		userMsg *chat.Message
		pending *chatService.PendingReply
	)
	if text != "" {
		msg, p, err := h.chatSvc.Submit(ctx, sessionID, text)
		if err != nil {
			utils.RespondError(w, chatService.HTTPStatus(err), err.Error())
			return err
		}
		userMsg, pending = &msg, p
	}

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	if userMsg != nil {
		if err := h.send(w, flusher, StreamResponse{Event: EventUser, SessionID: sessionID, Message: userMsg}); err != nil {
			return err
		}
	} else if !h.chatSvc.Typing(sessionID) {
		return h.send(w, flusher, StreamResponse{Event: EventEnd, SessionID: sessionID, Finished: true})
	}

	if err := h.send(w, flusher, StreamResponse{Event: EventTyping, SessionID: sessionID, Typing: true}); err != nil {
		return err
	}

	var (
		reply chat.Message
		err   error
	)
	if pending != nil {
		reply, err = pending.WaitOrCancel(ctx)
	} else {
		reply, err = h.chatSvc.Reply(ctx, sessionID)
	}

	switch {
	case errors.Is(err, chatService.ErrNoPendingReply):
		// Landed between the Typing check and Reply.
	case err != nil:
		if ctx.Err() != nil {
			return err
		}
		_ = h.send(w, flusher, StreamResponse{Event: EventError, SessionID: sessionID, Error: err.Error()})
		return err
	default:
		if err := h.send(w, flusher, StreamResponse{Event: EventMessage, SessionID: sessionID, Message: &reply}); err != nil {
			return err
		}
	}

	h.logger.Debug("stream completed", zap.String("session_id", sessionID))
	return h.send(w, flusher, StreamResponse{Event: EventEnd, SessionID: sessionID, Finished: true})
}

func (h *Handler) send(w http.ResponseWriter, flusher http.Flusher, resp StreamResponse) error {
	return utils.SendSSEEvent(w, flusher, resp.Event, resp)
}
