package chat

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/gtanav/assistant/backend/internal/model/chat"
	"github.com/gtanav/assistant/backend/internal/model/profile"
	chatService "github.com/gtanav/assistant/backend/internal/service/chat"
	"github.com/gtanav/assistant/backend/pkg/utils"
)

// Handler 聊天服务的HTTP处理器
type Handler struct {
	chatSvc  *chatService.Service
	profiles profile.Store
	logger   *zap.Logger
}

// New 创建聊天处理器
func New(chatSvc *chatService.Service, profiles profile.Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		chatSvc:  chatSvc,
		profiles: profiles,
		logger:   logger.Named("chat"),
	}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Post("/messages", h.handleSubmitMessage)
	r.Get("/sessions/{sessionID}/messages", h.handleTranscript)
	r.Delete("/sessions/{sessionID}/messages", h.handleReset)
}

type createSessionRequest struct {
	ProfileID string `json:"profileId" validate:"max=64"`
}

type submitMessageRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
	Text      string `json:"text" validate:"max=2000"`
}

// SubmitResponse 是 POST /messages 的响应体
type SubmitResponse struct {
	Message chat.Message `json:"message"`
	Typing  bool         `json:"typing"`
}

// TranscriptResponse 是会话消息列表
type TranscriptResponse struct {
	SessionID string         `json:"sessionId"`
	Messages  []chat.Message `json:"messages"`
	Typing    bool           `json:"typing"`
}

// handleCreateSession 创建会话，未指定 profileId 时使用默认配置
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload createSessionRequest
	if r.ContentLength != 0 {
		if err := utils.DecodeJSON(w, r, &payload); err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	profileID := payload.ProfileID
	if profileID == "" {
		if p, ok := h.profiles.Default(); ok {
			profileID = p.ID
		}
	}

	session, err := h.chatSvc.CreateSession(r.Context(), profileID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusCreated, session)
}

// handleSubmitMessage 追加用户消息，回复在后台生成
func (h *Handler) handleSubmitMessage(w http.ResponseWriter, r *http.Request) {
	var payload submitMessageRequest
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	msg, _, err := h.chatSvc.Submit(r.Context(), payload.SessionID, payload.Text)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	h.logger.Debug("message queued", zap.String("session_id", payload.SessionID), zap.String("message_id", msg.ID))
	utils.RespondJSON(w, http.StatusAccepted, SubmitResponse{Message: msg, Typing: true})
}

// handleTranscript 返回会话全部消息
func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	messages, err := h.chatSvc.Transcript(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, TranscriptResponse{
		SessionID: sessionID,
		Messages:  messages,
		Typing:    h.chatSvc.Typing(sessionID),
	})
}

// handleReset 清空会话，只保留问候语
func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := h.chatSvc.Reset(r.Context(), sessionID); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// respondServiceError 将服务层错误映射为HTTP状态码
func respondServiceError(w http.ResponseWriter, err error) {
	utils.RespondError(w, chatService.HTTPStatus(err), err.Error())
}
