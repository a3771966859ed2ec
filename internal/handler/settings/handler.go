package settings

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gtanav/assistant/backend/internal/model/chat"
	model "github.com/gtanav/assistant/backend/internal/model/settings"
	settingsservice "github.com/gtanav/assistant/backend/internal/service/settings"
	"github.com/gtanav/assistant/backend/pkg/utils"
)

// Sessions resolves chat sessions.
type Sessions interface {
	GetSession(ctx context.Context, sessionID string) (chat.Session, error)
}

// Handler 设置页的HTTP处理器
type Handler struct {
	store    *settingsservice.Store
	sessions Sessions
}

// New 创建设置处理器
func New(store *settingsservice.Store, sessions Sessions) *Handler {
	return &Handler{store: store, sessions: sessions}
}

// RegisterRoutes 注册设置路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/settings/{sessionID}", h.handleGet)
	r.Put("/settings/{sessionID}", h.handlePut)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.store.Get(sessionID))
}

// handlePut 整体替换设置，校验失败返回 400
func (h *Handler) handlePut(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}

	var payload model.Settings
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := h.store.Update(sessionID, payload)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, saved)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID := chi.URLParam(r, "sessionID")
	if _, err := h.sessions.GetSession(r.Context(), sessionID); err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return "", false
	}
	return sessionID, true
}
