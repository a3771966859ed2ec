package profile

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gtanav/assistant/backend/internal/model/profile"
	"github.com/gtanav/assistant/backend/pkg/utils"
)

// Handler 助手配置的HTTP处理器
type Handler struct {
	profiles profile.Store
}

// New 创建profile处理器
func New(profiles profile.Store) *Handler {
	return &Handler{
		profiles: profiles,
	}
}

// RegisterRoutes 注册profile相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/profiles", h.handleListProfiles)
	r.Get("/profiles/default", h.handleDefaultProfile)
	r.Get("/profiles/{profileID}", h.handleGetProfile)
}

// handleListProfiles 列出所有助手配置
func (h *Handler) handleListProfiles(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.profiles.List())
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := h.profiles.FindByID(chi.URLParam(r, "profileID"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "profile not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, p)
}

// handleDefaultProfile 返回未指定 profileId 时新会话使用的配置
func (h *Handler) handleDefaultProfile(w http.ResponseWriter, _ *http.Request) {
	p, ok := h.profiles.Default()
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "no default profile")
		return
	}
	utils.RespondJSON(w, http.StatusOK, p)
}
