package links

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gtanav/assistant/backend/internal/service/links"
	"github.com/gtanav/assistant/backend/pkg/utils"
)

// Handler 外部链接（搜索、地图、路线）的HTTP处理器
type Handler struct{}

// New 创建链接处理器
func New() *Handler {
	return &Handler{}
}

// RegisterRoutes 注册链接路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/links", h.handleLinks)
}

// Response 只包含请求参数能生成的链接
type Response struct {
	Search     string `json:"search,omitempty"`
	Maps       string `json:"maps,omitempty"`
	Directions string `json:"directions,omitempty"`
}

// handleLinks q 生成搜索和地图链接，to（可选 from）生成路线链接
func (h *Handler) handleLinks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := strings.TrimSpace(query.Get("q"))
	from := strings.TrimSpace(query.Get("from"))
	to := strings.TrimSpace(query.Get("to"))

	if q == "" && to == "" {
		utils.RespondError(w, http.StatusBadRequest, "q or to is required")
		return
	}

	var resp Response
	if q != "" {
		resp.Search = links.Search(q)
		resp.Maps = links.Maps(q)
	}
	if to != "" {
		resp.Directions = links.Directions(from, to)
	}
	utils.RespondJSON(w, http.StatusOK, resp)
}
