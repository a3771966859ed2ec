package voice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/gtanav/assistant/backend/internal/metrics"
	"github.com/gtanav/assistant/backend/internal/model/navigation"
	chatservice "github.com/gtanav/assistant/backend/internal/service/chat"
	settingsservice "github.com/gtanav/assistant/backend/internal/service/settings"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
	writeTimeout = 10 * time.Second
)

// WebSocketHandler WebSocket语音助手处理器，语音识别由客户端完成，这里只收文本
type WebSocketHandler struct {
	chatSvc  *chatservice.Service
	settings *settingsservice.Store
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewWebSocketHandler 创建WebSocket处理器
func NewWebSocketHandler(chatSvc *chatservice.Service, settings *settingsservice.Store, logger *zap.Logger) *WebSocketHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebSocketHandler{
		chatSvc:  chatSvc,
		settings: settings,
		logger:   logger.Named("websocket"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册WebSocket路由
func (h *WebSocketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// TextMessage 文本消息，语音输入在客户端转写后也走这里
type TextMessage struct {
	Text    string `json:"text"`
	IsVoice bool   `json:"isVoice"`
}

// ConfigMessage 语音播报配置，未设置的字段保持不变
type ConfigMessage struct {
	Enabled         *bool    `json:"enabled,omitempty"`
	Volume          *int     `json:"volume,omitempty"`
	Voice           *string  `json:"voice,omitempty"`
	Speed           *float64 `json:"speed,omitempty"`
	AnnounceTraffic *bool    `json:"announceTraffic,omitempty"`
	AnnounceAlerts  *bool    `json:"announceAlerts,omitempty"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// handleWebSocket 处理WebSocket连接
func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	session, err := h.chatSvc.GetSession(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	metrics.WebSocketConnections.Inc()
	defer metrics.WebSocketConnections.Dec()
	h.logger.Info("connection opened", zap.String("session_id", sessionID))

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	go h.pingLoop(ctx, conn)

	h.sendResult(conn, sessionID, "connected", map[string]any{
		"profile": session.ProfileID,
		"voice":   h.settings.Get(sessionID).Voice,
	})

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("read error", zap.String("session_id", sessionID), zap.Error(err))
			}
			return
		}

		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))

		if msg.SessionID != "" && msg.SessionID != sessionID {
			h.sendError(conn, "session mismatch")
			continue
		}

		h.handleMessage(ctx, conn, sessionID, &msg)
	}
}

func (h *WebSocketHandler) handleMessage(ctx context.Context, conn *websocket.Conn, sessionID string, msg *inboundMessage) {
	switch msg.Type {
	case "text":
		h.handleTextMessage(ctx, conn, sessionID, msg.Data)
	case "config":
		h.handleConfigMessage(conn, sessionID, msg.Data)
	default:
		h.sendError(conn, "unsupported message type: "+msg.Type)
	}
}

func (h *WebSocketHandler) handleTextMessage(ctx context.Context, conn *websocket.Conn, sessionID string, raw json.RawMessage) {
	var text TextMessage
	if err := json.Unmarshal(raw, &text); err != nil {
		h.sendError(conn, "invalid text payload")
		return
	}

	userMsg, pending, err := h.chatSvc.Submit(ctx, sessionID, text.Text)
	if err != nil {
		h.sendError(conn, err.Error())
		return
	}

	h.sendResult(conn, sessionID, "user", map[string]any{"message": userMsg, "isVoice": text.IsVoice})
	h.sendResult(conn, sessionID, "typing", map[string]any{"typing": true})

	reply, err := pending.WaitOrCancel(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			h.sendError(conn, err.Error())
		}
		return
	}

	voice := h.settings.Get(sessionID).Voice
	h.sendResult(conn, sessionID, "message", map[string]any{
		"message": reply,
		"speak":   voice.Enabled,
	})
}

func (h *WebSocketHandler) handleConfigMessage(conn *websocket.Conn, sessionID string, raw json.RawMessage) {
	var cfg ConfigMessage
	if err := json.Unmarshal(raw, &cfg); err != nil {
		h.sendError(conn, "invalid config payload")
		return
	}

	current := h.settings.Get(sessionID)
	current.Voice = applyConfig(current.Voice, cfg)

	saved, err := h.settings.Update(sessionID, current)
	if err != nil {
		h.sendError(conn, err.Error())
		return
	}

	h.logger.Debug("voice config applied",
		zap.String("session_id", sessionID),
		zap.String("voice", saved.Voice.Voice),
		zap.Int("volume", saved.Voice.Volume))

	h.sendResult(conn, sessionID, "config", saved.Voice)
}

func applyConfig(v navigation.VoiceSettings, cfg ConfigMessage) navigation.VoiceSettings {
	if cfg.Enabled != nil {
		v.Enabled = *cfg.Enabled
	}
	if cfg.Volume != nil {
		v.Volume = *cfg.Volume
	}
	if cfg.Voice != nil {
		v.Voice = *cfg.Voice
	}
	if cfg.Speed != nil {
		v.Speed = *cfg.Speed
	}
	if cfg.AnnounceTraffic != nil {
		v.AnnounceTraffic = *cfg.AnnounceTraffic
	}
	if cfg.AnnounceAlerts != nil {
		v.AnnounceAlerts = *cfg.AnnounceAlerts
	}
	return v
}

func (h *WebSocketHandler) sendResult(conn *websocket.Conn, sessionID, kind string, data interface{}) {
	h.write(conn, outgoingMessage{
		Type:      kind,
		SessionID: sessionID,
		Data:      data,
		Timestamp: time.Now().Unix(),
	})
}

func (h *WebSocketHandler) sendError(conn *websocket.Conn, message string) {
	h.write(conn, outgoingMessage{
		Type:      "error",
		Data:      map[string]string{"message": message},
		Timestamp: time.Now().Unix(),
	})
}

func (h *WebSocketHandler) write(conn *websocket.Conn, msg outgoingMessage) {
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(msg); err != nil {
		h.logger.Warn("write failed", zap.String("type", msg.Type), zap.Error(err))
	}
}

// pingLoop 定期发送ping消息；WriteControl 可与 WriteJSON 并发调用
func (h *WebSocketHandler) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}
