package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server     ServerConfig
	Log        LogConfig
	Chat       ChatConfig
	Navigation NavigationConfig
	RateLimit  RateLimitConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	chat, err := loadChatConfig()
	if err != nil {
		return nil, err
	}

	nav, err := loadNavigationConfig()
	if err != nil {
		return nil, err
	}

	limit, err := loadRateLimitConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:     server,
		Log:        loadLogConfig(),
		Chat:       chat,
		Navigation: nav,
		RateLimit:  limit,
	}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr        string
	CORSOrigins []string
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	origins := splitList(getEnvOrDefault("CORS_ORIGINS", "*"))

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return ServerConfig{Addr: port, CORSOrigins: origins}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port, CORSOrigins: origins}, nil
}

// LogConfig 描述日志输出。
type LogConfig struct {
	Level  string
	Format string
}

func loadLogConfig() LogConfig {
	return LogConfig{
		Level:  getEnvOrDefault("LOG_LEVEL", "info"),
		Format: getEnvOrDefault("LOG_FORMAT", "json"),
	}
}

// ChatConfig 描述聊天助手行为。
type ChatConfig struct {
	TypingDelay    time.Duration
	DefaultProfile string
}

func loadChatConfig() (ChatConfig, error) {
	delay, err := parseDurationEnv("TYPING_DELAY", 1500*time.Millisecond)
	if err != nil {
		return ChatConfig{}, err
	}
	if delay < 0 {
		return ChatConfig{}, fmt.Errorf("invalid TYPING_DELAY value %q: must not be negative", delay)
	}

	return ChatConfig{
		TypingDelay:    delay,
		DefaultProfile: getEnvOrDefault("DEFAULT_PROFILE", "gta-navigator"),
	}, nil
}

// NavigationConfig 描述导航进度模拟。
type NavigationConfig struct {
	Tick time.Duration
	Step int
}

func loadNavigationConfig() (NavigationConfig, error) {
	tick, err := parseDurationEnv("NAV_TICK", time.Second)
	if err != nil {
		return NavigationConfig{}, err
	}
	if tick <= 0 {
		return NavigationConfig{}, fmt.Errorf("invalid NAV_TICK value %q: must be positive", tick)
	}

	step := 2
	if override, err := parseOptionalIntEnv("NAV_STEP"); err != nil {
		return NavigationConfig{}, err
	} else if override != nil {
		if *override < 1 || *override > 100 {
			return NavigationConfig{}, fmt.Errorf("invalid NAV_STEP value %d: must be within 1..100", *override)
		}
		step = *override
	}

	return NavigationConfig{Tick: tick, Step: step}, nil
}

// RateLimitConfig 描述按客户端的限流设置，RPS 为 0 表示关闭。
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// Enabled 表示是否启用限流。
func (c RateLimitConfig) Enabled() bool {
	return c.RPS > 0
}

func loadRateLimitConfig() (RateLimitConfig, error) {
	rps := 5.0
	if override, err := parseOptionalFloatEnv("RATE_LIMIT_RPS"); err != nil {
		return RateLimitConfig{}, err
	} else if override != nil {
		rps = *override
	}

	burst := 10
	if override, err := parseOptionalIntEnv("RATE_LIMIT_BURST"); err != nil {
		return RateLimitConfig{}, err
	} else if override != nil {
		burst = *override
	}

	if rps < 0 || burst < 0 {
		return RateLimitConfig{}, fmt.Errorf("rate limit values must not be negative")
	}
	if rps > 0 && burst == 0 {
		burst = 1
	}

	return RateLimitConfig{RPS: rps, Burst: burst}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	// 纯数字按毫秒处理，便于 TYPING_DELAY=1500 这种写法。
	if ms, err := strconv.Atoi(raw); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}

	val, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
