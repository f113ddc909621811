package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr     string
	Port           string
	GinMode        string
	DatabaseDriver string
	DatabasePath   string
	DatabaseDSN    string

	JWTSecret string
	TokenTTL  time.Duration

	AIProvider        string
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	OpenAIModel       string
	DeepSeekAPIKey    string
	DeepSeekBaseURL   string
	DeepSeekModel     string
	AITemperature     float64
	AIRequestTimeout  time.Duration
	AIExposeRawOutput bool

	CORSAllowedOrigins []string

	KafkaBrokers       []string
	KafkaMealPlanTopic string
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
// 若工作目录存在 .env 文件，会先加载其中的变量（已存在的环境变量优先）。
func Load() AppConfig {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] skip .env: %v", err)
	}

	port := envOrDefault("PORT", "8080")

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	return AppConfig{
		ListenAddr:     listenAddr,
		Port:           port,
		GinMode:        envOrDefault("GIN_MODE", "release"),
		DatabaseDriver: strings.ToLower(envOrDefault("DATABASE_DRIVER", "sqlite")),
		DatabasePath:   envOrDefault("DATABASE_PATH", "healthmeal.db"),
		DatabaseDSN:    strings.TrimSpace(os.Getenv("DATABASE_DSN")),

		JWTSecret: envOrDefault("JWT_SECRET", "healthmeal-dev-secret"),
		TokenTTL:  durationOrDefault("TOKEN_TTL", 72*time.Hour),

		AIProvider:        strings.ToLower(envOrDefault("AI_PROVIDER", "openai")),
		OpenAIAPIKey:      strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIBaseURL:     envOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:       envOrDefault("OPENAI_MODEL", "gpt-4"),
		DeepSeekAPIKey:    strings.TrimSpace(os.Getenv("DEEPSEEK_API_KEY")),
		DeepSeekBaseURL:   envOrDefault("DEEPSEEK_BASE_URL", "https://api.deepseek.com/v1"),
		DeepSeekModel:     envOrDefault("DEEPSEEK_MODEL", "deepseek-chat"),
		AITemperature:     floatOrDefault("AI_TEMPERATURE", 0.7),
		AIRequestTimeout:  durationOrDefault("AI_REQUEST_TIMEOUT", 3*time.Minute),
		AIExposeRawOutput: boolOrDefault("AI_EXPOSE_RAW_OUTPUT", true),

		CORSAllowedOrigins: listOrDefault("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),

		KafkaBrokers:       listOrDefault("KAFKA_BROKERS", nil),
		KafkaMealPlanTopic: envOrDefault("KAFKA_MEAL_PLAN_TOPIC", "meal-plans"),
	}
}

func envOrDefault(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func durationOrDefault(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		log.Printf("[config] invalid %s=%q, using %s", key, raw, fallback)
		return fallback
	}
	return parsed
}

func floatOrDefault(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %v", key, raw, fallback)
		return fallback
	}
	return parsed
}

func boolOrDefault(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %v", key, raw, fallback)
		return fallback
	}
	return parsed
}

func listOrDefault(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	items := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}
