package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "LISTEN_ADDR", "DATABASE_DRIVER", "OPENAI_MODEL", "AI_REQUEST_TIMEOUT",
		"AI_EXPOSE_RAW_OUTPUT", "CORS_ALLOWED_ORIGINS", "KAFKA_BROKERS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.ListenAddr != ":8080" {
		t.Fatalf("unexpected listen addr %q", cfg.ListenAddr)
	}
	if cfg.DatabaseDriver != "sqlite" {
		t.Fatalf("unexpected driver %q", cfg.DatabaseDriver)
	}
	if cfg.OpenAIModel != "gpt-4" {
		t.Fatalf("unexpected model %q", cfg.OpenAIModel)
	}
	if cfg.AIRequestTimeout != 3*time.Minute {
		t.Fatalf("unexpected timeout %v", cfg.AIRequestTimeout)
	}
	if !cfg.AIExposeRawOutput {
		t.Fatal("raw output should be exposed by default")
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "http://localhost:3000" {
		t.Fatalf("unexpected origins %v", cfg.CORSAllowedOrigins)
	}
	if len(cfg.KafkaBrokers) != 0 {
		t.Fatalf("expected no brokers, got %v", cfg.KafkaBrokers)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("AI_REQUEST_TIMEOUT", "45s")
	t.Setenv("AI_TEMPERATURE", "0.2")
	t.Setenv("AI_EXPOSE_RAW_OUTPUT", "false")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, ,kafka-2:9092")
	t.Setenv("DATABASE_DRIVER", "Postgres")

	cfg := Load()

	if cfg.ListenAddr != ":9090" {
		t.Fatalf("unexpected listen addr %q", cfg.ListenAddr)
	}
	if cfg.AIRequestTimeout != 45*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.AIRequestTimeout)
	}
	if cfg.AITemperature != 0.2 {
		t.Fatalf("unexpected temperature %v", cfg.AITemperature)
	}
	if cfg.AIExposeRawOutput {
		t.Fatal("expected raw output to be hidden")
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "kafka-2:9092" {
		t.Fatalf("unexpected brokers %v", cfg.KafkaBrokers)
	}
	if cfg.DatabaseDriver != "postgres" {
		t.Fatalf("unexpected driver %q", cfg.DatabaseDriver)
	}
}

func TestLoadFallsBackOnInvalidValues(t *testing.T) {
	t.Setenv("AI_REQUEST_TIMEOUT", "soon")
	t.Setenv("TOKEN_TTL", "-1h")

	cfg := Load()

	if cfg.AIRequestTimeout != 3*time.Minute {
		t.Fatalf("unexpected timeout %v", cfg.AIRequestTimeout)
	}
	if cfg.TokenTTL != 72*time.Hour {
		t.Fatalf("unexpected ttl %v", cfg.TokenTTL)
	}
}
