package config

import "testing"

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("OTEL_ENABLED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr() != ":9090" {
		t.Fatalf("unexpected addr %s", cfg.Addr())
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins %v", cfg.CORSOrigins)
	}
	if !cfg.OTelEnabled || cfg.RabbitExchange != "salon.events" || cfg.RateLimitPerMin != 60 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.IsProduction() {
		t.Fatal("default environment is development")
	}
}
