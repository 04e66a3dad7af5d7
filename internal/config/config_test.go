package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Host != "127.0.0.1" || cfg.Port != "8000" {
		t.Fatalf("default bind: %s:%s", cfg.Host, cfg.Port)
	}
	if cfg.Addr() != "127.0.0.1:8000" {
		t.Fatalf("Addr = %q", cfg.Addr())
	}
	if cfg.GinMode != "release" || cfg.LogLevel != "info" {
		t.Fatalf("defaults: mode=%s level=%s", cfg.GinMode, cfg.LogLevel)
	}
	if cfg.DBPath != "messager.db" {
		t.Fatalf("db path: %s", cfg.DBPath)
	}
	if cfg.ReadTimeout != 15*time.Second {
		t.Fatalf("read timeout: %v", cfg.ReadTimeout)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HOST", "0.0.0.0")
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_LEVEL", "warning") // normalized to warn
	t.Setenv("GIN_MODE", "bogus")    // normalized to release
	t.Setenv("RATE_RPS", "2.5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr() != "0.0.0.0:9000" {
		t.Fatalf("Addr = %q", cfg.Addr())
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("log level not normalized: %s", cfg.LogLevel)
	}
	if cfg.GinMode != "release" {
		t.Fatalf("gin mode not normalized: %s", cfg.GinMode)
	}
	if cfg.RateRPS != 2.5 {
		t.Fatalf("rate rps: %v", cfg.RateRPS)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("cors origins: %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoad_Validation(t *testing.T) {
	cases := map[string]string{
		"READ_TIMEOUT":            "-1s",
		"MAX_HEADER_BYTES":        "-5",
		"RATE_BURST":              "0",
		"OTEL_TRACES_SAMPLER_ARG": "1.5",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			if _, err := Load(); err == nil {
				t.Fatalf("%s=%s should fail validation", key, val)
			}
		})
	}
}

func TestHelpers(t *testing.T) {
	t.Setenv("SOME_BOOL", "yes")
	if !getbool("SOME_BOOL", false) {
		t.Fatalf("getbool yes")
	}
	t.Setenv("SOME_BOOL", "off")
	if getbool("SOME_BOOL", true) {
		t.Fatalf("getbool off")
	}
	t.Setenv("SOME_BOOL", "maybe")
	if !getbool("SOME_BOOL", true) {
		t.Fatalf("getbool must keep the default on unrecognized values")
	}
	t.Setenv("SOME_DUR", "90s")
	if getdur("SOME_DUR", 0) != 90*time.Second {
		t.Fatalf("getdur")
	}
	t.Setenv("SOME_DUR", "not a duration")
	if getdur("SOME_DUR", time.Minute) != time.Minute {
		t.Fatalf("getdur fallback")
	}
	if got := splitCSV(" a, ,b ,"); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("splitCSV: %v", got)
	}
}
