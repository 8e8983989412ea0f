package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestParseEnvironment_Defaults(t *testing.T) {
	conf, err := ParseEnvironment(map[string]string{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := Config{
		Logger: Logger{Level: slog.LevelInfo, Format: "text"},
		HTTP: HTTP{
			Address:         ":3000",
			BasePath:        "/",
			MaxBodyBytes:    1 << 20,
			ShutdownTimeout: 10 * time.Second,
		},
		Form:    Form{Renderer: "vanilla", Mode: "all", UnknownTypes: "skip", EchoPasswords: true},
		Metrics: Metrics{Enabled: true, Path: "/metrics"},
	}
	if diff := cmp.Diff(want, *conf); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseEnvironment_Overrides(t *testing.T) {
	conf, err := ParseEnvironment(map[string]string{
		"DYNAMICFORM_LOGGER_LEVEL":          "debug",
		"DYNAMICFORM_HTTP_ADDRESS":          "127.0.0.1:8080",
		"DYNAMICFORM_HTTP_TRUSTED_ORIGINS":  "https://a.example,https://b.example",
		"DYNAMICFORM_FORM_DESCRIPTOR":       "signup.yaml",
		"DYNAMICFORM_FORM_CSS_FRAMEWORK":    "bootstrap",
		"DYNAMICFORM_FORM_UNKNOWN_TYPES":    "reject",
		"DYNAMICFORM_FORM_ECHO_PASSWORDS":   "false",
		"DYNAMICFORM_METRICS_ENABLED":       "false",
		"DYNAMICFORM_HTTP_SHUTDOWN_TIMEOUT": "2s",
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if conf.Logger.Level != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v", conf.Logger.Level)
	}
	if conf.HTTP.Address != "127.0.0.1:8080" || conf.HTTP.ShutdownTimeout != 2*time.Second {
		t.Fatalf("unexpected http config %+v", conf.HTTP)
	}
	if diff := cmp.Diff([]string{"https://a.example", "https://b.example"}, conf.HTTP.TrustedOrigins); diff != "" {
		t.Fatalf("origins mismatch (-want +got):\n%s", diff)
	}
	if conf.Form.Descriptor != "signup.yaml" || conf.Form.CSSFramework != "bootstrap" || conf.Form.UnknownTypes != "reject" {
		t.Fatalf("unexpected form config %+v", conf.Form)
	}
	if conf.Form.EchoPasswords {
		t.Fatalf("expected password echo disabled")
	}
	if conf.Metrics.Enabled {
		t.Fatalf("expected metrics disabled")
	}
}

func TestParseEnvironment_Invalid(t *testing.T) {
	if _, err := ParseEnvironment(map[string]string{"DYNAMICFORM_HTTP_MAX_BODY_BYTES": "lots"}); err == nil {
		t.Fatalf("expected parse error")
	}
}
