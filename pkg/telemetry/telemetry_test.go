package telemetry

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gremlin-hq/polyglot/pkg/config"
	"gremlin-hq/polyglot/pkg/telemetry/health"
)

func TestNew(t *testing.T) {
	cfg := config.Default().Telemetry
	cfg.Metrics.Enabled = true
	cfg.Metrics.TextfilePath = filepath.Join(t.TempDir(), "polyglot.prom")

	var logs bytes.Buffer
	tel, err := New(&cfg, &logs, health.NewVersionInfo("1.0.0", "abc", "today"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tel.Logger().Info("hello", "translated", "g.V('secret')")
	if !strings.Contains(logs.String(), "g.V('***')") {
		t.Errorf("logs = %q, want redacted literal", logs.String())
	}

	tel.Metrics().ObserveTranslation("python", time.Millisecond, 0, nil)
	tel.Health().RegisterCheck("watcher", func(context.Context) error { return nil })

	srv := httptest.NewServer(tel.Handler())
	defer srv.Close()
	for path, want := range map[string]int{"/metrics": 200, "/ready": 200, "/health": 200, "/version": 200} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != want {
			t.Errorf("GET %s = %d, want %d", path, resp.StatusCode, want)
		}
	}

	if err := tel.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	b, err := os.ReadFile(cfg.Metrics.TextfilePath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `polyglot_translations_total{outcome="success",target="python"} 1`) {
		t.Errorf("textfile = %s", b)
	}
}

func TestNew_InvalidLogging(t *testing.T) {
	cfg := config.Default().Telemetry
	cfg.Logging.Level = "loud"
	if _, err := New(&cfg, nil, health.VersionInfo{}); err == nil {
		t.Error("New() with an invalid level returned nil error")
	}
}
