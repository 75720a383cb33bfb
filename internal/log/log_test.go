package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("decode %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestLoggerStampsComponentOnce(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Format: "json", Component: ComponentStorage, Output: &buf})

	l.Info("saved")
	l.WithComponent(ComponentWorker).Info("synced")

	lines := decodeLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %s", len(lines), buf.String())
	}
	if lines[0][FieldComponent] != ComponentStorage {
		t.Errorf("first line component = %v", lines[0][FieldComponent])
	}
	if lines[1][FieldComponent] != ComponentWorker {
		t.Errorf("second line component = %v", lines[1][FieldComponent])
	}
	if strings.Count(buf.String(), `"component"`) != 2 {
		t.Errorf("component attribute repeated: %s", buf.String())
	}
}

func TestLoggerLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelWarn, Format: "text", Output: &buf})
	l.Info("hidden")
	l.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, false},
		{"WARN", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelDebug, Format: "json", Component: ComponentHTTP, Output: &buf})

	h := Middleware(l)(RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnprocessableEntity)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/expenses?x=1", nil))

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	line := lines[0]
	if line["level"] != "WARN" {
		t.Errorf("level = %v, want WARN", line["level"])
	}
	if line[FieldStatusCode] != float64(http.StatusUnprocessableEntity) {
		t.Errorf("status = %v", line[FieldStatusCode])
	}
	if line[FieldPath] != "/expenses" || line[FieldQuery] != "x=1" {
		t.Errorf("path/query = %v %v", line[FieldPath], line[FieldQuery])
	}
}

func TestFromContextFallback(t *testing.T) {
	l := FromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	if l == nil || l.Component() != "unknown" {
		t.Fatalf("unexpected fallback logger: %+v", l)
	}
}
