package observability

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo)

	log.Info("anchors extracted", String("document", "source.pdf"), Int("count", 3))

	out := buf.String()
	for _, want := range []string{"anchors extracted", "document=source.pdf", "count=3"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q missing %q", out, want)
		}
	}
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelWarn)

	log.Debug("hidden")
	log.Info("hidden too")
	log.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("low-level records leaked: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Fatalf("warn record missing: %q", out)
	}
}

func TestCollectorAccumulates(t *testing.T) {
	c := NewCollector(nil)
	c.Add(Diagnostic{Stage: "link", Severity: SeverityWarn, Message: "dropped"})
	c.Add(Diagnostic{Stage: "filter", Severity: SeverityWarn, Message: "unmatched", AnchorID: "M999"})

	if c.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", c.Count())
	}
	records := c.Records()
	if records[1].AnchorID != "M999" {
		t.Fatalf("records[1].AnchorID = %q, want M999", records[1].AnchorID)
	}
}

func TestCollectorMirrorsToLogger(t *testing.T) {
	var buf bytes.Buffer
	c := NewCollector(New(&buf, slog.LevelInfo))

	c.Add(Diagnostic{Stage: "transfer", Severity: SeverityWarn, Message: "geometry clipped", AnchorID: "M7"})

	out := buf.String()
	if !strings.Contains(out, "geometry clipped") || !strings.Contains(out, "M7") {
		t.Fatalf("diagnostic not mirrored to logger: %q", out)
	}
	if !strings.Contains(out, "WARN") {
		t.Fatalf("severity not mapped to log level: %q", out)
	}
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{Stage: "filter", Message: "anchor not present in target", AnchorID: "M999"}
	got := d.String()
	if got != "[filter] anchor not present in target (anchor M999)" {
		t.Fatalf("String() = %q", got)
	}
}
