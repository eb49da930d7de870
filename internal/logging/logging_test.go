package logging

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testStringer string

func (s testStringer) String() string { return string(s) }

func TestInitAndLoggingToFile(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "nested", "ccdbench.log")

	if err := Init(logPath); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	t.Cleanup(func() {
		_ = Close()
	})

	var warnings bytes.Buffer
	prev := SetWarnOutput(&warnings)
	t.Cleanup(func() { SetWarnOutput(prev) })

	LogEvent("hello %s", "world")
	Warn("skipping scene %s", "chain")
	_ = Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "hello world") {
		t.Fatalf("expected LogEvent content, got: %s", content)
	}
	if !strings.Contains(content, "[WARN] skipping scene chain") {
		t.Fatalf("expected Warn content in log file, got: %s", content)
	}
	if !strings.Contains(warnings.String(), "warning: skipping scene chain") {
		t.Fatalf("expected warning echo, got: %s", warnings.String())
	}
}

// capture swaps *target for a pipe and returns a func that restores it and
// returns what was written.
func capture(t *testing.T, target **os.File) func() string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	orig := *target
	*target = w
	return func() string {
		*target = orig
		_ = w.Close()
		data, _ := io.ReadAll(r)
		_ = r.Close()
		return string(data)
	}
}

// TestLogEventLeavesStdoutAlone checks that log lines never reach stdout,
// where reports are rendered.
func TestLogEventLeavesStdoutAlone(t *testing.T) {
	stdout := capture(t, &os.Stdout)
	stderr := capture(t, &os.Stderr)

	if err := Init(filepath.Join(t.TempDir(), "ccdbench.log")); err != nil {
		stdout()
		stderr()
		t.Fatalf("Init error: %v", err)
	}
	LogEvent("loaded %d records", 2)
	_ = Close()

	gotOut := stdout()
	gotErr := stderr()
	log.SetOutput(os.Stderr)
	if gotOut != "" {
		t.Fatalf("expected nothing on stdout, got: %q", gotOut)
	}
	if !strings.Contains(gotErr, "loaded 2 records") {
		t.Fatalf("expected log line on stderr, got: %q", gotErr)
	}
}

func TestBuildRequestMessageDefaults(t *testing.T) {
	msg := buildRequestMessage(" out ", " ", " Vertex-Face!B3:E3 ", map[string]any{"ok": true})
	if !strings.Contains(msg, "[OUT]") {
		t.Fatalf("expected uppercased direction, got: %s", msg)
	}
	if !strings.Contains(msg, "sheet=unknown") {
		t.Fatalf("expected default sheet, got: %s", msg)
	}
	if !strings.Contains(msg, "range=Vertex-Face!B3:E3") {
		t.Fatalf("expected trimmed range, got: %s", msg)
	}
	if !strings.Contains(msg, "payload={\"ok\":true}") {
		t.Fatalf("expected payload json, got: %s", msg)
	}
}

func TestBuildRequestMessageOmitsEmptyRange(t *testing.T) {
	msg := buildRequestMessage("in", "Edge-Edge", "", nil)
	if strings.Contains(msg, "range=") {
		t.Fatalf("expected no range field, got: %s", msg)
	}
	if !strings.Contains(msg, "payload=null") {
		t.Fatalf("expected null payload, got: %s", msg)
	}
}

func TestFormatPayloadVariants(t *testing.T) {
	if got := formatPayload(nil); got != "null" {
		t.Fatalf("nil payload: %s", got)
	}
	if got := formatPayload(" "); got != `""` {
		t.Fatalf("empty string payload: %s", got)
	}
	if got := formatPayload([]byte("hi")); got != "hi" {
		t.Fatalf("byte payload: %s", got)
	}
	if got := formatPayload([]byte{}); got != "[]" {
		t.Fatalf("empty byte payload: %s", got)
	}
	if got := formatPayload(testStringer("ok")); got != "ok" {
		t.Fatalf("stringer payload: %s", got)
	}
}
