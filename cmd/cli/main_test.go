package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("failed to read stdout: %v", err)
	}
	return buf.String()
}

func TestPrintJSON(t *testing.T) {
	out := captureOutput(t, func() {
		printJSON(struct {
			A int `json:"a"`
		}{A: 1})
	})

	expected := "{\n  \"a\": 1\n}\n"
	if out != expected {
		t.Fatalf("unexpected json output:\n%s", out)
	}
}

func TestAppendEvent(t *testing.T) {
	dir := t.TempDir()

	event := feedEvent{
		ID:        "e1",
		Seq:       3,
		EventType: "loan.created",
		Payload:   json.RawMessage(`{"loan_id":0}`),
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	if err := appendEvent(dir, event); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := appendEvent(dir, event); err != nil {
		t.Fatalf("append again: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "loan_created.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	var got feedEvent
	if err := json.Unmarshal([]byte(lines[0]), &got); err != nil {
		t.Fatalf("parse line: %v", err)
	}
	if got.Seq != 3 || got.EventType != "loan.created" {
		t.Fatalf("unexpected event line: %+v", got)
	}
}
