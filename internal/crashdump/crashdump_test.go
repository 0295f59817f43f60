package crashdump

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()
	path, err := Write(dir, Report{
		Message: "the floor is lava",
		Frames:  []string{"1: game.Loop", "0: main"},
	})
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("report written outside dir: %s", path)
	}
	name := filepath.Base(path)
	if !strings.HasPrefix(name, "crash-") || !strings.HasSuffix(name, ".txt") {
		t.Fatalf("unexpected report filename %q", name)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	content := string(data)
	for _, want := range []string{
		"incident: ",
		"message: the floor is lava",
		"1: game.Loop",
		"0: main",
		"runtime stack:",
		"goroutine",
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("report missing %q:\n%s", want, content)
		}
	}
}

func TestWriteAssignsDistinctIncidentIDs(t *testing.T) {
	dir := t.TempDir()
	a, err := Write(dir, Report{Message: "first"})
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	b, err := Write(dir, Report{Message: "second"})
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if a == b {
		t.Fatalf("two incidents share a report file: %s", a)
	}
}

func TestWritePreservesExplicitFields(t *testing.T) {
	dir := t.TempDir()
	stamp := time.Date(2020, 8, 31, 12, 0, 0, 0, time.UTC)
	path, err := Write(dir, Report{ID: "fixed-id", Time: stamp, Message: "pinned"})
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if filepath.Base(path) != "crash-fixed-id.txt" {
		t.Fatalf("explicit ID not used: %s", path)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "time: 2020-08-31T12:00:00Z") {
		t.Fatalf("explicit time not used:\n%s", data)
	}
}

func TestWriteFailsOnMissingDir(t *testing.T) {
	if _, err := Write(filepath.Join(t.TempDir(), "nope", "nope"), Report{Message: "x"}); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
