package logger

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func resetState(t *testing.T) string {
	t.Helper()
	state = &crashState{}
	dir := t.TempDir()
	SetBasePath(dir)
	t.Cleanup(func() { state = &crashState{} })
	return dir
}

func TestRecordCrash(t *testing.T) {
	dir := resetState(t)
	SetVersion("1.0.0-test")
	SetCommand("taskcal breakdown task-1")
	SetLastTask("task-1 Launch site")

	path, err := RecordCrash("boom", []byte("goroutine 1 [running]:"))
	if err != nil {
		t.Fatalf("RecordCrash() error = %v", err)
	}
	if filepath.Dir(path) != filepath.Join(dir, CrashLogDir) {
		t.Errorf("crash log written to %s", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"TASKCAL CRASH LOG", "1.0.0-test", "taskcal breakdown task-1", "task-1 Launch site", "boom", "goroutine 1"} {
		if !strings.Contains(string(content), want) {
			t.Errorf("crash log missing %q", want)
		}
	}
}

func TestSetLastTask_Truncation(t *testing.T) {
	resetState(t)
	SetLastTask(strings.Repeat("a", 1000))

	state.mu.RLock()
	defer state.mu.RUnlock()
	if len(state.lastTask) > 520 || !strings.HasSuffix(state.lastTask, "[truncated]") {
		t.Errorf("lastTask not truncated: len %d", len(state.lastTask))
	}
}

func TestPruneCrashLogs(t *testing.T) {
	dir := resetState(t)
	logDir := filepath.Join(dir, CrashLogDir)
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < MaxCrashLogs+3; i++ {
		name := fmt.Sprintf("crash_20240601_0000%02d.000000000.log", i)
		if err := os.WriteFile(filepath.Join(logDir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(logDir, "notes.txt"), []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := pruneCrashLogs(logDir, MaxCrashLogs); err != nil {
		t.Fatalf("pruneCrashLogs() error = %v", err)
	}

	logs, err := ListCrashLogs()
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != MaxCrashLogs {
		t.Fatalf("got %d logs, want %d", len(logs), MaxCrashLogs)
	}
	if !strings.HasSuffix(logs[0], "crash_20240601_000003.000000000.log") {
		t.Errorf("oldest kept log = %s, the three oldest should be gone", logs[0])
	}
	if _, err := os.Stat(filepath.Join(logDir, "notes.txt")); err != nil {
		t.Error("non crash files must be left alone")
	}
}

func TestListCrashLogs_NoDir(t *testing.T) {
	resetState(t)
	logs, err := ListCrashLogs()
	if err != nil || logs != nil {
		t.Errorf("ListCrashLogs() = %v, %v; want nil, nil", logs, err)
	}
}

func TestNew_Levels(t *testing.T) {
	var buf bytes.Buffer
	quiet := New(false, &buf)
	quiet.Debug("hidden")
	quiet.Warn("shown", "task", "task-1")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "task=task-1") {
		t.Errorf("quiet logger output: %q", buf.String())
	}

	buf.Reset()
	New(true, &buf).Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("verbose logger output: %q", buf.String())
	}
}
