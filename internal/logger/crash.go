package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	// CrashLogDir is the directory for crash logs relative to the data directory
	CrashLogDir = "crash_logs"

	// MaxCrashLogs is the maximum number of crash logs to keep
	MaxCrashLogs = 10
)

// crashState is what a crash report knows about the running command.
type crashState struct {
	mu       sync.RWMutex
	command  string
	version  string
	basePath string
	lastTask string
}

var state = &crashState{}

// SetBasePath sets the data directory crash logs are written under.
func SetBasePath(path string) {
	state.mu.Lock()
	defer state.mu.Unlock()
	state.basePath = path
}

// SetVersion sets the application version for crash logs.
func SetVersion(version string) {
	state.mu.Lock()
	defer state.mu.Unlock()
	state.version = version
}

// SetCommand sets the current command being executed.
func SetCommand(cmd string) {
	state.mu.Lock()
	defer state.mu.Unlock()
	state.command = cmd
}

// SetLastTask records the task the command was working on.
func SetLastTask(desc string) {
	state.mu.Lock()
	defer state.mu.Unlock()
	desc = strings.TrimSpace(desc)
	if len(desc) > 500 {
		desc = desc[:500] + "... [truncated]"
	}
	state.lastTask = desc
}

// CrashReport is one recovered panic.
type CrashReport struct {
	Timestamp  time.Time
	Version    string
	Command    string
	PanicValue string
	StackTrace string
	LastTask   string
}

// HandlePanic recovers a panic, writes a crash report and exits with status 1.
// Usage: defer logger.HandlePanic()
func HandlePanic() {
	r := recover()
	if r == nil {
		return
	}
	path, err := RecordCrash(r, debug.Stack())
	if err != nil {
		fmt.Fprintf(os.Stderr, "\n[CRASH] Failed to write crash log: %v\n", err)
		fmt.Fprintf(os.Stderr, "[CRASH] Panic: %v\n%s\n", r, debug.Stack())
	} else {
		fmt.Fprintf(os.Stderr, "\ntaskcal hit an unexpected error.\nA crash log has been saved to:\n  %s\n\n", path)
	}
	os.Exit(1)
}

// RecordCrash writes a crash report for panicValue and returns its path. The
// oldest reports are pruned so at most MaxCrashLogs remain.
func RecordCrash(panicValue any, stack []byte) (string, error) {
	state.mu.RLock()
	report := CrashReport{
		Timestamp:  time.Now(),
		Version:    state.version,
		Command:    state.command,
		PanicValue: fmt.Sprintf("%v", panicValue),
		StackTrace: string(stack),
		LastTask:   state.lastTask,
	}
	state.mu.RUnlock()

	dir := crashLogDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create crash log dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("crash_%s.log", report.Timestamp.Format("20060102_150405.000000000")))
	if err := os.WriteFile(path, []byte(formatCrashReport(report)), 0o644); err != nil {
		return "", fmt.Errorf("write crash log: %w", err)
	}
	if err := pruneCrashLogs(dir, MaxCrashLogs); err != nil {
		fmt.Fprintf(os.Stderr, "[WARN] Failed to clean old crash logs: %v\n", err)
	}
	return path, nil
}

func crashLogDir() string {
	state.mu.RLock()
	base := state.basePath
	state.mu.RUnlock()
	if base == "" {
		base = ".taskcal"
	}
	return filepath.Join(base, CrashLogDir)
}

func formatCrashReport(r CrashReport) string {
	rule := strings.Repeat("-", 80)
	var sb strings.Builder
	sb.WriteString("TASKCAL CRASH LOG\n")
	fmt.Fprintf(&sb, "Timestamp: %s\n", r.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(&sb, "Version:   %s\n", r.Version)
	fmt.Fprintf(&sb, "Command:   %s\n", r.Command)
	fmt.Fprintf(&sb, "Go:        %s\n", runtime.Version())
	fmt.Fprintf(&sb, "OS/Arch:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if r.LastTask != "" {
		fmt.Fprintf(&sb, "Task:      %s\n", r.LastTask)
	}
	sb.WriteString(rule + "\nPANIC VALUE\n" + rule + "\n")
	sb.WriteString(r.PanicValue + "\n")
	sb.WriteString(rule + "\nSTACK TRACE\n" + rule + "\n")
	sb.WriteString(r.StackTrace)
	return sb.String()
}

// ListCrashLogs returns crash log paths, oldest first.
func ListCrashLogs() ([]string, error) {
	dir := crashLogDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var logs []string
	for _, e := range entries {
		if isCrashLog(e) {
			logs = append(logs, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(logs)
	return logs, nil
}

func isCrashLog(e os.DirEntry) bool {
	return !e.IsDir() && strings.HasPrefix(e.Name(), "crash_") && strings.HasSuffix(e.Name(), ".log")
}

// pruneCrashLogs removes the oldest logs beyond keep. Names embed the timestamp,
// so lexical order is age order.
func pruneCrashLogs(dir string, keep int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	var names []string
	for _, e := range entries {
		if isCrashLog(e) {
			names = append(names, e.Name())
		}
	}
	if len(names) <= keep {
		return nil
	}
	sort.Strings(names)
	for _, name := range names[:len(names)-keep] {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("remove old crash log %s: %w", name, err)
		}
	}
	return nil
}
