package prompts

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/spf13/afero"
)

// PromptKey is a type for identifying specific prompts.
type PromptKey string

const (
	// KeyBreakdownTask is the key for the task breakdown prompt.
	KeyBreakdownTask PromptKey = "BreakdownTask"
	// KeyOptimizeSchedule is the key for the schedule advice prompt.
	KeyOptimizeSchedule PromptKey = "OptimizeSchedule"
)

// DefaultLanguage is used when no language is configured.
const DefaultLanguage = "English"

// promptConfig defines the default content and filename for a prompt.
type promptConfig struct {
	defaultContent string
	filename       string
}

// promptRegistry maps a PromptKey to its configuration.
var promptRegistry = map[PromptKey]promptConfig{
	KeyBreakdownTask: {
		defaultContent: BreakdownTaskPrompt,
		filename:       "breakdown_task_prompt.txt",
	},
	KeyOptimizeSchedule: {
		defaultContent: OptimizeSchedulePrompt,
		filename:       "optimize_schedule_prompt.txt",
	},
}

// BreakdownData feeds KeyBreakdownTask.
type BreakdownData struct {
	Title       string
	Description string
	DueDate     string
	EndDate     string
	Priority    string
	Language    string
}

// ScheduleData feeds KeyOptimizeSchedule.
type ScheduleData struct {
	Tasks    []BreakdownData
	Language string
}

var funcs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

// Loader resolves prompts, preferring override files in a templates directory.
type Loader struct {
	fs           afero.Fs
	templatesDir string
}

// NewLoader returns a Loader reading overrides from templatesDir on fsys.
// An empty templatesDir always yields the defaults.
func NewLoader(fsys afero.Fs, templatesDir string) *Loader {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Loader{fs: fsys, templatesDir: strings.TrimSpace(templatesDir)}
}

// Get returns the raw template for key: the override file if one exists,
// otherwise the built-in default.
func (l *Loader) Get(key PromptKey) (string, error) {
	cfg, ok := promptRegistry[key]
	if !ok {
		return "", fmt.Errorf("unrecognized prompt key: %s", key)
	}
	if l.templatesDir == "" {
		return cfg.defaultContent, nil
	}

	customPath := filepath.Join(l.templatesDir, cfg.filename)
	content, err := afero.ReadFile(l.fs, customPath)
	if err == nil {
		return string(content), nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return cfg.defaultContent, nil
	}
	return "", fmt.Errorf("failed to read custom prompt file at %s: %w", customPath, err)
}

// Render executes the template for key with data.
func (l *Loader) Render(key PromptKey, data any) (string, error) {
	raw, err := l.Get(key)
	if err != nil {
		return "", err
	}
	tmpl, err := template.New(string(key)).Funcs(funcs).Option("missingkey=error").Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse prompt %s: %w", key, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", key, err)
	}
	return buf.String(), nil
}
