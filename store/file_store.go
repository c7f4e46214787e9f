package store

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gofrs/flock"
	yaml "gopkg.in/yaml.v3"

	"github.com/yukitake212/first-hackathon-product/models"
)

const (
	defaultDataFile   = "tasks.json"
	dataFileKey       = "dataFile"
	dataFileFormatKey = "dataFileFormat"
	defaultDataFormat = FormatJSON
	checksumSuffix    = ".checksum"
	lockSuffix        = ".lock"
)

// File formats understood by FileTaskStore.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// FileTaskStore implements TaskStore on a single JSON, YAML or TOML file.
//
// Every operation takes an inter-process lock, reloads the file, and writes it back
// through a temp file + rename, with a sha256 sidecar that detects edits made
// outside the store.
type FileTaskStore struct {
	filePath string
	format   string
	tasks    map[string]models.Task
	flk      *flock.Flock
	now      func() time.Time
}

// NewFileTaskStore creates a new instance of FileTaskStore.
// It does not initialize the store; Initialize must be called separately.
func NewFileTaskStore() *FileTaskStore {
	return &FileTaskStore{
		tasks: make(map[string]models.Task),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Initialize configures the store from the "dataFile" and "dataFileFormat" keys,
// creating the data directory and an empty data file when needed.
func (s *FileTaskStore) Initialize(config map[string]string) error {
	s.filePath = config[dataFileKey]
	if s.filePath == "" {
		s.filePath = defaultDataFile
	}

	s.format = defaultDataFormat
	if val := config[dataFileFormatKey]; val != "" {
		switch f := strings.ToLower(val); f {
		case FormatJSON, FormatYAML, FormatTOML:
			s.format = f
		default:
			return fmt.Errorf("unsupported dataFileFormat: %s. Supported formats are json, yaml, toml", val)
		}
	}

	if s.filePath == defaultDataFile && s.format != FormatJSON {
		s.filePath = strings.TrimSuffix(s.filePath, filepath.Ext(s.filePath)) + "." + s.format
	}

	if dir := filepath.Dir(s.filePath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	// The lock lives beside the data file because saves replace the data file's inode.
	s.flk = flock.New(s.filePath + lockSuffix)
	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("failed to acquire initial lock for %s: %w", s.filePath, err)
	}
	defer func() { _ = s.flk.Unlock() }()

	return s.load()
}

// Path returns the data file location.
func (s *FileTaskStore) Path() string { return s.filePath }

// read runs fn against a freshly loaded snapshot under the lock.
func (s *FileTaskStore) read(fn func() error) error {
	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", s.filePath, err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.load(); err != nil {
		return err
	}
	return fn()
}

// write runs fn under the lock and persists the result. If fn or the save fails the
// in-memory map is reloaded from the untouched file.
func (s *FileTaskStore) write(fn func() error) error {
	return s.read(func() error {
		if err := fn(); err != nil {
			_ = s.load()
			return err
		}
		if err := s.save(); err != nil {
			_ = s.load()
			return err
		}
		return nil
	})
}

// CreateTask adds a new task to the store.
func (s *FileTaskStore) CreateTask(_ context.Context, task models.Task) (string, error) {
	err := s.write(func() error {
		if task.ID == "" {
			task.ID = models.NewTaskID()
		} else if _, exists := s.tasks[task.ID]; exists {
			return fmt.Errorf("task with ID '%s' already exists", task.ID)
		}
		task.CreatedAt = s.now()
		if err := models.Prepare(&task); err != nil {
			return err
		}
		s.tasks[task.ID] = task
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("create task: %w", err)
	}
	return task.ID, nil
}

// GetTask retrieves a task by its unique identifier.
func (s *FileTaskStore) GetTask(_ context.Context, id string) (models.Task, error) {
	var task models.Task
	err := s.read(func() error {
		t, ok := s.tasks[id]
		if !ok {
			return &models.NotFoundError{ID: id}
		}
		task = t
		return nil
	})
	return task, err
}

// UpdateTask applies patch to the task id.
func (s *FileTaskStore) UpdateTask(_ context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	var updated models.Task
	err := s.write(func() error {
		current, ok := s.tasks[id]
		if !ok {
			return &models.NotFoundError{ID: id}
		}
		updated = patch.Apply(current)
		if err := models.Prepare(&updated); err != nil {
			return err
		}
		s.tasks[id] = updated
		return nil
	})
	if err != nil {
		return models.Task{}, fmt.Errorf("update task %s: %w", id, err)
	}
	return updated, nil
}

// DeleteTask removes the task id.
func (s *FileTaskStore) DeleteTask(_ context.Context, id string) error {
	err := s.write(func() error {
		if _, ok := s.tasks[id]; !ok {
			return &models.NotFoundError{ID: id}
		}
		delete(s.tasks, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return nil
}

// ListTasks returns the tasks matching filter.
func (s *FileTaskStore) ListTasks(_ context.Context, filter Filter) ([]models.Task, error) {
	var out []models.Task
	err := s.read(func() error {
		all := make([]models.Task, 0, len(s.tasks))
		for _, t := range s.tasks {
			all = append(all, t)
		}
		out = filter.Apply(all)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return out, nil
}

// ReplaceTask swaps the task id for replacements in a single save.
func (s *FileTaskStore) ReplaceTask(_ context.Context, id string, replacements []models.Task) ([]string, error) {
	if len(replacements) == 0 {
		return nil, fmt.Errorf("replace task %s: %w", id, errNoReplacements)
	}
	ids := make([]string, 0, len(replacements))
	err := s.write(func() error {
		if _, ok := s.tasks[id]; !ok {
			return &models.NotFoundError{ID: id}
		}
		delete(s.tasks, id)
		now := s.now()
		for _, t := range replacements {
			if t.ID == "" {
				t.ID = models.NewTaskID()
			} else if _, exists := s.tasks[t.ID]; exists {
				return fmt.Errorf("task with ID '%s' already exists", t.ID)
			}
			if t.CreatedAt.IsZero() {
				t.CreatedAt = now
			}
			if err := models.Prepare(&t); err != nil {
				return err
			}
			s.tasks[t.ID] = t
			ids = append(ids, t.ID)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("replace task %s: %w", id, err)
	}
	return ids, nil
}

// Close releases the file lock.
func (s *FileTaskStore) Close() error {
	if s.flk != nil {
		return s.flk.Unlock()
	}
	return nil
}

// calculateChecksum computes the SHA256 checksum of the given data.
func calculateChecksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// load reads the data file, verifies its checksum and replaces the in-memory map.
// The caller holds the lock.
func (s *FileTaskStore) load() error {
	checksumPath := s.filePath + checksumSuffix

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.tasks = make(map[string]models.Task)
			_ = os.Remove(checksumPath)
			return nil
		}
		return fmt.Errorf("failed to read data file %s: %w", s.filePath, err)
	}

	if expected, err := os.ReadFile(checksumPath); err == nil {
		if actual := calculateChecksum(data); actual != strings.TrimSpace(string(expected)) {
			return fmt.Errorf("checksum mismatch for %s - expected %s, got %s - file is corrupt or was edited by hand", s.filePath, strings.TrimSpace(string(expected)), actual)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error checking checksum file %s: %w", checksumPath, err)
	}

	s.tasks = make(map[string]models.Task)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	var list models.TaskList
	switch s.format {
	case FormatJSON:
		err = json.Unmarshal(data, &list)
	case FormatYAML:
		err = yaml.Unmarshal(data, &list)
	case FormatTOML:
		err = toml.Unmarshal(data, &list)
	default:
		return fmt.Errorf("unsupported data format for loading: %s", s.format)
	}
	if err != nil {
		return fmt.Errorf("failed to unmarshal %s from %s: %w", s.format, s.filePath, err)
	}

	for _, t := range list.Tasks {
		s.tasks[t.ID] = t
	}
	return nil
}

// save writes the map through temp files and renames them into place.
// The caller holds the lock.
func (s *FileTaskStore) save() error {
	all := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		all = append(all, t)
	}
	sortByCreatedDesc(all)
	list := models.TaskList{Tasks: all, TotalCount: len(all)}

	var (
		data []byte
		err  error
	)
	switch s.format {
	case FormatJSON:
		data, err = json.MarshalIndent(list, "", "  ")
	case FormatYAML:
		data, err = yaml.Marshal(list)
	case FormatTOML:
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(list)
		data = buf.Bytes()
	default:
		return fmt.Errorf("unsupported data format for saving: %s", s.format)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal tasks to %s: %w", s.format, err)
	}

	tmpPath := s.filePath + ".tmp"
	checksumPath := s.filePath + checksumSuffix
	tmpChecksumPath := checksumPath + ".tmp"
	defer func() { _ = os.Remove(tmpPath) }()
	defer func() { _ = os.Remove(tmpChecksumPath) }()

	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary data file %s: %w", tmpPath, err)
	}
	if err := os.WriteFile(tmpChecksumPath, []byte(calculateChecksum(data)), 0o644); err != nil {
		return fmt.Errorf("failed to write temporary checksum file %s: %w", tmpChecksumPath, err)
	}
	if err := os.Rename(tmpPath, s.filePath); err != nil {
		return fmt.Errorf("failed to rename %s to %s: %w", tmpPath, s.filePath, err)
	}
	if err := os.Rename(tmpChecksumPath, checksumPath); err != nil {
		return fmt.Errorf("data file %s updated but checksum %s was not: %w", s.filePath, checksumPath, err)
	}
	return nil
}
