package store

import (
	"context"

	"github.com/yukitake212/first-hackathon-product/models"
)

// TaskStore defines the interface for task persistence.
// Implementations own the authoritative task collection; callers receive copies.
//
// Every write runs models.Prepare, so create and update share one normalization rule
// and invalid tasks never reach the backend. Errors for unknown ids wrap
// models.ErrNotFound; validation failures wrap models.ErrValidation.
type TaskStore interface {
	// CreateTask stores a new task and returns its id.
	// An empty task.ID gets a fresh id; a caller-supplied id must not already exist.
	// createdAt is always set by the store.
	CreateTask(ctx context.Context, task models.Task) (string, error)

	// GetTask retrieves a task by its unique identifier.
	GetTask(ctx context.Context, id string) (models.Task, error)

	// UpdateTask applies a partial update and returns the stored result.
	// It fails with a *models.NotFoundError if id is absent.
	UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error)

	// DeleteTask removes a task. Deleting an absent id fails with a *models.NotFoundError,
	// so a repeated delete is reported rather than silently ignored.
	DeleteTask(ctx context.Context, id string) error

	// ListTasks returns the tasks matching filter, ordered as described on Filter.
	ListTasks(ctx context.Context, filter Filter) ([]models.Task, error)

	// ReplaceTask removes the task id and inserts replacements in one step, which is
	// how an applied breakdown lands. It returns the ids of the inserted tasks.
	// An empty replacements slice is a ValidationError and leaves the task in place.
	ReplaceTask(ctx context.Context, id string, replacements []models.Task) ([]string, error)

	// Close releases any resources held by the store.
	Close() error
}

// FileBacked is implemented by stores persisted to one local file, so callers
// can watch it for changes made by other processes.
type FileBacked interface {
	// Path returns the file, or "" when the store has none.
	Path() string
}

// errNoReplacements keeps ReplaceTask from deleting a task without a substitute.
var errNoReplacements = &models.ValidationError{Field: "replacements", Rule: "min", Msg: "at least one replacement task is required"}
