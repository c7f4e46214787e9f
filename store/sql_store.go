package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/yukitake212/first-hackathon-product/models"
)

// Dialect selects the SQL flavor spoken by SQLStore.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// createdAtLayout is fixed-width so TEXT ordering matches time ordering.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z"

const taskColumns = `id, user_id, title, description, date, task_type, start_date, due_date, end_date,
	priority, completed, created_at, estimated_days, dependencies, subtasks`

// schema is portable between sqlite and postgres: TEXT dates, INTEGER flags.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL DEFAULT '',
		task_type TEXT NOT NULL,
		start_date TEXT NOT NULL,
		due_date TEXT NOT NULL DEFAULT '',
		end_date TEXT NOT NULL DEFAULT '',
		priority TEXT NOT NULL,
		completed INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		estimated_days INTEGER NOT NULL DEFAULT 0,
		dependencies TEXT NOT NULL DEFAULT '[]',
		subtasks TEXT NOT NULL DEFAULT '[]'
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_type ON tasks(task_type)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_created ON tasks(created_at)`,
}

// SQLStore implements TaskStore on database/sql for sqlite (modernc.org/sqlite)
// and postgres (lib/pq).
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
	// path is the sqlite database file; empty for :memory: and postgres.
	path string
}

// NewSQLiteStore opens (or creates) tasks.db under basePath. ":memory:" gives a
// throwaway database.
func NewSQLiteStore(basePath string) (*SQLStore, error) {
	dsn := ":memory:"
	if basePath != ":memory:" {
		if err := os.MkdirAll(basePath, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
		dsn = filepath.Join(basePath, "tasks.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection: a second one would see a different :memory: database, and
	// sqlite serializes writers anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	s, err := newSQLStore(db, DialectSQLite)
	if err != nil {
		return nil, err
	}
	if dsn != ":memory:" {
		s.path = dsn
	}
	return s, nil
}

// Path returns the sqlite database file, or "" when there is none to watch.
func (s *SQLStore) Path() string { return s.path }

// NewPostgresStore connects to dsn and ensures the schema exists.
func NewPostgresStore(dsn string) (*SQLStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return newSQLStore(db, DialectPostgres)
}

func newSQLStore(db *sql.DB, dialect Dialect) (*SQLStore, error) {
	s := &SQLStore{
		db:      db,
		dialect: dialect,
		now:     func() time.Time { return time.Now().UTC() },
	}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

func (s *SQLStore) initSchema() error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// rebind rewrites ? placeholders to $n for postgres.
func (s *SQLStore) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CreateTask inserts a new task.
func (s *SQLStore) CreateTask(ctx context.Context, task models.Task) (string, error) {
	if task.ID == "" {
		task.ID = models.NewTaskID()
	}
	task.CreatedAt = s.now()
	if err := models.Prepare(&task); err != nil {
		return "", fmt.Errorf("create task: %w", err)
	}
	if err := s.insert(ctx, s.db, task); err != nil {
		return "", err
	}
	return task.ID, nil
}

func (s *SQLStore) insert(ctx context.Context, ex execer, t models.Task) error {
	deps, err := json.Marshal(orEmpty(t.Dependencies))
	if err != nil {
		return fmt.Errorf("marshal dependencies: %w", err)
	}
	subs, err := json.Marshal(orEmptySubtasks(t.Subtasks))
	if err != nil {
		return fmt.Errorf("marshal subtasks: %w", err)
	}

	_, err = ex.ExecContext(ctx, s.rebind(`INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		t.ID, t.UserID, t.Title, t.Description, t.Date, string(t.TaskType), t.StartDate, t.DueDate, t.EndDate,
		string(t.Priority), boolToInt(t.Completed), t.CreatedAt.UTC().Format(createdAtLayout), t.EstimatedDays,
		string(deps), string(subs))
	if err != nil {
		return fmt.Errorf("insert task %s: %w", t.ID, err)
	}
	return nil
}

// GetTask retrieves a task by its unique identifier.
func (s *SQLStore) GetTask(ctx context.Context, id string) (models.Task, error) {
	return s.get(ctx, s.db, id)
}

func (s *SQLStore) get(ctx context.Context, ex execer, id string) (models.Task, error) {
	row := ex.QueryRowContext(ctx, s.rebind(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`), id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, &models.NotFoundError{ID: id}
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task %s: %w", id, err)
	}
	return t, nil
}

// UpdateTask applies patch inside a transaction.
func (s *SQLStore) UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Task{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	current, err := s.get(ctx, tx, id)
	if err != nil {
		return models.Task{}, fmt.Errorf("update task %s: %w", id, err)
	}
	updated := patch.Apply(current)
	if err := models.Prepare(&updated); err != nil {
		return models.Task{}, fmt.Errorf("update task %s: %w", id, err)
	}

	subs, err := json.Marshal(orEmptySubtasks(updated.Subtasks))
	if err != nil {
		return models.Task{}, fmt.Errorf("marshal subtasks: %w", err)
	}
	_, err = tx.ExecContext(ctx, s.rebind(`UPDATE tasks SET user_id = ?, title = ?, description = ?, date = ?,
		task_type = ?, start_date = ?, due_date = ?, end_date = ?, priority = ?, completed = ?, subtasks = ?
		WHERE id = ?`),
		updated.UserID, updated.Title, updated.Description, updated.Date, string(updated.TaskType),
		updated.StartDate, updated.DueDate, updated.EndDate, string(updated.Priority),
		boolToInt(updated.Completed), string(subs), id)
	if err != nil {
		return models.Task{}, fmt.Errorf("update task %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return models.Task{}, fmt.Errorf("commit: %w", err)
	}
	return updated, nil
}

// DeleteTask removes the task id.
func (s *SQLStore) DeleteTask(ctx context.Context, id string) error {
	return s.delete(ctx, s.db, id)
}

func (s *SQLStore) delete(ctx context.Context, ex execer, id string) error {
	res, err := ex.ExecContext(ctx, s.rebind(`DELETE FROM tasks WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete task %s: %w", id, &models.NotFoundError{ID: id})
	}
	return nil
}

// ListTasks pushes the user and type constraints into SQL and leaves the date logic
// to Filter.Apply.
func (s *SQLStore) ListTasks(ctx context.Context, filter Filter) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	var (
		where []string
		args  []any
	)
	if filter.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.TaskType != "" {
		where = append(where, "task_type = ?")
		args = append(args, string(filter.TaskType))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return filter.Apply(tasks), nil
}

// ReplaceTask deletes id and inserts replacements in one transaction.
func (s *SQLStore) ReplaceTask(ctx context.Context, id string, replacements []models.Task) ([]string, error) {
	if len(replacements) == 0 {
		return nil, fmt.Errorf("replace task %s: %w", id, errNoReplacements)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.delete(ctx, tx, id); err != nil {
		return nil, fmt.Errorf("replace task: %w", err)
	}

	now := s.now()
	ids := make([]string, 0, len(replacements))
	for _, t := range replacements {
		if t.ID == "" {
			t.ID = models.NewTaskID()
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
		}
		if err := models.Prepare(&t); err != nil {
			return nil, fmt.Errorf("replace task %s: %w", id, err)
		}
		if err := s.insert(ctx, tx, t); err != nil {
			return nil, fmt.Errorf("replace task %s: %w", id, err)
		}
		ids = append(ids, t.ID)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return ids, nil
}

// Close closes the database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var (
		t         models.Task
		taskType  string
		priority  string
		completed int64
		createdAt string
		deps      string
		subs      string
	)
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Date, &taskType, &t.StartDate,
		&t.DueDate, &t.EndDate, &priority, &completed, &createdAt, &t.EstimatedDays, &deps, &subs)
	if err != nil {
		return models.Task{}, err
	}
	t.TaskType = models.TaskType(taskType)
	t.Priority = models.TaskPriority(priority)
	t.Completed = completed != 0
	if ts, err := time.Parse(createdAtLayout, createdAt); err == nil {
		t.CreatedAt = ts
	} else if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		t.CreatedAt = ts
	}
	if deps != "" {
		if err := json.Unmarshal([]byte(deps), &t.Dependencies); err != nil {
			return models.Task{}, fmt.Errorf("decode dependencies of %s: %w", t.ID, err)
		}
	}
	if subs != "" {
		if err := json.Unmarshal([]byte(subs), &t.Subtasks); err != nil {
			return models.Task{}, fmt.Errorf("decode subtasks of %s: %w", t.ID, err)
		}
	}
	if len(t.Dependencies) == 0 {
		t.Dependencies = nil
	}
	if len(t.Subtasks) == 0 {
		t.Subtasks = nil
	}
	return t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func orEmptySubtasks(s []models.SubTask) []models.SubTask {
	if s == nil {
		return []models.SubTask{}
	}
	return s
}
