// Package store persists tasks in a local SQLite database.
//
// One table holds everything:
//
//	CREATE TABLE todos (
//	    id         INTEGER PRIMARY KEY AUTOINCREMENT,
//	    body       TEXT NOT NULL,
//	    incomplete BOOLEAN
//	)
//
// The column stores *incomplete* so existing databases written by earlier
// versions of the tool keep working; the Task type exposes Done and the
// store flips the flag at the boundary. AUTOINCREMENT keeps ids monotonic
// even after the newest row is deleted, so an id is never reused.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nibzard/tood/internal/task"
)

// ErrNotFound is returned when no task has the requested id.
var ErrNotFound = errors.New("task not found")

// Store is a handle to one todos database. It is not safe for concurrent
// use; the CLI opens it, performs one logical operation, and closes it.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens the database at path, creating the file and the todos table
// if they do not exist yet. Bootstrapping is idempotent.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.bootstrap(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) bootstrap() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS todos (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			body       TEXT NOT NULL,
			incomplete BOOLEAN
		)
	`)
	if err != nil {
		return fmt.Errorf("create todos table: %w", err)
	}
	return nil
}

// Add inserts a new incomplete task and returns it with its assigned id.
func (s *Store) Add(body string) (task.Task, error) {
	body = strings.TrimSpace(body)
	if err := task.ValidateBody(body); err != nil {
		return task.Task{}, err
	}

	res, err := s.db.Exec("INSERT INTO todos (body, incomplete) VALUES (?, ?)", body, true)
	if err != nil {
		return task.Task{}, fmt.Errorf("insert todo: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return task.Task{}, fmt.Errorf("insert todo: %w", err)
	}
	return task.Task{ID: id, Body: body, Done: false}, nil
}

// AddAll inserts one task per body, in order. It stops at the first failure
// and returns the tasks inserted so far along with the error.
func (s *Store) AddAll(bodies []string) ([]task.Task, error) {
	added := make([]task.Task, 0, len(bodies))
	for _, body := range bodies {
		t, err := s.Add(body)
		if err != nil {
			return added, err
		}
		added = append(added, t)
	}
	return added, nil
}

// List returns tasks matching the filter in creation order. An empty
// database yields an empty slice, not an error.
func (s *Store) List(filter task.Filter) ([]task.Task, error) {
	query := "SELECT id, body, incomplete FROM todos ORDER BY id"
	if filter == task.Incomplete {
		query = "SELECT id, body, incomplete FROM todos WHERE incomplete ORDER BY id"
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	defer rows.Close()

	tasks := []task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	return tasks, nil
}

// Get returns the task with the given id.
func (s *Store) Get(id int64) (task.Task, error) {
	row := s.db.QueryRow("SELECT id, body, incomplete FROM todos WHERE id = ?", id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return task.Task{}, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return task.Task{}, err
	}
	return t, nil
}

// Toggle flips the done flag of one task and returns the updated task.
func (s *Store) Toggle(id int64) (task.Task, error) {
	res, err := s.db.Exec("UPDATE todos SET incomplete = NOT incomplete WHERE id = ?", id)
	if err != nil {
		return task.Task{}, fmt.Errorf("toggle todo: %w", err)
	}
	if err := requireRow(res, id); err != nil {
		return task.Task{}, err
	}
	return s.Get(id)
}

// ToggleAll toggles each id in order, returning the updated tasks.
func (s *Store) ToggleAll(ids []int64) ([]task.Task, error) {
	toggled := make([]task.Task, 0, len(ids))
	for _, id := range ids {
		t, err := s.Toggle(id)
		if err != nil {
			return toggled, err
		}
		toggled = append(toggled, t)
	}
	return toggled, nil
}

// Edit replaces the body of one task, leaving id and done untouched.
func (s *Store) Edit(id int64, newBody string) (task.Task, error) {
	newBody = strings.TrimSpace(newBody)
	if err := task.ValidateBody(newBody); err != nil {
		return task.Task{}, err
	}

	res, err := s.db.Exec("UPDATE todos SET body = ? WHERE id = ?", newBody, id)
	if err != nil {
		return task.Task{}, fmt.Errorf("update todo: %w", err)
	}
	if err := requireRow(res, id); err != nil {
		return task.Task{}, err
	}
	return s.Get(id)
}

// Remove deletes one task. The removed task is returned so callers can
// report what went away.
func (s *Store) Remove(id int64) (task.Task, error) {
	t, err := s.Get(id)
	if err != nil {
		return task.Task{}, err
	}
	if _, err := s.db.Exec("DELETE FROM todos WHERE id = ?", id); err != nil {
		return task.Task{}, fmt.Errorf("delete todo: %w", err)
	}
	return t, nil
}

// RemoveAll deletes each id in order, returning the removed tasks.
func (s *Store) RemoveAll(ids []int64) ([]task.Task, error) {
	removed := make([]task.Task, 0, len(ids))
	for _, id := range ids {
		t, err := s.Remove(id)
		if err != nil {
			return removed, err
		}
		removed = append(removed, t)
	}
	return removed, nil
}

// Import inserts snapshot tasks, preserving the done flag. Fresh ids are
// assigned; ids from the snapshot are ignored so existing rows are never
// overwritten. Returns the inserted tasks.
func (s *Store) Import(tasks []task.Task) ([]task.Task, error) {
	inserted := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		body := strings.TrimSpace(t.Body)
		if err := task.ValidateBody(body); err != nil {
			return inserted, err
		}
		res, err := s.db.Exec("INSERT INTO todos (body, incomplete) VALUES (?, ?)", body, !t.Done)
		if err != nil {
			return inserted, fmt.Errorf("insert todo: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return inserted, fmt.Errorf("insert todo: %w", err)
		}
		inserted = append(inserted, task.Task{ID: id, Body: body, Done: t.Done})
	}
	return inserted, nil
}

// Count returns the number of tasks matching the filter.
func (s *Store) Count(filter task.Filter) (int64, error) {
	query := "SELECT COUNT(*) FROM todos"
	if filter == task.Incomplete {
		query = "SELECT COUNT(*) FROM todos WHERE incomplete"
	}
	var n int64
	if err := s.db.QueryRow(query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count todos: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (task.Task, error) {
	var t task.Task
	var incomplete bool
	if err := row.Scan(&t.ID, &t.Body, &incomplete); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return task.Task{}, err
		}
		return task.Task{}, fmt.Errorf("scan todo: %w", err)
	}
	t.Done = !incomplete
	return t, nil
}

func requireRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	return nil
}
