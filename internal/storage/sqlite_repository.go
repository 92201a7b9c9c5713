package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) DB() *sql.DB {
	return r.db
}

func (r *SQLiteRepository) CreateTask(ctx context.Context, in Task) error {
	attachments, err := encodeAttachments(in.Attachments)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, completed, category, priority, due_date, recurrence, attachments, reminder_set, reminder_time, created_at, last_modified)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Title, in.Description, boolInt(in.Completed), in.Category, in.Priority,
		nullTime(in.DueDate), in.Recurrence, attachments, boolInt(in.ReminderSet),
		nullTime(in.ReminderTime), mustTime(in.CreatedAt), mustTime(in.LastModified),
	)
	return err
}

func (r *SQLiteRepository) UpdateTask(ctx context.Context, in Task) error {
	attachments, err := encodeAttachments(in.Attachments)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, description = ?, completed = ?, category = ?, priority = ?, due_date = ?, recurrence = ?, attachments = ?, reminder_set = ?, reminder_time = ?, last_modified = ?
		WHERE id = ?`,
		in.Title, in.Description, boolInt(in.Completed), in.Category, in.Priority,
		nullTime(in.DueDate), in.Recurrence, attachments, boolInt(in.ReminderSet),
		nullTime(in.ReminderTime), mustTime(in.LastModified), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteTask(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListTasks(ctx context.Context) ([]Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, description, completed, category, priority, due_date, recurrence, attachments, reminder_set, reminder_time, created_at, last_modified
		FROM tasks ORDER BY rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, in Category) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, color)
		VALUES (?, ?, ?)`,
		in.ID, in.Name, in.Color,
	)
	return err
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, in Category) error {
	res, err := r.db.ExecContext(ctx, `UPDATE categories SET name = ?, color = ? WHERE id = ?`, in.Name, in.Color, in.ID)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, color FROM categories ORDER BY rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Category, 0)
	for rows.Next() {
		var item Category
		if err := rows.Scan(&item.ID, &item.Name, &item.Color); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateSubtask(ctx context.Context, in Subtask) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subtasks (id, parent_id, title, completed, created_at, last_modified)
		VALUES (?, ?, ?, ?, ?, ?)`,
		in.ID, in.ParentID, in.Title, boolInt(in.Completed), mustTime(in.CreatedAt), mustTime(in.LastModified),
	)
	return err
}

func (r *SQLiteRepository) UpdateSubtask(ctx context.Context, in Subtask) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE subtasks
		SET parent_id = ?, title = ?, completed = ?, last_modified = ?
		WHERE id = ?`,
		in.ParentID, in.Title, boolInt(in.Completed), mustTime(in.LastModified), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteSubtask(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subtasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListSubtasks(ctx context.Context) ([]Subtask, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, parent_id, title, completed, created_at, last_modified
		FROM subtasks ORDER BY rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Subtask, 0)
	for rows.Next() {
		item, scanErr := scanSubtask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) SetMeta(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (r *SQLiteRepository) GetMeta(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

func encodeAttachments(uris []string) (string, error) {
	if uris == nil {
		uris = []string{}
	}
	raw, err := json.Marshal(uris)
	if err != nil {
		return "", fmt.Errorf("encode attachments: %w", err)
	}
	return string(raw), nil
}

func decodeAttachments(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode attachments: %w", err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func nullTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.UTC().Format(sqliteTimeLayout)
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseNullableTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	tm, err := time.Parse(sqliteTimeLayout, v.String)
	if err != nil {
		return nil, err
	}
	return &tm, nil
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (Task, error) {
	var out Task
	var completed int
	var due sql.NullString
	var attachments string
	var reminderSet int
	var reminderTime sql.NullString
	var created string
	var modified string
	if err := s.Scan(&out.ID, &out.Title, &out.Description, &completed, &out.Category, &out.Priority,
		&due, &out.Recurrence, &attachments, &reminderSet, &reminderTime, &created, &modified); err != nil {
		return Task{}, err
	}
	dueDate, err := parseNullableTime(due)
	if err != nil {
		return Task{}, err
	}
	remAt, err := parseNullableTime(reminderTime)
	if err != nil {
		return Task{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Task{}, err
	}
	lastModified, err := parseRequiredTime(modified)
	if err != nil {
		return Task{}, err
	}
	uris, err := decodeAttachments(attachments)
	if err != nil {
		return Task{}, err
	}
	out.Completed = completed == 1
	out.DueDate = dueDate
	out.Attachments = uris
	out.ReminderSet = reminderSet == 1
	out.ReminderTime = remAt
	out.CreatedAt = createdAt
	out.LastModified = lastModified
	return out, nil
}

func scanSubtask(s scanner) (Subtask, error) {
	var out Subtask
	var completed int
	var created string
	var modified string
	if err := s.Scan(&out.ID, &out.ParentID, &out.Title, &completed, &created, &modified); err != nil {
		return Subtask{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Subtask{}, err
	}
	lastModified, err := parseRequiredTime(modified)
	if err != nil {
		return Subtask{}, err
	}
	out.Completed = completed == 1
	out.CreatedAt = createdAt
	out.LastModified = lastModified
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
