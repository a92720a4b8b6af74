package repositories

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"boardly/internal/platform/models"
)

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(task *models.Task) error {
	task.ID = "tsk_" + uuid.New().String()
	now := time.Now().Unix()
	task.CreatedAt = now
	task.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO tasks (id, list_id, board_id, title, description, assignee_id, completed, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.ListID, task.BoardID, task.Title, task.Description,
		nullString(task.AssigneeID), task.Completed, task.Position, task.CreatedAt, task.UpdatedAt,
	)
	return err
}

func (r *TaskRepository) GetByID(id string) (*models.Task, error) {
	row := r.db.QueryRow(
		`SELECT id, list_id, board_id, title, description, assignee_id, completed, position, created_at, updated_at
		 FROM tasks WHERE id = ?`, id)
	return scanTask(row)
}

// ListByList returns the list's tasks ordered by position, creation order
// breaking ties.
func (r *TaskRepository) ListByList(listID string) ([]*models.Task, error) {
	rows, err := r.db.Query(
		`SELECT id, list_id, board_id, title, description, assignee_id, completed, position, created_at, updated_at
		 FROM tasks WHERE list_id = ? ORDER BY position, created_at`, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) Update(task *models.Task) error {
	task.UpdatedAt = time.Now().Unix()
	_, err := r.db.Exec(
		`UPDATE tasks SET list_id = ?, title = ?, description = ?, assignee_id = ?, completed = ?, position = ?, updated_at = ?
		 WHERE id = ?`,
		task.ListID, task.Title, task.Description, nullString(task.AssigneeID),
		task.Completed, task.Position, task.UpdatedAt, task.ID,
	)
	return err
}

// UpdatePositions applies a full renumber in one transaction.
func (r *TaskRepository) UpdatePositions(positions map[string]int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	now := time.Now().Unix()
	for id, pos := range positions {
		if _, err := tx.Exec(
			`UPDATE tasks SET position = ?, updated_at = ? WHERE id = ?`, pos, now, id); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (r *TaskRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	var t models.Task
	var assignee sql.NullString
	err := row.Scan(&t.ID, &t.ListID, &t.BoardID, &t.Title, &t.Description,
		&assignee, &t.Completed, &t.Position, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if assignee.Valid {
		t.AssigneeID = assignee.String
	}
	return &t, nil
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
