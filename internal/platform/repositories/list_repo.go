package repositories

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"boardly/internal/platform/models"
)

type ListRepository struct {
	db *sql.DB
}

func NewListRepository(db *sql.DB) *ListRepository {
	return &ListRepository{db: db}
}

func (r *ListRepository) Create(list *models.List) error {
	list.ID = "lst_" + uuid.New().String()
	now := time.Now().Unix()
	list.CreatedAt = now
	list.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO lists (id, board_id, title, position, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		list.ID, list.BoardID, list.Title, list.Position, list.CreatedAt, list.UpdatedAt,
	)
	return err
}

func (r *ListRepository) GetByID(id string) (*models.List, error) {
	row := r.db.QueryRow(
		`SELECT id, board_id, title, position, created_at, updated_at FROM lists WHERE id = ?`, id)

	var l models.List
	if err := row.Scan(&l.ID, &l.BoardID, &l.Title, &l.Position, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

// ListByBoard returns the board's lists ordered by position, creation order
// breaking ties.
func (r *ListRepository) ListByBoard(boardID string) ([]*models.List, error) {
	rows, err := r.db.Query(
		`SELECT id, board_id, title, position, created_at, updated_at
		 FROM lists WHERE board_id = ? ORDER BY position, created_at`, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lists []*models.List
	for rows.Next() {
		var l models.List
		if err := rows.Scan(&l.ID, &l.BoardID, &l.Title, &l.Position, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		lists = append(lists, &l)
	}
	return lists, rows.Err()
}

func (r *ListRepository) Update(list *models.List) error {
	list.UpdatedAt = time.Now().Unix()
	_, err := r.db.Exec(
		`UPDATE lists SET title = ?, position = ?, updated_at = ? WHERE id = ?`,
		list.Title, list.Position, list.UpdatedAt, list.ID,
	)
	return err
}

// UpdatePositions applies a full renumber in one transaction so a reorder is
// never observed half-applied by readers.
func (r *ListRepository) UpdatePositions(positions map[string]int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	now := time.Now().Unix()
	for id, pos := range positions {
		if _, err := tx.Exec(
			`UPDATE lists SET position = ?, updated_at = ? WHERE id = ?`, pos, now, id); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (r *ListRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM lists WHERE id = ?`, id)
	return err
}
