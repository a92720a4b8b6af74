package repositories

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"boardly/internal/platform/models"
)

type BoardRepository struct {
	db *sql.DB
}

func NewBoardRepository(db *sql.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

func (r *BoardRepository) Create(board *models.Board) error {
	board.ID = "brd_" + uuid.New().String()
	now := time.Now().Unix()
	board.CreatedAt = now
	board.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO boards (id, name, owner_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		board.ID, board.Name, board.OwnerID, board.CreatedAt, board.UpdatedAt,
	)
	return err
}

func (r *BoardRepository) GetByID(id string) (*models.Board, error) {
	row := r.db.QueryRow(
		`SELECT id, name, owner_id, created_at, updated_at FROM boards WHERE id = ?`, id)

	var b models.Board
	if err := row.Scan(&b.ID, &b.Name, &b.OwnerID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BoardRepository) ListByOwner(ownerID string) ([]*models.Board, error) {
	rows, err := r.db.Query(
		`SELECT id, name, owner_id, created_at, updated_at FROM boards WHERE owner_id = ? ORDER BY created_at DESC`,
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var boards []*models.Board
	for rows.Next() {
		var b models.Board
		if err := rows.Scan(&b.ID, &b.Name, &b.OwnerID, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		boards = append(boards, &b)
	}
	return boards, rows.Err()
}

func (r *BoardRepository) Update(board *models.Board) error {
	board.UpdatedAt = time.Now().Unix()
	_, err := r.db.Exec(
		`UPDATE boards SET name = ?, updated_at = ? WHERE id = ?`,
		board.Name, board.UpdatedAt, board.ID,
	)
	return err
}

func (r *BoardRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM boards WHERE id = ?`, id)
	return err
}
