package repositories

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"boardly/internal/platform/models"
)

type ActivityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Append inserts one ledger entry. Records are append-only; there is no
// update path.
func (r *ActivityRepository) Append(record *models.ActivityRecord) error {
	record.ID = "act_" + uuid.New().String()
	record.CreatedAt = time.Now().Unix()

	var metaJSON interface{}
	if record.Metadata != nil {
		b, err := json.Marshal(record.Metadata)
		if err != nil {
			return err
		}
		metaJSON = string(b)
	}

	_, err := r.db.Exec(
		`INSERT INTO activity_records (id, board_id, user_id, type, description, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.BoardID, record.UserID, record.Type, record.Description, metaJSON, record.CreatedAt,
	)
	return err
}

// ListByBoard returns the most recent entries for a board, newest first.
func (r *ActivityRepository) ListByBoard(boardID string, limit int) ([]*models.ActivityRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := r.db.Query(
		`SELECT id, board_id, user_id, type, description, metadata, created_at
		 FROM activity_records WHERE board_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		boardID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.ActivityRecord
	for rows.Next() {
		var rec models.ActivityRecord
		var meta sql.NullString
		if err := rows.Scan(&rec.ID, &rec.BoardID, &rec.UserID, &rec.Type, &rec.Description, &meta, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if meta.Valid && meta.String != "" {
			json.Unmarshal([]byte(meta.String), &rec.Metadata)
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}
