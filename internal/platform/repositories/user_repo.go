package repositories

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"boardly/internal/platform/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *models.User) error {
	user.ID = "usr_" + uuid.New().String()
	now := time.Now().Unix()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Role == "" {
		user.Role = "member"
	}

	_, err := r.db.Exec(
		`INSERT INTO users (id, email, password_hash, full_name, role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.PasswordHash, user.FullName, user.Role, user.CreatedAt, user.UpdatedAt,
	)
	return err
}

func (r *UserRepository) GetByID(id string) (*models.User, error) {
	return r.getBy(`id = ?`, id)
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	return r.getBy(`email = ?`, email)
}

func (r *UserRepository) getBy(where string, arg interface{}) (*models.User, error) {
	row := r.db.QueryRow(
		`SELECT id, email, password_hash, full_name, role, created_at, updated_at FROM users WHERE `+where, arg)

	var u models.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
