package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/akinalp/kutuphane/database"
	"github.com/akinalp/kutuphane/models"
	"github.com/akinalp/kutuphane/pkg"
)

// sqliteLoginFlagRepo, LoginFlagRepository'nin SQLite implementasyonu.
type sqliteLoginFlagRepo struct {
	db database.TxQuerier
}

// NewSQLiteLoginFlagRepo, constructor.
func NewSQLiteLoginFlagRepo(db database.TxQuerier) LoginFlagRepository {
	return &sqliteLoginFlagRepo{db: db}
}

func (r *sqliteLoginFlagRepo) Save(ctx context.Context, flag *models.LoginFlag) error {
	query := `
		INSERT INTO login_flags (id, username)
		VALUES (?, ?)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query, flag.ID, flag.Username).Scan(&flag.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save login flag: %w", err)
	}

	flag.Scope = models.ScopeDurable
	return nil
}

func (r *sqliteLoginFlagRepo) GetByID(ctx context.Context, id string) (*models.LoginFlag, error) {
	query := `SELECT id, username, created_at FROM login_flags WHERE id = ?`

	flag := &models.LoginFlag{Scope: models.ScopeDurable}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&flag.ID, &flag.Username, &flag.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get login flag: %w", err)
	}

	return flag, nil
}

func (r *sqliteLoginFlagRepo) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM login_flags WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete login flag: %w", err)
	}
	return nil
}
