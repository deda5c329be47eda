package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"casetasks/internal/core/ports"
)

const isAdminQuery = `SELECT is_admin FROM users WHERE id = ?;`

// UserRepository answers admin checks from the users table. Ids listed in
// the configuration are admins regardless of their row.
type UserRepository struct {
	db       *sqlx.DB
	adminIDs map[uint64]struct{}
}

var _ ports.AccessChecker = (*UserRepository)(nil)

func NewUserRepository(db *sqlx.DB, adminIDs []uint64) *UserRepository {
	admins := make(map[uint64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &UserRepository{db: db, adminIDs: admins}
}

func (r *UserRepository) IsAdmin(ctx context.Context, userID uint64) (bool, error) {
	if _, ok := r.adminIDs[userID]; ok {
		return true, nil
	}
	if r.db == nil {
		return false, nil
	}

	var isAdmin bool
	if err := r.db.GetContext(ctx, &isAdmin, isAdminQuery, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	return isAdmin, nil
}
