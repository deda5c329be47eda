package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"casetasks/internal/core/domain"
	"casetasks/internal/core/ports"
)

const getLegacyTaskQuery = `
SELECT
  t.id,
  t.title,
  t.date_start,
  t.date_end,
  t.allday,
  t.responsible_user_ids,
  t.description,
  t.status,
  t.completed
FROM tasks t
WHERE t.id = ?;
`

const listResponsibleUsersQuery = `
SELECT user_id, status
FROM tasks_responsible_users
WHERE task_id = ?
ORDER BY user_id;
`

type LegacyTaskRepository struct {
	db *sqlx.DB
}

type legacyTaskRow struct {
	ID                 uint64         `db:"id"`
	Title              sql.NullString `db:"title"`
	DateStart          sql.NullTime   `db:"date_start"`
	DateEnd            sql.NullTime   `db:"date_end"`
	AllDay             sql.NullInt64  `db:"allday"`
	ResponsibleUserIDs sql.NullString `db:"responsible_user_ids"`
	Description        sql.NullString `db:"description"`
	Status             sql.NullInt64  `db:"status"`
	Completed          sql.NullTime   `db:"completed"`
}

type responsibleUserRow struct {
	UserID uint64 `db:"user_id"`
	Status int    `db:"status"`
}

var _ ports.LegacyTaskRepository = (*LegacyTaskRepository)(nil)

func NewLegacyTaskRepository(db *sqlx.DB) *LegacyTaskRepository {
	return &LegacyTaskRepository{db: db}
}

func (r *LegacyTaskRepository) GetLegacyTask(ctx context.Context, id uint64) (domain.LegacyTask, error) {
	var row legacyTaskRow
	if err := r.db.GetContext(ctx, &row, getLegacyTaskQuery, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.LegacyTask{}, domain.ErrLegacyLookupMiss
		}
		return domain.LegacyTask{}, err
	}

	return mapLegacyTaskRow(row), nil
}

func (r *LegacyTaskRepository) ListResponsibleUsers(ctx context.Context, taskID uint64) ([]domain.LegacyResponsibleUser, error) {
	var rows []responsibleUserRow
	if err := r.db.SelectContext(ctx, &rows, listResponsibleUsersQuery, taskID); err != nil {
		return nil, err
	}

	users := make([]domain.LegacyResponsibleUser, 0, len(rows))
	for _, row := range rows {
		users = append(users, domain.LegacyResponsibleUser{UserID: row.UserID, Status: row.Status})
	}

	return users, nil
}

func mapLegacyTaskRow(row legacyTaskRow) domain.LegacyTask {
	task := domain.LegacyTask{
		ID:          row.ID,
		Title:       row.Title.String,
		AllDay:      int(row.AllDay.Int64),
		Assigned:    row.ResponsibleUserIDs.String,
		Description: row.Description.String,
		Status:      int(row.Status.Int64),
	}

	if row.DateStart.Valid {
		value := row.DateStart.Time
		task.DateStart = &value
	}

	if row.DateEnd.Valid {
		value := row.DateEnd.Time
		task.DateEnd = &value
	}

	if row.Completed.Valid {
		value := row.Completed.Time
		task.CompletedAt = &value
	}

	return task
}
