package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"casetasks/internal/core/domain"
	"casetasks/internal/core/ports"
)

const objectTypeTask = "task"

const loadTaskQuery = `
SELECT id, owner_id, data, sys_data, date_end, created_at, updated_at
FROM objects
WHERE id = ? AND type = ?;
`

const insertTaskQuery = `
INSERT INTO objects (type, owner_id, data, sys_data, date_end)
VALUES (:type, :owner_id, :data, :sys_data, :date_end);
`

const updateTaskQuery = `
UPDATE objects
SET data = :data, sys_data = :sys_data, date_end = :date_end, updated_at = CURRENT_TIMESTAMP
WHERE id = :id AND type = :type;
`

const listUnmigratedTaskIDsQuery = `
SELECT id
FROM objects
WHERE type = ? AND id > ? AND (sys_data IS NULL OR JSON_EXTRACT(sys_data, '$.status') IS NULL)
ORDER BY id
LIMIT ?;
`

type TaskRepository struct {
	db *sqlx.DB
}

type taskRow struct {
	ID        uint64       `db:"id"`
	Type      string       `db:"type"`
	OwnerID   uint64       `db:"owner_id"`
	Data      []byte       `db:"data"`
	SysData   []byte       `db:"sys_data"`
	DateEnd   sql.NullTime `db:"date_end"`
	CreatedAt time.Time    `db:"created_at"`
	UpdatedAt time.Time    `db:"updated_at"`
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Load(ctx context.Context, id uint64) (domain.Task, error) {
	var row taskRow
	if err := r.db.GetContext(ctx, &row, loadTaskQuery, id, objectTypeTask); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Task{}, domain.ErrTaskNotFound
		}
		return domain.Task{}, err
	}

	return mapTaskRowToDomainTask(row)
}

func (r *TaskRepository) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	row, err := mapDomainTaskToTaskRow(task)
	if err != nil {
		return domain.Task{}, err
	}

	result, err := r.db.NamedExecContext(ctx, insertTaskQuery, row)
	if err != nil {
		return domain.Task{}, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return domain.Task{}, err
	}

	return r.Load(ctx, uint64(id))
}

func (r *TaskRepository) Update(ctx context.Context, task domain.Task) error {
	row, err := mapDomainTaskToTaskRow(task)
	if err != nil {
		return err
	}

	_, err = r.db.NamedExecContext(ctx, updateTaskQuery, row)
	return err
}

// ListUnmigratedIDs pages through tasks without a status marker, in id order
// after afterID.
func (r *TaskRepository) ListUnmigratedIDs(ctx context.Context, afterID uint64, limit int) ([]uint64, error) {
	var ids []uint64
	if err := r.db.SelectContext(ctx, &ids, listUnmigratedTaskIDsQuery, objectTypeTask, afterID, limit); err != nil {
		return nil, err
	}
	return ids, nil
}

func mapTaskRowToDomainTask(row taskRow) (domain.Task, error) {
	task := domain.Task{
		ID:        row.ID,
		OwnerID:   row.OwnerID,
		Data:      domain.Data{},
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}

	if len(row.Data) > 0 {
		if err := json.Unmarshal(row.Data, &task.Data); err != nil {
			return domain.Task{}, fmt.Errorf("decode data of object %d: %w", row.ID, err)
		}
	}

	if len(row.SysData) > 0 {
		if err := json.Unmarshal(row.SysData, &task.SysData); err != nil {
			return domain.Task{}, fmt.Errorf("decode sys_data of object %d: %w", row.ID, err)
		}
	}

	if row.DateEnd.Valid {
		value := row.DateEnd.Time.UTC()
		task.DateEnd = &value
	}

	return task, nil
}

func mapDomainTaskToTaskRow(task domain.Task) (taskRow, error) {
	data := task.Data
	if data == nil {
		data = domain.Data{}
	}

	encodedData, err := json.Marshal(data)
	if err != nil {
		return taskRow{}, fmt.Errorf("encode data of object %d: %w", task.ID, err)
	}

	encodedSysData, err := json.Marshal(task.SysData)
	if err != nil {
		return taskRow{}, fmt.Errorf("encode sys_data of object %d: %w", task.ID, err)
	}

	row := taskRow{
		ID:      task.ID,
		Type:    objectTypeTask,
		OwnerID: task.OwnerID,
		Data:    encodedData,
		SysData: encodedSysData,
	}
	if task.DateEnd != nil {
		row.DateEnd = sql.NullTime{Time: task.DateEnd.UTC(), Valid: true}
	}

	return row, nil
}
