package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"casetasks/internal/core/domain"
	"casetasks/internal/core/ports"
)

const legacyISOLayout = "2006-01-02T15:04:05Z"

// LegacyMigrator upgrades tasks stored in the old relational tables into the
// attribute bag representation. It only fills the in-memory task; saving is
// left to the caller.
type LegacyMigrator struct {
	legacyRepository ports.LegacyTaskRepository
}

func NewLegacyMigrator(legacyRepository ports.LegacyTaskRepository) *LegacyMigrator {
	return &LegacyMigrator{legacyRepository: legacyRepository}
}

// Migrate returns task unchanged when it already carries a status. A missing
// legacy row is tolerated and leaves the task without status or users.
func (m *LegacyMigrator) Migrate(ctx context.Context, task domain.Task) (domain.Task, error) {
	if task.IsMigrated() {
		return task, nil
	}

	row, err := m.legacyRepository.GetLegacyTask(ctx, task.ID)
	if err != nil {
		if errors.Is(err, domain.ErrLegacyLookupMiss) {
			zap.L().Warn("legacy task row not found, task left without status", zap.Uint64("task_id", task.ID))
			return task, nil
		}
		return task, fmt.Errorf("load legacy task %d: %w", task.ID, err)
	}

	users, err := m.legacyRepository.ListResponsibleUsers(ctx, task.ID)
	if err != nil {
		return task, fmt.Errorf("load legacy responsible users of task %d: %w", task.ID, err)
	}

	out := task.Clone()
	if out.Data == nil {
		out.Data = domain.Data{}
	}
	sd := &out.SysData

	status := domain.TaskStatus(row.Status)
	sd.Status = &status

	if row.CompletedAt != nil {
		closedAt := row.CompletedAt.UTC()
		sd.DClosed = &closedAt
	}

	out.Data[domain.FieldTitle] = row.Title
	out.Data[domain.FieldAssigned] = row.Assigned
	out.Data[domain.FieldDescription] = row.Description

	sd.AllDay = row.AllDay != domain.LegacyAllDayTimed
	sd.DueDate = ""
	sd.DueTime = ""
	delete(out.Data, domain.FieldDueDate)
	delete(out.Data, domain.FieldDueTime)
	if row.DateEnd != nil {
		end := row.DateEnd.UTC()
		sd.DueDate = end.Format(legacyISOLayout)
		out.Data[domain.FieldDueDate] = sd.DueDate
		if !sd.AllDay {
			sd.DueTime = end.Format(domain.TimeLayout)
			out.Data[domain.FieldDueTime] = sd.DueTime
		}
	}

	sd.UOngoing = []uint64{}
	sd.UDone = []uint64{}
	for _, user := range users {
		if user.Status == domain.LegacyResponsibleDone {
			sd.UDone = append(sd.UDone, user.UserID)
			continue
		}
		sd.UOngoing = append(sd.UOngoing, user.UserID)
	}

	zap.L().Debug("legacy task migrated", zap.Uint64("task_id", task.ID), zap.Stringer("status", status))

	return out, nil
}
