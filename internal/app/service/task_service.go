package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"casetasks/internal/core/domain"
	"casetasks/internal/core/ports"
)

type TaskService struct {
	taskRepository ports.TaskRepository
	migrator       *LegacyMigrator
	accessChecker  ports.AccessChecker
	location       *time.Location
	now            func() time.Time
}

func NewTaskService(
	taskRepository ports.TaskRepository,
	legacyRepository ports.LegacyTaskRepository,
	accessChecker ports.AccessChecker,
) *TaskService {
	return &TaskService{
		taskRepository: taskRepository,
		migrator:       NewLegacyMigrator(legacyRepository),
		accessChecker:  accessChecker,
		location:       time.UTC,
		now:            time.Now,
	}
}

// WithClock replaces the time source, mainly for tests.
func (s *TaskService) WithClock(now func() time.Time) *TaskService {
	s.now = now
	return s
}

// WithLocation sets the time zone used to resolve due dates when no actor
// is involved, as in SetClosed and MigratePending.
func (s *TaskService) WithLocation(loc *time.Location) *TaskService {
	if loc != nil {
		s.location = loc
	}
	return s
}

// GetTask loads a task and upgrades it from the legacy tables on first read.
func (s *TaskService) GetTask(ctx context.Context, _ domain.Actor, id uint64) (domain.Task, error) {
	return s.load(ctx, id)
}

func (s *TaskService) CreateTask(ctx context.Context, actor domain.Actor, input domain.CreateTaskInput) (domain.Task, error) {
	data := domain.Data{
		domain.FieldTitle:    strings.TrimSpace(input.Title),
		domain.FieldAssigned: domain.ToIDList(input.Assigned),
	}
	if input.Description != nil {
		data[domain.FieldDescription] = *input.Description
	}
	if input.DueDate != nil {
		data[domain.FieldDueDate] = *input.DueDate
	}
	if input.DueTime != nil {
		data[domain.FieldDueTime] = *input.DueTime
	}

	task, err := domain.Synchronize(domain.Task{OwnerID: actor.UserID, Data: data}, s.now(), actor.Loc())
	if err != nil {
		return domain.Task{}, err
	}

	return s.taskRepository.Create(ctx, task)
}

// UpdateTask edits task fields and re-synchronizes the derived state before saving.
func (s *TaskService) UpdateTask(ctx context.Context, actor domain.Actor, id uint64, input domain.UpdateTaskInput) (domain.Task, error) {
	task, err := s.load(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}

	flags, err := s.ActionFlags(ctx, actor, task, nil)
	if err != nil {
		return domain.Task{}, err
	}
	if !flags.Edit {
		return domain.Task{}, domain.ErrActionNotAllowed
	}

	edited := task.Clone()
	if edited.Data == nil {
		edited.Data = domain.Data{}
	}
	if input.Title != nil {
		edited.Data[domain.FieldTitle] = strings.TrimSpace(*input.Title)
	}
	setOptionalField(edited.Data, domain.FieldDescription, input.DescriptionSet, input.Description)
	setOptionalField(edited.Data, domain.FieldDueDate, input.DueDateSet, input.DueDate)
	setOptionalField(edited.Data, domain.FieldDueTime, input.DueTimeSet, input.DueTime)
	if input.AssignedSet {
		edited.Data[domain.FieldAssigned] = domain.ToIDList(input.Assigned)
	}

	return s.save(ctx, edited, actor.Loc())
}

// SetActive reopens a task, forgets every user completion and saves it.
func (s *TaskService) SetActive(ctx context.Context, actor domain.Actor, id uint64) (domain.Task, error) {
	task, err := s.load(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}
	return s.setActive(ctx, actor, task)
}

// SetClosed closes a task and saves it.
func (s *TaskService) SetClosed(ctx context.Context, id uint64) (domain.Task, error) {
	task, err := s.load(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}
	return s.save(ctx, task.MarkClosed(s.now()), s.location)
}

// CloseTask is SetClosed guarded by the close action flag of the actor.
func (s *TaskService) CloseTask(ctx context.Context, actor domain.Actor, id uint64) (domain.Task, error) {
	task, err := s.loadAllowed(ctx, actor, id, func(flags domain.ActionFlags) bool { return flags.Close })
	if err != nil {
		return domain.Task{}, err
	}
	return s.save(ctx, task.MarkClosed(s.now()), actor.Loc())
}

// ReopenTask is SetActive guarded by the reopen action flag of the actor.
func (s *TaskService) ReopenTask(ctx context.Context, actor domain.Actor, id uint64) (domain.Task, error) {
	task, err := s.loadAllowed(ctx, actor, id, func(flags domain.ActionFlags) bool { return flags.Reopen })
	if err != nil {
		return domain.Task{}, err
	}
	return s.setActive(ctx, actor, task)
}

// ChangeUserStatus sets the status of userID (the actor when nil) and saves
// the task when something changed. Changing another user's status is
// reserved to the owner.
func (s *TaskService) ChangeUserStatus(
	ctx context.Context,
	actor domain.Actor,
	id uint64,
	status domain.UserStatus,
	userID *uint64,
) (domain.Task, bool, error) {
	task, err := s.load(ctx, id)
	if err != nil {
		return domain.Task{}, false, err
	}

	target := actor.Target(userID)
	if target != actor.UserID && !task.IsOwner(actor.UserID) {
		return domain.Task{}, false, domain.ErrActionNotAllowed
	}
	if target == actor.UserID && status == domain.UserStatusDone {
		flags, err := s.ActionFlags(ctx, actor, task, nil)
		if err != nil {
			return domain.Task{}, false, err
		}
		if !flags.Complete {
			return task, false, nil
		}
	}

	updated, changed, err := task.SetUserStatus(status, target, s.now(), actor.Loc())
	if err != nil {
		return domain.Task{}, false, err
	}
	if !changed {
		return task, false, nil
	}

	saved, err := s.save(ctx, updated, actor.Loc())
	if err != nil {
		return domain.Task{}, false, err
	}

	zap.L().Info("task user status changed",
		zap.Uint64("task_id", id),
		zap.Uint64("user_id", target),
		zap.Stringer("user_status", status),
		zap.Stringer("task_status", saved.Status()),
	)

	return saved, true, nil
}

// ActionFlags computes the action flags of userID (the actor when nil) on a loaded task.
func (s *TaskService) ActionFlags(ctx context.Context, actor domain.Actor, task domain.Task, userID *uint64) (domain.ActionFlags, error) {
	target := actor.Target(userID)

	isAdmin, err := s.accessChecker.IsAdmin(ctx, target)
	if err != nil {
		return domain.ActionFlags{}, fmt.Errorf("check admin %d: %w", target, err)
	}

	return task.ActionFlags(target, isAdmin), nil
}

// MigratePending migrates and saves up to limit tasks still stored in the
// legacy shape, walking them by id. Tasks whose legacy row is missing are
// skipped so they never hide the tasks behind them. It returns the number of
// tasks migrated.
func (s *TaskService) MigratePending(ctx context.Context, limit int, dryRun bool) (int, error) {
	if limit <= 0 {
		return 0, nil
	}

	migrated, skipped := 0, 0
	var afterID uint64
	for migrated < limit {
		ids, err := s.taskRepository.ListUnmigratedIDs(ctx, afterID, limit)
		if err != nil {
			return migrated, err
		}
		if len(ids) == 0 {
			break
		}

		for _, id := range ids {
			afterID = id

			task, err := s.load(ctx, id)
			if err != nil {
				return migrated, err
			}
			if !task.IsMigrated() {
				skipped++
				continue
			}

			if dryRun {
				if _, err := domain.Synchronize(task, s.now(), s.location); err != nil {
					return migrated, fmt.Errorf("synchronize migrated task %d: %w", id, err)
				}
			} else if _, err := s.save(ctx, task, s.location); err != nil {
				return migrated, fmt.Errorf("save migrated task %d: %w", id, err)
			}

			migrated++
			if migrated == limit {
				break
			}
		}
	}

	if skipped > 0 {
		zap.L().Info("legacy tasks skipped without legacy row", zap.Int("skipped", skipped))
	}

	return migrated, nil
}

func (s *TaskService) setActive(ctx context.Context, actor domain.Actor, task domain.Task) (domain.Task, error) {
	active, err := task.MarkActive(s.now(), actor.Loc())
	if err != nil {
		return domain.Task{}, err
	}

	return s.save(ctx, active.ResetCompletions(), actor.Loc())
}

func (s *TaskService) loadAllowed(
	ctx context.Context,
	actor domain.Actor,
	id uint64,
	allowed func(domain.ActionFlags) bool,
) (domain.Task, error) {
	task, err := s.load(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}

	flags, err := s.ActionFlags(ctx, actor, task, nil)
	if err != nil {
		return domain.Task{}, err
	}
	if !allowed(flags) {
		return domain.Task{}, domain.ErrActionNotAllowed
	}

	return task, nil
}

func (s *TaskService) load(ctx context.Context, id uint64) (domain.Task, error) {
	task, err := s.taskRepository.Load(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}
	return s.migrator.Migrate(ctx, task)
}

// save synchronizes the task and writes it, so a stored record always
// carries its end date and derived status.
func (s *TaskService) save(ctx context.Context, task domain.Task, loc *time.Location) (domain.Task, error) {
	synced, err := domain.Synchronize(task, s.now(), loc)
	if err != nil {
		return domain.Task{}, err
	}
	if err := s.taskRepository.Update(ctx, synced); err != nil {
		return domain.Task{}, err
	}
	return synced, nil
}

func setOptionalField(data domain.Data, name string, set bool, value *string) {
	if !set {
		return
	}
	if value == nil || strings.TrimSpace(*value) == "" {
		delete(data, name)
		return
	}
	data[name] = strings.TrimSpace(*value)
}

var _ ports.TaskService = (*TaskService)(nil)
