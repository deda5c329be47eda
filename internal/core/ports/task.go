package ports

import (
	"context"

	"casetasks/internal/core/domain"
)

// TaskRepository persists tasks as generic objects: the attribute bag, the
// synchronized sys data and the denormalized end date.
type TaskRepository interface {
	Load(ctx context.Context, id uint64) (domain.Task, error)
	Create(ctx context.Context, task domain.Task) (domain.Task, error)
	Update(ctx context.Context, task domain.Task) error
	ListUnmigratedIDs(ctx context.Context, afterID uint64, limit int) ([]uint64, error)
}

// LegacyTaskRepository reads the relational task tables that predate the attribute bag.
type LegacyTaskRepository interface {
	GetLegacyTask(ctx context.Context, id uint64) (domain.LegacyTask, error)
	ListResponsibleUsers(ctx context.Context, taskID uint64) ([]domain.LegacyResponsibleUser, error)
}

type AccessChecker interface {
	IsAdmin(ctx context.Context, userID uint64) (bool, error)
}

type TaskService interface {
	GetTask(ctx context.Context, actor domain.Actor, id uint64) (domain.Task, error)
	CreateTask(ctx context.Context, actor domain.Actor, input domain.CreateTaskInput) (domain.Task, error)
	UpdateTask(ctx context.Context, actor domain.Actor, id uint64, input domain.UpdateTaskInput) (domain.Task, error)
	CloseTask(ctx context.Context, actor domain.Actor, id uint64) (domain.Task, error)
	ReopenTask(ctx context.Context, actor domain.Actor, id uint64) (domain.Task, error)
	ChangeUserStatus(ctx context.Context, actor domain.Actor, id uint64, status domain.UserStatus, userID *uint64) (domain.Task, bool, error)
	ActionFlags(ctx context.Context, actor domain.Actor, task domain.Task, userID *uint64) (domain.ActionFlags, error)
}
