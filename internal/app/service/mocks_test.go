package service

import (
	"context"

	"casetasks/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

type taskRepositoryMock struct {
	mock.Mock
}

func (m *taskRepositoryMock) Load(ctx context.Context, id uint64) (domain.Task, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskRepositoryMock) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	args := m.Called(ctx, task)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskRepositoryMock) Update(ctx context.Context, task domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *taskRepositoryMock) ListUnmigratedIDs(ctx context.Context, afterID uint64, limit int) ([]uint64, error) {
	args := m.Called(ctx, afterID, limit)

	var ids []uint64
	if value := args.Get(0); value != nil {
		ids = value.([]uint64)
	}
	return ids, args.Error(1)
}

type legacyRepositoryMock struct {
	mock.Mock
}

func (m *legacyRepositoryMock) GetLegacyTask(ctx context.Context, id uint64) (domain.LegacyTask, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.LegacyTask), args.Error(1)
}

func (m *legacyRepositoryMock) ListResponsibleUsers(ctx context.Context, taskID uint64) ([]domain.LegacyResponsibleUser, error) {
	args := m.Called(ctx, taskID)

	var users []domain.LegacyResponsibleUser
	if value := args.Get(0); value != nil {
		users = value.([]domain.LegacyResponsibleUser)
	}
	return users, args.Error(1)
}

type accessCheckerMock struct {
	mock.Mock
}

func (m *accessCheckerMock) IsAdmin(ctx context.Context, userID uint64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}
