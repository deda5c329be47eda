package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"casetasks/internal/adapter/http/dto"
	"casetasks/internal/adapter/http/handlers"
	"casetasks/internal/adapter/http/middleware"
	"casetasks/internal/core/domain"
	"casetasks/pkg/apierrors"
	"casetasks/pkg/translator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type taskServiceMock struct {
	mock.Mock
}

func (m *taskServiceMock) GetTask(ctx context.Context, actor domain.Actor, id uint64) (domain.Task, error) {
	args := m.Called(ctx, actor, id)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) CreateTask(ctx context.Context, actor domain.Actor, input domain.CreateTaskInput) (domain.Task, error) {
	args := m.Called(ctx, actor, input)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) UpdateTask(ctx context.Context, actor domain.Actor, id uint64, input domain.UpdateTaskInput) (domain.Task, error) {
	args := m.Called(ctx, actor, id, input)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) CloseTask(ctx context.Context, actor domain.Actor, id uint64) (domain.Task, error) {
	args := m.Called(ctx, actor, id)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) ReopenTask(ctx context.Context, actor domain.Actor, id uint64) (domain.Task, error) {
	args := m.Called(ctx, actor, id)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) ChangeUserStatus(
	ctx context.Context,
	actor domain.Actor,
	id uint64,
	status domain.UserStatus,
	userID *uint64,
) (domain.Task, bool, error) {
	args := m.Called(ctx, actor, id, status, userID)
	return args.Get(0).(domain.Task), args.Bool(1), args.Error(2)
}

func (m *taskServiceMock) ActionFlags(ctx context.Context, actor domain.Actor, task domain.Task, userID *uint64) (domain.ActionFlags, error) {
	args := m.Called(ctx, actor, task, userID)
	return args.Get(0).(domain.ActionFlags), args.Error(1)
}

func newTaskRouter(serviceMock *taskServiceMock) *gin.Engine {
	handler := handlers.NewTaskHandler(serviceMock)

	router := gin.New()
	tasks := router.Group("/api/tasks", middleware.LanguageMiddleware(), middleware.ActorMiddleware(time.UTC))
	tasks.POST("", handler.CreateTask)
	tasks.GET("/:id", handler.GetTask)
	tasks.PATCH("/:id", handler.UpdateTask)
	tasks.GET("/:id/actions", handler.GetActionFlags)
	tasks.POST("/:id/close", handler.CloseTask)
	tasks.POST("/:id/reopen", handler.ReopenTask)
	tasks.POST("/:id/complete", handler.CompleteTask)
	tasks.POST("/:id/incomplete", handler.RevokeCompletion)
	return router
}

func doRequest(router *gin.Engine, method, path string, body any, userID string) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Accept-Language", translator.LanguageEn)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(middleware.HeaderUserID, userID)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apierrors.JsonErr {
	t.Helper()
	var got apierrors.JsonErr
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	return got
}

func actorMatcher(userID uint64) any {
	return mock.MatchedBy(func(actor domain.Actor) bool { return actor.UserID == userID })
}

func sampleTask() domain.Task {
	status := domain.TaskStatusActive
	return domain.Task{
		ID:      1,
		OwnerID: 2,
		Data: domain.Data{
			domain.FieldTitle:       "Prepare hearing",
			domain.FieldDescription: "bring the exhibits",
			domain.FieldDueDate:     "2031-05-04",
			domain.FieldDueTime:     "16:45:00",
			domain.FieldAssigned:    []uint64{3, 4},
		},
		SysData: domain.SysData{
			Status:   &status,
			DueDate:  "2031-05-04",
			DueTime:  "16:45:00",
			UOngoing: []uint64{3},
			UDone:    []uint64{4},
		},
		CreatedAt: time.Date(2026, 2, 13, 10, 20, 30, 0, time.UTC),
		UpdatedAt: time.Date(2026, 2, 13, 11, 20, 30, 0, time.UTC),
	}
}

func TestTaskHandler_GetTask_Success(t *testing.T) {
	task := sampleTask()

	serviceMock := new(taskServiceMock)
	serviceMock.On("GetTask", mock.Anything, actorMatcher(3), uint64(1)).Return(task, nil).Once()
	serviceMock.On("ActionFlags", mock.Anything, actorMatcher(3), task, (*uint64)(nil)).
		Return(domain.ActionFlags{Complete: true}, nil).Once()

	rec := doRequest(newTaskRouter(serviceMock), http.MethodGet, "/api/tasks/1", nil, "3")

	require.Equal(t, http.StatusOK, rec.Code)

	var got dto.TaskItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, uint64(1), got.ID)
	require.Equal(t, uint64(2), got.OwnerID)
	require.Equal(t, "Prepare hearing", got.Title)
	require.Equal(t, "bring the exhibits", *got.Description)
	require.Equal(t, "active", got.Status)
	require.Equal(t, 2, got.StatusCode)
	require.Equal(t, "Active", got.StatusLabel)
	require.Equal(t, "task-status task-status-active", got.StatusClass)
	require.Equal(t, "2031-05-04", *got.DueDate)
	require.Equal(t, "16:45:00", *got.DueTime)
	require.Equal(t, "2031-05-04T16:45:00Z", *got.EndDate)
	require.Nil(t, got.ClosedAt)
	require.Equal(t, []uint64{3, 4}, got.Assigned)
	require.Equal(t, []uint64{3}, got.Ongoing)
	require.Equal(t, []uint64{4}, got.Done)
	require.Equal(t, "ongoing", got.UserStatus)
	require.Equal(t, &dto.ActionFlags{Complete: true}, got.Actions)
	require.Equal(t, "2026-02-13T10:20:30Z", got.CreatedAt)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_GetTask_MissingActor(t *testing.T) {
	serviceMock := new(taskServiceMock)

	rec := doRequest(newTaskRouter(serviceMock), http.MethodGet, "/api/tasks/1", nil, "")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Missing or invalid user identity", decodeError(t, rec).ErrDetails.Message)
	serviceMock.AssertNotCalled(t, "GetTask", mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskHandler_GetTask_InvalidTaskID(t *testing.T) {
	serviceMock := new(taskServiceMock)

	rec := doRequest(newTaskRouter(serviceMock), http.MethodGet, "/api/tasks/invalid", nil, "3")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	got := decodeError(t, rec)
	require.Equal(t, http.StatusBadRequest, got.ErrDetails.Code)
	require.Equal(t, "Invalid id", got.ErrDetails.Message)
}

func TestTaskHandler_GetTask_NotFound(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("GetTask", mock.Anything, actorMatcher(3), uint64(999)).Return(domain.Task{}, domain.ErrTaskNotFound).Once()

	rec := doRequest(newTaskRouter(serviceMock), http.MethodGet, "/api/tasks/999", nil, "3")

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Task not found", decodeError(t, rec).ErrDetails.Message)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_GetTask_Error(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("GetTask", mock.Anything, actorMatcher(3), uint64(1)).Return(domain.Task{}, errors.New("db is down")).Once()

	rec := doRequest(newTaskRouter(serviceMock), http.MethodGet, "/api/tasks/1", nil, "3")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	got := decodeError(t, rec)
	require.Equal(t, http.StatusInternalServerError, got.ErrDetails.Code)
	require.Equal(t, "Error fetching the task", got.ErrDetails.Message)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_CreateTask_Success(t *testing.T) {
	task := sampleTask()

	serviceMock := new(taskServiceMock)
	serviceMock.On("CreateTask", mock.Anything, actorMatcher(2), mock.MatchedBy(func(input domain.CreateTaskInput) bool {
		return input.Title == "Prepare hearing" &&
			input.DueDate != nil && *input.DueDate == "2031-05-04" &&
			len(input.Assigned) == 2
	})).Return(task, nil).Once()
	serviceMock.On("ActionFlags", mock.Anything, actorMatcher(2), task, (*uint64)(nil)).
		Return(domain.ActionFlags{Edit: true, Close: true}, nil).Once()

	rec := doRequest(newTaskRouter(serviceMock), http.MethodPost, "/api/tasks", map[string]any{
		"title":    "Prepare hearing",
		"due_date": "2031-05-04",
		"assigned": []uint64{3, 4},
	}, "2")

	require.Equal(t, http.StatusCreated, rec.Code)

	var got dto.TaskItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, uint64(1), got.ID)
	require.True(t, got.Actions.Edit)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_CreateTask_InvalidPayload(t *testing.T) {
	serviceMock := new(taskServiceMock)

	rec := doRequest(newTaskRouter(serviceMock), http.MethodPost, "/api/tasks", map[string]any{
		"due_date": "04/05/2031",
	}, "2")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid task payload", decodeError(t, rec).ErrDetails.Message)
	serviceMock.AssertNotCalled(t, "CreateTask", mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskHandler_CreateTask_InvalidDate(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("CreateTask", mock.Anything, actorMatcher(2), mock.Anything).
		Return(domain.Task{}, domain.ErrInvalidDateFormat).Once()

	rec := doRequest(newTaskRouter(serviceMock), http.MethodPost, "/api/tasks", map[string]any{
		"title":    "Prepare hearing",
		"due_date": "2031-05-04",
		"due_time": "25:99",
	}, "2")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid due date or time", decodeError(t, rec).ErrDetails.Message)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_UpdateTask_ClearsDueTime(t *testing.T) {
	task := sampleTask()

	serviceMock := new(taskServiceMock)
	serviceMock.On("UpdateTask", mock.Anything, actorMatcher(2), uint64(1), mock.MatchedBy(func(input domain.UpdateTaskInput) bool {
		return input.Title != nil && *input.Title == "Renamed" &&
			input.DueTimeSet && input.DueTime == nil &&
			!input.DueDateSet && !input.AssignedSet
	})).Return(task, nil).Once()
	serviceMock.On("ActionFlags", mock.Anything, actorMatcher(2), task, (*uint64)(nil)).
		Return(domain.ActionFlags{Edit: true, Close: true}, nil).Once()

	rec := doRequest(newTaskRouter(serviceMock), http.MethodPatch, "/api/tasks/1", map[string]any{
		"title":    "Renamed",
		"due_time": nil,
	}, "2")

	require.Equal(t, http.StatusOK, rec.Code)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_UpdateTask_Forbidden(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("UpdateTask", mock.Anything, actorMatcher(5), uint64(1), mock.Anything).
		Return(domain.Task{}, domain.ErrActionNotAllowed).Once()

	rec := doRequest(newTaskRouter(serviceMock), http.MethodPatch, "/api/tasks/1", map[string]any{"title": "Renamed"}, "5")

	require.Equal(t, http.StatusForbidden, rec.Code)
	got := decodeError(t, rec)
	require.Equal(t, http.StatusForbidden, got.ErrDetails.Code)
	require.Equal(t, "You are not allowed to perform this action on the task", got.ErrDetails.Message)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_CloseTask_Success(t *testing.T) {
	closedAt := time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC)
	task := sampleTask().MarkClosed(closedAt)

	serviceMock := new(taskServiceMock)
	serviceMock.On("CloseTask", mock.Anything, actorMatcher(2), uint64(1)).Return(task, nil).Once()
	serviceMock.On("ActionFlags", mock.Anything, actorMatcher(2), task, (*uint64)(nil)).
		Return(domain.ActionFlags{Reopen: true}, nil).Once()

	rec := doRequest(newTaskRouter(serviceMock), http.MethodPost, "/api/tasks/1/close", nil, "2")

	require.Equal(t, http.StatusOK, rec.Code)

	var got dto.TaskItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "closed", got.Status)
	require.Equal(t, "2026-02-14T09:00:00Z", *got.ClosedAt)
	require.True(t, got.Actions.Reopen)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_ReopenTask_Forbidden(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("ReopenTask", mock.Anything, actorMatcher(5), uint64(1)).Return(domain.Task{}, domain.ErrActionNotAllowed).Once()

	rec := doRequest(newTaskRouter(serviceMock), http.MethodPost, "/api/tasks/1/reopen", nil, "5")

	require.Equal(t, http.StatusForbidden, rec.Code)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_CompleteTask_ForSelf(t *testing.T) {
	task := sampleTask()

	serviceMock := new(taskServiceMock)
	serviceMock.On("ChangeUserStatus", mock.Anything, actorMatcher(3), uint64(1), domain.UserStatusDone, (*uint64)(nil)).
		Return(task, true, nil).Once()
	serviceMock.On("ActionFlags", mock.Anything, actorMatcher(3), task, (*uint64)(nil)).
		Return(domain.ActionFlags{}, nil).Once()

	rec := doRequest(newTaskRouter(serviceMock), http.MethodPost, "/api/tasks/1/complete", nil, "3")

	require.Equal(t, http.StatusOK, rec.Code)

	var got dto.UserStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.True(t, got.Changed)
	require.Equal(t, uint64(1), got.Task.ID)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_RevokeCompletion_ForOtherUser(t *testing.T) {
	task := sampleTask()

	serviceMock := new(taskServiceMock)
	serviceMock.On("ChangeUserStatus", mock.Anything, actorMatcher(2), uint64(1), domain.UserStatusOngoing,
		mock.MatchedBy(func(userID *uint64) bool { return userID != nil && *userID == 4 }),
	).Return(task, false, nil).Once()
	serviceMock.On("ActionFlags", mock.Anything, actorMatcher(2), task, (*uint64)(nil)).
		Return(domain.ActionFlags{Edit: true, Close: true}, nil).Once()

	rec := doRequest(newTaskRouter(serviceMock), http.MethodPost, "/api/tasks/1/incomplete", map[string]any{"user_id": 4}, "2")

	require.Equal(t, http.StatusOK, rec.Code)

	var got dto.UserStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.False(t, got.Changed)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_GetActionFlags_ForOtherUser(t *testing.T) {
	task := sampleTask()

	serviceMock := new(taskServiceMock)
	serviceMock.On("GetTask", mock.Anything, actorMatcher(2), uint64(1)).Return(task, nil).Once()
	serviceMock.On("ActionFlags", mock.Anything, actorMatcher(2), task,
		mock.MatchedBy(func(userID *uint64) bool { return userID != nil && *userID == 3 }),
	).Return(domain.ActionFlags{Complete: true}, nil).Once()

	rec := doRequest(newTaskRouter(serviceMock), http.MethodGet, "/api/tasks/1/actions?user_id=3", nil, "2")

	require.Equal(t, http.StatusOK, rec.Code)

	var got dto.ActionFlags
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, dto.ActionFlags{Complete: true}, got)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_GetActionFlags_InvalidUserID(t *testing.T) {
	serviceMock := new(taskServiceMock)

	rec := doRequest(newTaskRouter(serviceMock), http.MethodGet, "/api/tasks/1/actions?user_id=abc", nil, "2")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid user id", decodeError(t, rec).ErrDetails.Message)
}
