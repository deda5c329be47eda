package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"casetasks/internal/adapter/http/dto"
	"casetasks/internal/adapter/http/mapper"
	"casetasks/internal/adapter/http/middleware"
	"casetasks/internal/adapter/http/validation"
	"casetasks/internal/core/domain"
	"casetasks/internal/core/ports"
	"casetasks/pkg/apierrors"
)

type TaskHandler struct {
	taskService ports.TaskService
}

func NewTaskHandler(taskService ports.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	actor := middleware.GetActor(c)
	task, err := h.taskService.GetTask(c.Request.Context(), actor, taskID)
	if err != nil {
		writeTaskError(c, err, taskID, apierrors.MsgFailLoadTask)
		return
	}

	h.respondWithTask(c, http.StatusOK, task)
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	lang := middleware.GetLang(c)

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	input, err := validation.BuildCreateTaskInput(req)
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), middleware.GetActor(c), input)
	if err != nil {
		writeTaskError(c, err, 0, apierrors.MsgFailCreateTask)
		return
	}

	h.respondWithTask(c, http.StatusCreated, task)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	lang := middleware.GetLang(c)

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	var raw map[string]json.RawMessage
	var req dto.UpdateTaskRequest
	if json.Unmarshal(body, &raw) != nil || json.Unmarshal(body, &req) != nil || binding.Validator.ValidateStruct(&req) != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	input, err := validation.BuildUpdateTaskInput(req, raw)
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), middleware.GetActor(c), taskID, input)
	if err != nil {
		writeTaskError(c, err, taskID, apierrors.MsgFailUpdateTask)
		return
	}

	h.respondWithTask(c, http.StatusOK, task)
}

func (h *TaskHandler) CloseTask(c *gin.Context) {
	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.CloseTask(c.Request.Context(), middleware.GetActor(c), taskID)
	if err != nil {
		writeTaskError(c, err, taskID, apierrors.MsgFailCloseTask)
		return
	}

	h.respondWithTask(c, http.StatusOK, task)
}

func (h *TaskHandler) ReopenTask(c *gin.Context) {
	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.ReopenTask(c.Request.Context(), middleware.GetActor(c), taskID)
	if err != nil {
		writeTaskError(c, err, taskID, apierrors.MsgFailReopenTask)
		return
	}

	h.respondWithTask(c, http.StatusOK, task)
}

func (h *TaskHandler) CompleteTask(c *gin.Context) {
	h.changeUserStatus(c, domain.UserStatusDone)
}

func (h *TaskHandler) RevokeCompletion(c *gin.Context) {
	h.changeUserStatus(c, domain.UserStatusOngoing)
}

func (h *TaskHandler) GetActionFlags(c *gin.Context) {
	lang := middleware.GetLang(c)

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	var userID *uint64
	if value := c.Query("user_id"); value != "" {
		parsed, err := strconv.ParseUint(value, 10, 64)
		if err != nil || parsed == 0 {
			c.JSON(
				http.StatusBadRequest,
				apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidUserID, lang),
			)
			return
		}
		userID = &parsed
	}

	actor := middleware.GetActor(c)
	task, err := h.taskService.GetTask(c.Request.Context(), actor, taskID)
	if err != nil {
		writeTaskError(c, err, taskID, apierrors.MsgFailLoadTask)
		return
	}

	flags, err := h.taskService.ActionFlags(c.Request.Context(), actor, task, userID)
	if err != nil {
		writeTaskError(c, err, taskID, apierrors.MsgFailLoadTask)
		return
	}

	c.JSON(http.StatusOK, mapper.ToActionFlags(flags))
}

func (h *TaskHandler) changeUserStatus(c *gin.Context, status domain.UserStatus) {
	lang := middleware.GetLang(c)

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	var req dto.UserStatusRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(
				http.StatusBadRequest,
				apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidUserID, lang),
			)
			return
		}
	}

	task, changed, err := h.taskService.ChangeUserStatus(
		c.Request.Context(),
		middleware.GetActor(c),
		taskID,
		status,
		req.UserID,
	)
	if err != nil {
		writeTaskError(c, err, taskID, apierrors.MsgFailChangeUserStatus)
		return
	}

	item, ok := h.taskItem(c, task)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.UserStatusResponse{Changed: changed, Task: item})
}

func (h *TaskHandler) respondWithTask(c *gin.Context, code int, task domain.Task) {
	item, ok := h.taskItem(c, task)
	if !ok {
		return
	}
	c.JSON(code, item)
}

func (h *TaskHandler) taskItem(c *gin.Context, task domain.Task) (dto.TaskItem, bool) {
	actor := middleware.GetActor(c)

	flags, err := h.taskService.ActionFlags(c.Request.Context(), actor, task, nil)
	if err != nil {
		writeTaskError(c, err, task.ID, apierrors.MsgFailLoadTask)
		return dto.TaskItem{}, false
	}

	return mapper.ToTaskItem(task, mapper.View{
		UserID:   actor.UserID,
		Location: actor.Loc(),
		Lang:     middleware.GetLang(c),
		Actions:  &flags,
	}), true
}

func parseTaskID(c *gin.Context) (uint64, bool) {
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || taskID == 0 {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskID, middleware.GetLang(c)),
		)
		return 0, false
	}
	return taskID, true
}

func writeTaskError(c *gin.Context, err error, taskID uint64, failMsgKey string) {
	lang := middleware.GetLang(c)

	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, apierrors.CreateError(http.StatusNotFound, apierrors.MsgTaskNotFound, lang))
	case errors.Is(err, domain.ErrActionNotAllowed):
		c.JSON(http.StatusForbidden, apierrors.CreateError(http.StatusForbidden, apierrors.MsgActionNotAllowed, lang))
	case errors.Is(err, domain.ErrInvalidDateFormat):
		c.JSON(http.StatusBadRequest, apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidDateFormat, lang))
	default:
		zap.L().Error("task request failed",
			zap.Uint64("task_id", taskID),
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("message_id", failMsgKey),
			zap.Error(err),
		)
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, failMsgKey, lang),
		)
	}
}
