package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"casetasks/internal/adapter/http/dto"
	"casetasks/internal/core/domain"
)

var ErrInvalidTaskPayload = errors.New("invalid task payload")

var taskUpdateFields = []string{"title", "description", "due_date", "due_time", "assigned"}

func BuildCreateTaskInput(req dto.CreateTaskRequest) (domain.CreateTaskInput, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.CreateTaskInput{}, ErrInvalidTaskPayload
	}

	// A due time without a due date has nothing to attach to.
	if req.DueTime != nil && strings.TrimSpace(*req.DueTime) != "" && req.DueDate == nil {
		return domain.CreateTaskInput{}, ErrInvalidTaskPayload
	}

	return domain.CreateTaskInput{
		Title:       title,
		Description: req.Description,
		DueDate:     trimmed(req.DueDate),
		DueTime:     trimmed(req.DueTime),
		Assigned:    req.Assigned,
	}, nil
}

func BuildUpdateTaskInput(req dto.UpdateTaskRequest, raw map[string]json.RawMessage) (domain.UpdateTaskInput, error) {
	if !hasAnyJSONField(raw, taskUpdateFields...) {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}

	var title *string
	if hasJSONField(raw, "title") && req.Title == nil {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}
	if req.Title != nil {
		value := strings.TrimSpace(*req.Title)
		if value == "" {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		title = &value
	}

	descriptionSet := hasJSONField(raw, "description")
	if descriptionSet && !isJSONNull(raw["description"]) && req.Description == nil {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}

	dueDateSet := hasJSONField(raw, "due_date")
	if dueDateSet && !isJSONNull(raw["due_date"]) && req.DueDate == nil {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}

	dueTimeSet := hasJSONField(raw, "due_time")
	if dueTimeSet && !isJSONNull(raw["due_time"]) && req.DueTime == nil {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}

	assignedSet := hasJSONField(raw, "assigned")

	return domain.UpdateTaskInput{
		Title:          title,
		Description:    req.Description,
		DescriptionSet: descriptionSet,
		DueDate:        trimmed(req.DueDate),
		DueDateSet:     dueDateSet,
		DueTime:        trimmed(req.DueTime),
		DueTimeSet:     dueTimeSet,
		Assigned:       req.Assigned,
		AssignedSet:    assignedSet,
	}, nil
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	out := strings.TrimSpace(*value)
	return &out
}

func hasAnyJSONField(raw map[string]json.RawMessage, fields ...string) bool {
	for _, field := range fields {
		if hasJSONField(raw, field) {
			return true
		}
	}
	return false
}

func hasJSONField(raw map[string]json.RawMessage, field string) bool {
	_, ok := raw[field]
	return ok
}

func isJSONNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}
