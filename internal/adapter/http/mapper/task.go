package mapper

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"casetasks/internal/adapter/http/dto"
	"casetasks/internal/core/domain"
	"casetasks/pkg/translator"
)

// View carries the request context a task is rendered for.
type View struct {
	UserID   uint64
	Location *time.Location
	Lang     string
	Actions  *domain.ActionFlags
}

func ToTaskItem(task domain.Task, view View) dto.TaskItem {
	status := task.Status()
	sd := task.SysData

	item := dto.TaskItem{
		ID:          task.ID,
		OwnerID:     task.OwnerID,
		Title:       task.Title(),
		Status:      status.String(),
		StatusCode:  int(status),
		StatusLabel: translator.Translate(fmt.Sprintf("taskStatus%d", status), view.Lang),
		StatusClass: task.StatusCSSClass(),
		AllDay:      sd.AllDay,
		Assigned:    task.AssignedIDs(),
		Ongoing:     nonNilIDs(sd.UOngoing),
		Done:        nonNilIDs(sd.UDone),
		UserStatus:  task.UserStatus(view.UserID).String(),
		CreatedAt:   task.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   task.UpdatedAt.UTC().Format(time.RFC3339),
	}

	if description := task.Description(); description != "" {
		item.Description = &description
	}

	if sd.DueDate != "" {
		value := sd.DueDate
		item.DueDate = &value
	}

	if sd.DueTime != "" {
		value := sd.DueTime
		item.DueTime = &value
	}

	endDate, err := task.EndDate(view.Location)
	if err != nil {
		zap.L().Warn("failed to resolve task end date", zap.Uint64("task_id", task.ID), zap.Error(err))
	} else if endDate != nil {
		value := endDate.Format(time.RFC3339)
		item.EndDate = &value
	}

	if sd.DClosed != nil {
		value := sd.DClosed.UTC().Format(time.RFC3339)
		item.ClosedAt = &value
	}

	if view.Actions != nil {
		item.Actions = ToActionFlags(*view.Actions)
	}

	return item
}

func ToActionFlags(flags domain.ActionFlags) *dto.ActionFlags {
	return &dto.ActionFlags{
		Edit:     flags.Edit,
		Close:    flags.Close,
		Reopen:   flags.Reopen,
		Complete: flags.Complete,
	}
}

func nonNilIDs(ids []uint64) []uint64 {
	if ids == nil {
		return []uint64{}
	}
	return ids
}
