package domain

import "time"

// Status returns the aggregate status, TaskStatusNone when it was never set.
func (t Task) Status() TaskStatus {
	if t.SysData.Status == nil {
		return TaskStatusNone
	}
	return *t.SysData.Status
}

func (t Task) IsClosed() bool {
	return t.Status() == TaskStatusClosed
}

func (t Task) IsOwner(userID uint64) bool {
	return userID != 0 && t.OwnerID == userID
}

// MarkActive reopens the task in memory and re-synchronizes it.
func (t Task) MarkActive(now time.Time, loc *time.Location) (Task, error) {
	out := t.Clone()
	out.SysData.DClosed = nil
	return Synchronize(out, now, loc)
}

// MarkClosed closes the task in memory at now.
func (t Task) MarkClosed(now time.Time) Task {
	out := t.Clone()
	status := TaskStatusClosed
	closedAt := now.UTC().Truncate(time.Second)
	out.SysData.Status = &status
	out.SysData.DClosed = &closedAt
	return out
}

// ResetCompletions forgets every per-user completion.
func (t Task) ResetCompletions() Task {
	out := t.Clone()
	out.SysData.UDone = []uint64{}
	return out
}

func (t Task) UserStatus(userID uint64) UserStatus {
	if containsID(t.SysData.UOngoing, userID) {
		return UserStatusOngoing
	}
	if containsID(t.SysData.UDone, userID) {
		return UserStatusDone
	}
	return UserStatusNone
}

// SetUserStatus moves userID between the ongoing and done lists. It reports
// false without changing anything when the user is not assigned or already
// has the requested status. A successful move closes the task once nobody is
// ongoing and reopens it otherwise.
func (t Task) SetUserStatus(status UserStatus, userID uint64, now time.Time, loc *time.Location) (Task, bool, error) {
	out := t.Clone()
	sd := &out.SysData

	switch status {
	case UserStatusOngoing:
		if !containsID(sd.UDone, userID) {
			return t, false, nil
		}
		sd.UDone = removeID(sd.UDone, userID)
		sd.UOngoing = append(sd.UOngoing, userID)
	case UserStatusDone:
		if !containsID(sd.UOngoing, userID) {
			return t, false, nil
		}
		sd.UOngoing = removeID(sd.UOngoing, userID)
		sd.UDone = append(sd.UDone, userID)
	default:
		return t, false, nil
	}

	out, err := out.checkAutoclose(now, loc)
	if err != nil {
		return t, false, err
	}
	return out, true, nil
}

func (t Task) checkAutoclose(now time.Time, loc *time.Location) (Task, error) {
	if len(t.SysData.UOngoing) == 0 {
		return t.MarkClosed(now), nil
	}
	return t.MarkActive(now, loc)
}

// ActionFlags computes what userID may do with the task. Reopening is
// reserved to the owner, admins can only edit and close.
func (t Task) ActionFlags(userID uint64, isAdmin bool) ActionFlags {
	isOwner := t.IsOwner(userID)
	isClosed := t.IsClosed()
	canEdit := !isClosed && (isAdmin || isOwner)

	return ActionFlags{
		Edit:     canEdit,
		Close:    canEdit,
		Reopen:   isClosed && isOwner,
		Complete: !isClosed && t.UserStatus(userID) == UserStatusOngoing,
	}
}

// EndDate resolves the synchronized due date into an instant, nil when the
// task has no deadline.
func (t Task) EndDate(loc *time.Location) (*time.Time, error) {
	sd := t.SysData
	if sd.DueDate == "" {
		return nil, nil
	}

	end, err := ToInstant(sd.DueDate, sd.DueTime, sd.DueTime == "", loc)
	if err != nil {
		return nil, err
	}
	return &end, nil
}

func (t Task) StatusCSSClass() string {
	class := "task-status"

	switch t.Status() {
	case TaskStatusOverdue:
		class += " task-status-overdue"
	case TaskStatusActive:
		class += " task-status-active"
	case TaskStatusClosed:
		class += " task-status-closed"
	}

	return class
}
