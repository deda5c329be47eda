package domain

import (
	"fmt"
	"strings"
	"time"
)

// Synchronize recomputes the derived state of a task from its fields: the
// due date mirror, the denormalized end date, the ongoing users and the
// aggregate status. It does no I/O and returns a new value; the input task
// is left untouched, including on error.
func Synchronize(task Task, now time.Time, loc *time.Location) (Task, error) {
	out := task.Clone()
	sd := &out.SysData

	dueDate, err := temporalField(out.Data, FieldDueDate)
	if err != nil {
		return task, err
	}
	dueTime, err := temporalField(out.Data, FieldDueTime)
	if err != nil {
		return task, err
	}

	sd.DueDate = dueDate
	sd.DueTime = dueTime
	sd.AllDay = sd.DueTime == ""

	out.DateEnd = nil
	if sd.DueDate != "" {
		end, err := ToInstant(sd.DueDate, sd.DueTime, sd.AllDay, loc)
		if err != nil {
			return task, err
		}
		out.DateEnd = &end
	}

	// Done entries survive reassignment, only ongoing is rebuilt.
	if sd.UDone == nil {
		sd.UDone = []uint64{}
	}
	sd.UOngoing = subtractIDs(out.AssignedIDs(), sd.UDone)

	status := TaskStatusActive
	switch {
	case sd.DClosed != nil:
		status = TaskStatusClosed
	case out.DateEnd != nil && IsPast(*out.DateEnd, now):
		status = TaskStatusOverdue
	}
	sd.Status = &status

	return out, nil
}

// temporalField reads a due date or time field. Anything other than a string
// or an absent value is rejected.
func temporalField(data Data, name string) (string, error) {
	switch v := data.FieldValue(name, 0).Value.(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(v), nil
	default:
		return "", fmt.Errorf("%w: %s has type %T", ErrInvalidDateFormat, name, v)
	}
}
