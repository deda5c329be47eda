package domain

import (
	"strconv"
	"strings"
	"time"
)

type TaskStatus int

const (
	TaskStatusNone TaskStatus = iota
	TaskStatusOverdue
	TaskStatusActive
	TaskStatusClosed
	// TaskStatusPending is reserved for dependent tasks; no operation here assigns it.
	TaskStatusPending
)

func (s TaskStatus) String() string {
	switch s {
	case TaskStatusOverdue:
		return "overdue"
	case TaskStatusActive:
		return "active"
	case TaskStatusClosed:
		return "closed"
	case TaskStatusPending:
		return "pending"
	default:
		return "none"
	}
}

func (s TaskStatus) IsValid() bool {
	return s >= TaskStatusNone && s <= TaskStatusPending
}

type UserStatus int

const (
	// UserStatusNone means the user is not assigned to the task.
	UserStatusNone UserStatus = iota
	UserStatusOngoing
	UserStatusDone
)

func (s UserStatus) String() string {
	switch s {
	case UserStatusOngoing:
		return "ongoing"
	case UserStatusDone:
		return "done"
	default:
		return "none"
	}
}

// Field names of the task template stored in the attribute bag.
const (
	FieldTitle       = "_title"
	FieldDueDate     = "due_date"
	FieldDueTime     = "due_time"
	FieldAssigned    = "assigned"
	FieldDescription = "description"
)

type FieldValue struct {
	Value any
}

// Data is the generic attribute bag of an object.
type Data map[string]any

// FieldValue reads a template field. Task templates have no duplicated
// fields, so any index other than 0 yields an empty value.
func (d Data) FieldValue(name string, index int) FieldValue {
	if index != 0 || d == nil {
		return FieldValue{}
	}
	return FieldValue{Value: d[name]}
}

func (d Data) StringValue(name string) string {
	if v, ok := d.FieldValue(name, 0).Value.(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// SysData holds the synchronized task state persisted next to Data.
// A non-nil Status marks a record that no longer needs legacy migration.
type SysData struct {
	Status   *TaskStatus `json:"status,omitempty"`
	DueDate  string      `json:"due_date,omitempty"`
	DueTime  string      `json:"due_time,omitempty"`
	AllDay   bool        `json:"allday"`
	UOngoing []uint64    `json:"u_ongoing"`
	UDone    []uint64    `json:"u_done"`
	DClosed  *time.Time  `json:"d_closed,omitempty"`
}

type Task struct {
	ID        uint64
	OwnerID   uint64
	Data      Data
	SysData   SysData
	DateEnd   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t Task) IsMigrated() bool {
	return t.SysData.Status != nil
}

func (t Task) Title() string {
	return t.Data.StringValue(FieldTitle)
}

func (t Task) Description() string {
	return t.Data.StringValue(FieldDescription)
}

// AssignedIDs returns the assigned users field as a list of user ids.
func (t Task) AssignedIDs() []uint64 {
	return ToIDList(t.Data.FieldValue(FieldAssigned, 0).Value)
}

// Clone returns a deep copy so that callers never share nested state.
func (t Task) Clone() Task {
	out := t

	if t.Data != nil {
		out.Data = make(Data, len(t.Data))
		for key, value := range t.Data {
			out.Data[key] = cloneValue(value)
		}
	}

	if t.SysData.Status != nil {
		status := *t.SysData.Status
		out.SysData.Status = &status
	}
	if t.SysData.DClosed != nil {
		closed := *t.SysData.DClosed
		out.SysData.DClosed = &closed
	}
	out.SysData.UOngoing = cloneIDs(t.SysData.UOngoing)
	out.SysData.UDone = cloneIDs(t.SysData.UDone)

	if t.DateEnd != nil {
		end := *t.DateEnd
		out.DateEnd = &end
	}

	return out
}

type ActionFlags struct {
	Edit     bool `json:"edit"`
	Close    bool `json:"close"`
	Reopen   bool `json:"reopen"`
	Complete bool `json:"complete"`
}

// Actor is the identity on whose behalf an operation runs.
type Actor struct {
	UserID   uint64
	Location *time.Location
}

func (a Actor) Loc() *time.Location {
	if a.Location == nil {
		return time.UTC
	}
	return a.Location
}

// Target returns userID when given, otherwise the actor's own id.
func (a Actor) Target(userID *uint64) uint64 {
	if userID != nil && *userID != 0 {
		return *userID
	}
	return a.UserID
}

type CreateTaskInput struct {
	Title       string
	Description *string
	DueDate     *string
	DueTime     *string
	Assigned    []uint64
}

type UpdateTaskInput struct {
	Title          *string
	Description    *string
	DescriptionSet bool
	DueDate        *string
	DueDateSet     bool
	DueTime        *string
	DueTimeSet     bool
	Assigned       []uint64
	AssignedSet    bool
}

// LegacyTask is a row of the old tasks table.
type LegacyTask struct {
	ID          uint64
	Title       string
	DateStart   *time.Time
	DateEnd     *time.Time
	AllDay      int
	Assigned    string
	Description string
	Status      int
	CompletedAt *time.Time
}

// LegacyAllDayTimed is the allday column value of legacy tasks due at a specific time.
const LegacyAllDayTimed = -1

type LegacyResponsibleUser struct {
	UserID uint64
	Status int
}

// LegacyResponsibleDone is the per-user status flag of a legacy responsible user who completed the task.
const LegacyResponsibleDone = 1

// ToIDList converts an assigned field value into user ids. It accepts comma
// separated strings as well as decoded JSON lists and drops anything that is
// not a positive integer.
func ToIDList(value any) []uint64 {
	ids := make([]uint64, 0)

	switch v := value.(type) {
	case nil:
	case []uint64:
		for _, id := range v {
			ids = appendID(ids, id)
		}
	case []int:
		for _, id := range v {
			if id > 0 {
				ids = appendID(ids, uint64(id))
			}
		}
	case []any:
		for _, item := range v {
			ids = append(ids, ToIDList(item)...)
		}
	case string:
		for _, part := range strings.Split(v, ",") {
			id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
			if err == nil {
				ids = appendID(ids, id)
			}
		}
	case float64:
		if v > 0 && v == float64(uint64(v)) {
			ids = appendID(ids, uint64(v))
		}
	case int:
		if v > 0 {
			ids = appendID(ids, uint64(v))
		}
	case int64:
		if v > 0 {
			ids = appendID(ids, uint64(v))
		}
	case uint64:
		ids = appendID(ids, v)
	}

	return ids
}

func appendID(ids []uint64, id uint64) []uint64 {
	if id == 0 || containsID(ids, id) {
		return ids
	}
	return append(ids, id)
}

func containsID(ids []uint64, id uint64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func removeID(ids []uint64, id uint64) []uint64 {
	out := make([]uint64, 0, len(ids))
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}

func subtractIDs(ids, remove []uint64) []uint64 {
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if !containsID(remove, id) {
			out = append(out, id)
		}
	}
	return out
}

func cloneIDs(ids []uint64) []uint64 {
	if ids == nil {
		return nil
	}
	out := make([]uint64, len(ids))
	copy(out, ids)
	return out
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case []uint64:
		return cloneIDs(v)
	case []any:
		out := make([]any, len(v))
		copy(out, v)
		return out
	default:
		return v
	}
}
