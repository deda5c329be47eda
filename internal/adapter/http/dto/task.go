package dto

type TaskItem struct {
	ID          uint64       `json:"id"`
	OwnerID     uint64       `json:"owner_id"`
	Title       string       `json:"title"`
	Description *string      `json:"description,omitempty"`
	Status      string       `json:"status"`
	StatusCode  int          `json:"status_code"`
	StatusLabel string       `json:"status_label"`
	StatusClass string       `json:"status_class"`
	DueDate     *string      `json:"due_date,omitempty"`
	DueTime     *string      `json:"due_time,omitempty"`
	AllDay      bool         `json:"allday"`
	EndDate     *string      `json:"end_date,omitempty"`
	ClosedAt    *string      `json:"closed_at,omitempty"`
	Assigned    []uint64     `json:"assigned"`
	Ongoing     []uint64     `json:"ongoing"`
	Done        []uint64     `json:"done"`
	UserStatus  string       `json:"user_status"`
	Actions     *ActionFlags `json:"actions,omitempty"`
	CreatedAt   string       `json:"created_at"`
	UpdatedAt   string       `json:"updated_at"`
}

type ActionFlags struct {
	Edit     bool `json:"edit"`
	Close    bool `json:"close"`
	Reopen   bool `json:"reopen"`
	Complete bool `json:"complete"`
}

type CreateTaskRequest struct {
	Title       string   `json:"title" binding:"required,max=255"`
	Description *string  `json:"description" binding:"omitempty,max=65535"`
	DueDate     *string  `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	DueTime     *string  `json:"due_time" binding:"omitempty,max=8"`
	Assigned    []uint64 `json:"assigned" binding:"omitempty,dive,gt=0"`
}

type UpdateTaskRequest struct {
	Title       *string  `json:"title" binding:"omitempty,max=255"`
	Description *string  `json:"description" binding:"omitempty,max=65535"`
	DueDate     *string  `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	DueTime     *string  `json:"due_time" binding:"omitempty,max=8"`
	Assigned    []uint64 `json:"assigned" binding:"omitempty,dive,gt=0"`
}

type UserStatusRequest struct {
	UserID *uint64 `json:"user_id" binding:"omitempty,gt=0"`
}

type UserStatusResponse struct {
	Changed bool     `json:"changed"`
	Task    TaskItem `json:"task"`
}
