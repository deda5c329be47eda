package apierrors

const (
	MsgInvalidTaskID        = "invalidTaskID"
	MsgInvalidTaskPayload   = "invalidTaskPayload"
	MsgInvalidDateFormat    = "invalidDateFormat"
	MsgInvalidUserID        = "invalidUserID"
	MsgTaskNotFound         = "taskNotFound"
	MsgActionNotAllowed     = "actionNotAllowed"
	MsgUnauthenticated      = "unauthenticated"
	MsgFailLoadTask         = "failLoadTask"
	MsgFailCreateTask       = "failCreateTask"
	MsgFailUpdateTask       = "failUpdateTask"
	MsgFailCloseTask        = "failCloseTask"
	MsgFailReopenTask       = "failReopenTask"
	MsgFailChangeUserStatus = "failChangeUserStatus"
)
