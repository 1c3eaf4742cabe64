package scenario

import (
	"errors"

	"github.com/dohr-michael/tracker/internal/tasks"
)

// errorCodes maps the names used by expect_error to manager errors.
var errorCodes = map[string]error{
	"invalid_time_window": tasks.ErrInvalidTimeWindow,
	"unknown_parent_epic": tasks.ErrUnknownParentEpic,
	"unknown_identity":    tasks.ErrUnknownIdentity,
	"identity_in_use":     tasks.ErrIdentityInUse,
	"invalid_status":      tasks.ErrInvalidStatus,
	"invalid_duration":    tasks.ErrInvalidDuration,
}

// ErrorCode returns the expect_error name of a manager error, or "" when
// err matches none of them.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	for code, target := range errorCodes {
		if errors.Is(err, target) {
			return code
		}
	}
	return ""
}
