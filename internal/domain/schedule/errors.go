package schedule

import "errors"

var (
	ErrNoScheduleForDate = errors.New("no confirmed schedule entry for the requested date")
)
