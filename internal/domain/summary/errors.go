package summary

import "errors"

var (
	ErrSummaryNotFound = errors.New("adherence summary not found")
)
