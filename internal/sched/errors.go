package sched

import "errors"

var (
	ErrInvalidTask   = errors.New("invalid task")
	ErrDuplicateTask = errors.New("task already exists")
	ErrUnknownPolicy = errors.New("unknown scheduling policy")
	ErrBacklogFull   = errors.New("notification backlog full")
	ErrClosed        = errors.New("dispatcher closed")
)
