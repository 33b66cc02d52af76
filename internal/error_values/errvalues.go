package errorvalues

import "errors"

var (
	ErrUserExists       = errors.New("such user already exists")
	ErrUserNotFound     = errors.New("user doesn't exists")
	ErrWrongCredentials = errors.New("wrong email or password")
	ErrInvalidToken     = errors.New("invalid token")
	ErrInvalidUser      = errors.New("invalid user data")

	// Returned both for missing habits and for habits owned by another user
	ErrHabitNotFound = errors.New("habit not found")
	ErrInvalidHabit  = errors.New("invalid habit data")

	// Unique (habit, date) violation
	ErrCheckExist  = errors.New("check for this date already exists")
	ErrInvalidDate = errors.New("invalid check date")
)
