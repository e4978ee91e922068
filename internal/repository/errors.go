package repository

import "errors"

// Sentinel errors surfaced by the write paths. Lookups return sql.ErrNoRows untouched.
var (
	ErrDuplicatePointEntry = errors.New("point entry already recorded for this week")
	ErrArmyIDTaken         = errors.New("army id already in use")
	ErrAlreadyInitialized  = errors.New("admin user already exists")
	ErrSessionNotFound     = errors.New("session not found")
)
