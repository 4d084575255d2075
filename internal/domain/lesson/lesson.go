package lesson

import "time"

// RoleLevel selects which lesson track a cohort follows.
type RoleLevel string

const (
	RoleAgent      RoleLevel = "agent"
	RoleLead       RoleLevel = "lead"
	RoleSupervisor RoleLevel = "supervisor"
	RoleManager    RoleLevel = "manager"
	RoleExecutive  RoleLevel = "executive"
)

// Valid reports whether the role level is one of the known tracks.
func (r RoleLevel) Valid() bool {
	switch r {
	case RoleAgent, RoleLead, RoleSupervisor, RoleManager, RoleExecutive:
		return true
	}
	return false
}

// Lesson is one day of content for a role track.
// At most one lesson exists per (role_level, day_number); the import path
// guarantees this via the lessons_role_day_unique index.
type Lesson struct {
	ID                 int64
	RoleLevel          RoleLevel
	DayNumber          int
	Title              string
	LessonText         string
	ActionText         string
	ReflectionQuestion string
	CreatedAt          time.Time
}
