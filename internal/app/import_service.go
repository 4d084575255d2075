// internal/app/import_service.go
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/aqsa08/training-mvp-backend/internal/domain/lesson"

	"github.com/sirupsen/logrus"
)

// ImportSummary reports what one lesson import run did.
type ImportSummary struct {
	Total    int
	Inserted int
	Updated  int
	Skipped  int
}

// lessonRecord is the JSON shape of one lesson in an import file. day_number
// may be a number or a numeric string; action_step is a legacy alias for
// action_text.
type lessonRecord struct {
	RoleLevel          string          `json:"role_level"`
	DayNumber          json.RawMessage `json:"day_number"`
	Title              string          `json:"title"`
	LessonText         string          `json:"lesson_text"`
	ActionText         string          `json:"action_text"`
	ActionStep         string          `json:"action_step"`
	ReflectionQuestion string          `json:"reflection_question"`
}

// ImportService loads lesson content files into the store.
type ImportService struct {
	lessonRepo lesson.Repository
	logger     *logrus.Logger
}

func NewImportService(lr lesson.Repository, logger *logrus.Logger) *ImportService {
	return &ImportService{lessonRepo: lr, logger: logger}
}

// ParseLessons validates a JSON lesson file and normalizes its records. A
// duplicate (role_level, day_number) pair inside the file is an error: the
// store guarantees uniqueness, so the file must too.
func ParseLessons(data []byte) ([]*lesson.Lesson, error) {
	var records []lessonRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("lesson file is empty")
	}

	lessons := make([]*lesson.Lesson, 0, len(records))
	seen := make(map[string]bool)

	for i, rec := range records {
		role := lesson.RoleLevel(rec.RoleLevel)
		if !role.Valid() {
			return nil, fmt.Errorf("record %d: invalid role_level %q", i, rec.RoleLevel)
		}

		day, err := parseDayNumber(rec.DayNumber)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}

		title := strings.TrimSpace(rec.Title)
		lessonText := strings.TrimSpace(rec.LessonText)
		question := strings.TrimSpace(rec.ReflectionQuestion)
		if title == "" || lessonText == "" || question == "" {
			return nil, fmt.Errorf("record %d: title, lesson_text and reflection_question are required", i)
		}

		action := strings.TrimSpace(rec.ActionText)
		if action == "" {
			action = strings.TrimSpace(rec.ActionStep)
		}
		if action == "" {
			return nil, fmt.Errorf("record %d: missing action_text/action_step for role=%s day=%d", i, role, day)
		}

		key := fmt.Sprintf("%s:%d", role, day)
		if seen[key] {
			return nil, fmt.Errorf("duplicate lesson in file: %s", key)
		}
		seen[key] = true

		lessons = append(lessons, &lesson.Lesson{
			RoleLevel:          role,
			DayNumber:          day,
			Title:              title,
			LessonText:         lessonText,
			ActionText:         action,
			ReflectionQuestion: question,
		})
	}
	return lessons, nil
}

func parseDayNumber(raw json.RawMessage) (int, error) {
	if len(raw) == 0 {
		return 0, fmt.Errorf("day_number is required")
	}

	var asNumber int
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		if asNumber < 1 {
			return 0, fmt.Errorf("invalid day_number: %d", asNumber)
		}
		return asNumber, nil
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		day, convErr := strconv.Atoi(strings.TrimSpace(asString))
		if convErr != nil || day < 1 {
			return 0, fmt.Errorf("invalid day_number: %q", asString)
		}
		return day, nil
	}

	return 0, fmt.Errorf("day_number must be a number or numeric string")
}

// Import writes the parsed lessons, upserting or skipping existing
// (role, day) rows depending on mode.
func (s *ImportService) Import(ctx context.Context, lessons []*lesson.Lesson, mode lesson.ImportMode) (*ImportSummary, error) {
	if mode != lesson.ImportModeUpsert && mode != lesson.ImportModeSkip {
		return nil, fmt.Errorf("invalid import mode %q", mode)
	}

	summary := &ImportSummary{Total: len(lessons)}
	for _, l := range lessons {
		switch mode {
		case lesson.ImportModeSkip:
			inserted, err := s.lessonRepo.InsertIfAbsent(ctx, l)
			if err != nil {
				return summary, fmt.Errorf("failed to import lesson %s/%d: %w", l.RoleLevel, l.DayNumber, err)
			}
			if inserted {
				summary.Inserted++
			} else {
				summary.Skipped++
			}
		case lesson.ImportModeUpsert:
			inserted, err := s.lessonRepo.Upsert(ctx, l)
			if err != nil {
				return summary, fmt.Errorf("failed to import lesson %s/%d: %w", l.RoleLevel, l.DayNumber, err)
			}
			if inserted {
				summary.Inserted++
			} else {
				summary.Updated++
			}
		}
	}

	s.logger.Infof("Lesson import complete: total=%d inserted=%d updated=%d skipped=%d mode=%s",
		summary.Total, summary.Inserted, summary.Updated, summary.Skipped, mode)
	return summary, nil
}
