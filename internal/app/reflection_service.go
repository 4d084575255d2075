// internal/app/reflection_service.go
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/aqsa08/training-mvp-backend/internal/domain/engagement"
	idb "github.com/aqsa08/training-mvp-backend/internal/infra/database"

	"github.com/sirupsen/logrus"
)

// Custom application-level errors for the reflection paths
var ErrReflectionNotOwned = fmt.Errorf("reflection does not belong to this organization")

// reflectiveKeywords mark a reply as thoughtful regardless of length.
var reflectiveKeywords = []string{
	"because",
	"so that",
	"next time",
	"i will",
	"i'll",
	"learned",
	"i learned",
	"i realised",
	"i realized",
	"my plan",
	"i plan",
	"i tried",
	"i did",
}

// AutoQualityScore rates a free-text reflection 1..3:
// 1 = very short/low effort, 2 = normal, 3 = thoughtful (long or containing
// a reflective keyword).
func AutoQualityScore(text string) int {
	t := strings.ToLower(strings.TrimSpace(text))

	hasKeyword := false
	for _, k := range reflectiveKeywords {
		if strings.Contains(t, k) {
			hasKeyword = true
			break
		}
	}

	switch {
	case len(t) > 80 || hasKeyword:
		return 3
	case len(t) >= 20:
		return 2
	default:
		return 1
	}
}

// ReflectionService attaches inbound SMS replies to the learner's most
// recent lesson and exposes the admin behavior flag.
type ReflectionService struct {
	reflRepo engagement.ReflectionRepository
	logger   *logrus.Logger
}

func NewReflectionService(rr engagement.ReflectionRepository, logger *logrus.Logger) *ReflectionService {
	return &ReflectionService{reflRepo: rr, logger: logger}
}

// ProcessInbound handles one (fromAddress, text) pair from the gateway
// webhook. It reports whether the reply was recorded; unknown senders,
// empty bodies and learners with no sent lesson yet are dropped silently,
// matching what the gateway expects (always acknowledge, never error).
func (s *ReflectionService) ProcessInbound(ctx context.Context, fromRaw, bodyRaw string) (bool, error) {
	// WhatsApp-routed messages arrive with a channel prefix on the number.
	fromPhone := strings.TrimPrefix(fromRaw, "whatsapp:")
	text := strings.TrimSpace(bodyRaw)

	if fromPhone == "" || text == "" {
		return false, nil
	}

	userID, err := s.reflRepo.FindUserIDByPhone(ctx, fromPhone)
	if err != nil {
		if err == idb.ErrUserNotFound {
			s.logger.Debugf("Inbound reflection from unknown number, ignoring")
			return false, nil
		}
		return false, fmt.Errorf("failed to resolve inbound sender: %w", err)
	}

	// The reply always attaches to the reservation with the latest send
	// timestamp, even if an older lesson has no reflection yet.
	ref, err := s.reflRepo.LatestSentMessage(ctx, userID)
	if err != nil {
		if err == idb.ErrNoSentMessages {
			s.logger.Debugf("Inbound reflection from user %d with no sent lessons, ignoring", userID)
			return false, nil
		}
		return false, fmt.Errorf("failed to find latest sent message for user %d: %w", userID, err)
	}

	score := AutoQualityScore(text)
	if err := s.reflRepo.UpsertReflection(ctx, ref.CohortUserID, ref.LessonID, text, score); err != nil {
		return false, fmt.Errorf("failed to upsert reflection for cohort_user %d: %w", ref.CohortUserID, err)
	}

	s.logger.Infof("Recorded reflection for cohort_user %d, lesson %d (quality %d)", ref.CohortUserID, ref.LessonID, score)
	return true, nil
}

// SetBehaviorObserved flips the admin-only behavior flag. Text and score are
// never touched by admin actions.
func (s *ReflectionService) SetBehaviorObserved(ctx context.Context, reflectionID, organizationID int64, observed bool) (*engagement.Reflection, error) {
	refl, err := s.reflRepo.SetBehaviorObserved(ctx, reflectionID, organizationID, observed)
	if err != nil {
		if err == idb.ErrReflectionNotFound {
			return nil, ErrReflectionNotOwned
		}
		return nil, fmt.Errorf("failed to set behavior_observed on reflection %d: %w", reflectionID, err)
	}
	return refl, nil
}
