// internal/app/dispatch_service.go
package app

import (
	"context"
	"fmt"

	"github.com/aqsa08/training-mvp-backend/internal/domain/engagement"
	domainSMS "github.com/aqsa08/training-mvp-backend/internal/domain/sms"
	idb "github.com/aqsa08/training-mvp-backend/internal/infra/database"

	"github.com/sirupsen/logrus"
)

// DispatchResult is what one daily run reports back to the scheduler.
// Attempted counts every candidate enrollment considered; Sent counts
// confirmed deliveries.
type DispatchResult struct {
	Attempted int
	Sent      int
}

// DispatchService defines the daily lesson send job.
type DispatchService interface {
	// Run sends each due learner's lesson for today at most once. It is safe
	// to invoke repeatedly on the same day and concurrently with other runs:
	// the sent_messages uniqueness constraint arbitrates every claim.
	Run(ctx context.Context) (DispatchResult, error)
}

// DailyDispatchService implements DispatchService against the engagement
// store and a delivery gateway.
type DailyDispatchService struct {
	store  engagement.DispatchStore
	sender domainSMS.Sender
	logger *logrus.Logger
}

func NewDailyDispatchService(store engagement.DispatchStore, sender domainSMS.Sender, logger *logrus.Logger) *DailyDispatchService {
	return &DailyDispatchService{
		store:  store,
		sender: sender,
		logger: logger,
	}
}

// Run walks every due enrollment and performs reserve -> send -> confirm, or
// reserve -> send -> release when the gateway fails. Per-learner failures are
// isolated and logged; only store-level failures abort the run.
func (s *DailyDispatchService) Run(ctx context.Context) (DispatchResult, error) {
	var result DispatchResult

	session, err := s.store.Acquire(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to acquire dispatch session: %w", err)
	}
	defer session.Close()

	due, err := session.ListDueEnrollments(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list due enrollments: %w", err)
	}
	s.logger.Infof("Daily dispatch: %d due enrollments", len(due))

	for _, enr := range due {
		result.Attempted++

		// The selection predicate already bounds day_number; this guards
		// against clock or timezone edge cases slipping through.
		if enr.DayNumber < 1 || enr.DayNumber > enr.DurationDays {
			continue
		}

		l, err := session.FindLesson(ctx, enr.RoleLevel, enr.DayNumber)
		if err != nil {
			if err == idb.ErrLessonNotFound {
				// Content gap: nothing to send, not an error.
				continue
			}
			return result, fmt.Errorf("failed to look up lesson %s/%d: %w", enr.RoleLevel, enr.DayNumber, err)
		}

		// Reserve before sending. The unique constraint on
		// (cohort_user_id, lesson_id) makes this an atomic claim: under
		// concurrent runs exactly one caller sees created=true.
		reservationID, created, err := session.Reserve(ctx, enr.CohortUserID, l.ID)
		if err != nil {
			return result, fmt.Errorf("failed to reserve sent message for cohort_user %d: %w", enr.CohortUserID, err)
		}
		if !created {
			// Already sent by this or another run.
			continue
		}

		body := composeMessageBody(l.DayNumber, l.Title, l.LessonText, l.ActionText, l.ReflectionQuestion)

		sendRes, err := s.sender.Send(ctx, enr.PhoneNumber, body)
		if err != nil {
			// Delivery failed: delete the reservation so the next run can
			// retry. An unconfirmed leftover would block every future
			// attempt via the uniqueness constraint.
			s.logger.Errorf("Failed to send SMS to cohort_user %d (day %d): %v", enr.CohortUserID, enr.DayNumber, err)
			if relErr := session.Release(ctx, reservationID); relErr != nil {
				return result, fmt.Errorf("failed to release reservation %d after send failure: %w", reservationID, relErr)
			}
			continue
		}

		if err := session.Confirm(ctx, reservationID, sendRes.MessageSID); err != nil {
			return result, fmt.Errorf("failed to confirm reservation %d: %w", reservationID, err)
		}
		result.Sent++
	}

	s.logger.Infof("Daily dispatch finished: attempted=%d sent=%d", result.Attempted, result.Sent)
	return result, nil
}

// composeMessageBody renders the lesson SMS. The shape is fixed; dashboards
// and learners rely on it.
func composeMessageBody(dayNumber int, title, lessonText, actionText, reflectionQuestion string) string {
	return fmt.Sprintf("Day %d: %s\n%s\nAction: %s\nReply: %s",
		dayNumber, title, lessonText, actionText, reflectionQuestion)
}
