package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/aqsa08/training-mvp-backend/internal/domain/engagement"
	"github.com/aqsa08/training-mvp-backend/internal/domain/lesson"
	domainSMS "github.com/aqsa08/training-mvp-backend/internal/domain/sms"
	idb "github.com/aqsa08/training-mvp-backend/internal/infra/database"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type fakeReservation struct {
	id           int64
	cohortUserID int64
	lessonID     int64
	confirmed    bool
	messageSID   sql.NullString
}

// fakeDispatchStore mimics the insert-if-absent semantics of the Postgres
// store: the (cohortUserID, lessonID) key is the mutual exclusion primitive,
// guarded here by a mutex instead of a unique index.
type fakeDispatchStore struct {
	mu           sync.Mutex
	due          []engagement.DueEnrollment
	lessons      map[string]*lesson.Lesson
	reservations map[string]*fakeReservation
	nextID       int64

	acquireErr error
	listErr    error
}

func newFakeDispatchStore() *fakeDispatchStore {
	return &fakeDispatchStore{
		lessons:      make(map[string]*lesson.Lesson),
		reservations: make(map[string]*fakeReservation),
	}
}

func (s *fakeDispatchStore) addLesson(l *lesson.Lesson) {
	s.lessons[fmt.Sprintf("%s:%d", l.RoleLevel, l.DayNumber)] = l
}

func (s *fakeDispatchStore) Acquire(ctx context.Context) (engagement.DispatchSession, error) {
	if s.acquireErr != nil {
		return nil, s.acquireErr
	}
	return &fakeDispatchSession{store: s}, nil
}

func (s *fakeDispatchStore) confirmedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.reservations {
		if r.confirmed {
			n++
		}
	}
	return n
}

type fakeDispatchSession struct {
	store *fakeDispatchStore
}

func (f *fakeDispatchSession) ListDueEnrollments(ctx context.Context) ([]engagement.DueEnrollment, error) {
	if f.store.listErr != nil {
		return nil, f.store.listErr
	}
	return f.store.due, nil
}

func (f *fakeDispatchSession) FindLesson(ctx context.Context, role lesson.RoleLevel, dayNumber int) (*lesson.Lesson, error) {
	l, ok := f.store.lessons[fmt.Sprintf("%s:%d", role, dayNumber)]
	if !ok {
		return nil, idb.ErrLessonNotFound
	}
	return l, nil
}

func (f *fakeDispatchSession) Reserve(ctx context.Context, cohortUserID, lessonID int64) (int64, bool, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	key := fmt.Sprintf("%d:%d", cohortUserID, lessonID)
	if _, exists := f.store.reservations[key]; exists {
		return 0, false, nil
	}
	f.store.nextID++
	f.store.reservations[key] = &fakeReservation{
		id:           f.store.nextID,
		cohortUserID: cohortUserID,
		lessonID:     lessonID,
	}
	return f.store.nextID, true, nil
}

func (f *fakeDispatchSession) Confirm(ctx context.Context, reservationID int64, messageSID sql.NullString) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	for _, r := range f.store.reservations {
		if r.id == reservationID {
			r.confirmed = true
			r.messageSID = messageSID
			return nil
		}
	}
	return idb.ErrReservationNotFound
}

func (f *fakeDispatchSession) Release(ctx context.Context, reservationID int64) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	for key, r := range f.store.reservations {
		if r.id == reservationID {
			delete(f.store.reservations, key)
			return nil
		}
	}
	return nil
}

func (f *fakeDispatchSession) Close() error { return nil }

type sentSMS struct {
	To   string
	Body string
}

type fakeSender struct {
	mu          sync.Mutex
	sent        []sentSMS
	failNumbers map[string]bool
}

func newFakeSender() *fakeSender {
	return &fakeSender{failNumbers: make(map[string]bool)}
}

func (f *fakeSender) Send(ctx context.Context, to, body string) (domainSMS.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failNumbers[to] {
		return domainSMS.Result{}, fmt.Errorf("gateway rejected %s", to)
	}
	f.sent = append(f.sent, sentSMS{To: to, Body: body})
	return domainSMS.Result{MessageSID: sql.NullString{String: fmt.Sprintf("SM%04d", len(f.sent)), Valid: true}}, nil
}

func (f *fakeSender) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func TestDailyDispatch_SendsDueLessonsAndComposesBody(t *testing.T) {
	store := newFakeDispatchStore()
	store.addLesson(&lesson.Lesson{
		ID:                 10,
		RoleLevel:          lesson.RoleAgent,
		DayNumber:          3,
		Title:              "Active Listening",
		LessonText:         "Repeat the customer's issue back in your own words.",
		ActionText:         "Paraphrase once per call today.",
		ReflectionQuestion: "When did paraphrasing change the call?",
	})
	store.due = []engagement.DueEnrollment{
		{CohortUserID: 1, PhoneNumber: "+15550001", RoleLevel: lesson.RoleAgent, DurationDays: 30, DayNumber: 3},
	}
	sender := newFakeSender()

	svc := NewDailyDispatchService(store, sender, quietLogger())
	result, err := svc.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Attempted)
	assert.Equal(t, 1, result.Sent)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "+15550001", sender.sent[0].To)
	assert.Equal(t,
		"Day 3: Active Listening\nRepeat the customer's issue back in your own words.\nAction: Paraphrase once per call today.\nReply: When did paraphrasing change the call?",
		sender.sent[0].Body)

	assert.Equal(t, 1, store.confirmedCount())
}

func TestDailyDispatch_SecondRunSendsNothing(t *testing.T) {
	store := newFakeDispatchStore()
	store.addLesson(&lesson.Lesson{ID: 10, RoleLevel: lesson.RoleAgent, DayNumber: 1, Title: "T", LessonText: "L", ActionText: "A", ReflectionQuestion: "R"})
	store.due = []engagement.DueEnrollment{
		{CohortUserID: 1, PhoneNumber: "+15550001", RoleLevel: lesson.RoleAgent, DurationDays: 30, DayNumber: 1},
		{CohortUserID: 2, PhoneNumber: "+15550002", RoleLevel: lesson.RoleAgent, DurationDays: 30, DayNumber: 1},
	}
	sender := newFakeSender()
	svc := NewDailyDispatchService(store, sender, quietLogger())

	first, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, first.Sent)

	second, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, second.Attempted)
	assert.Equal(t, 0, second.Sent)
	assert.Equal(t, 2, sender.sentCount())
}

func TestDailyDispatch_ConcurrentRunsSendEachLessonOnce(t *testing.T) {
	store := newFakeDispatchStore()
	store.addLesson(&lesson.Lesson{ID: 10, RoleLevel: lesson.RoleAgent, DayNumber: 5, Title: "T", LessonText: "L", ActionText: "A", ReflectionQuestion: "R"})

	const learners = 50
	for i := 0; i < learners; i++ {
		store.due = append(store.due, engagement.DueEnrollment{
			CohortUserID: int64(i + 1),
			PhoneNumber:  fmt.Sprintf("+1555%04d", i),
			RoleLevel:    lesson.RoleAgent,
			DurationDays: 30,
			DayNumber:    5,
		})
	}
	sender := newFakeSender()
	svc := NewDailyDispatchService(store, sender, quietLogger())

	var wg sync.WaitGroup
	totals := make(chan int, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.Run(context.Background())
			assert.NoError(t, err)
			totals <- res.Sent
		}()
	}
	wg.Wait()
	close(totals)

	sum := 0
	for n := range totals {
		sum += n
	}
	assert.Equal(t, learners, sum, "the two runs together deliver exactly one message per learner")
	assert.Equal(t, learners, sender.sentCount())
	assert.Equal(t, learners, store.confirmedCount())
}

func TestDailyDispatch_SendFailureRollsBackAndRetries(t *testing.T) {
	store := newFakeDispatchStore()
	store.addLesson(&lesson.Lesson{ID: 10, RoleLevel: lesson.RoleAgent, DayNumber: 2, Title: "T", LessonText: "L", ActionText: "A", ReflectionQuestion: "R"})
	store.due = []engagement.DueEnrollment{
		{CohortUserID: 1, PhoneNumber: "+15550001", RoleLevel: lesson.RoleAgent, DurationDays: 30, DayNumber: 2},
		{CohortUserID: 2, PhoneNumber: "+15550002", RoleLevel: lesson.RoleAgent, DurationDays: 30, DayNumber: 2},
	}
	sender := newFakeSender()
	sender.failNumbers["+15550001"] = true
	svc := NewDailyDispatchService(store, sender, quietLogger())

	first, err := svc.Run(context.Background())
	require.NoError(t, err, "a gateway failure is isolated to that learner")
	assert.Equal(t, 2, first.Attempted)
	assert.Equal(t, 1, first.Sent)
	assert.Equal(t, 1, store.confirmedCount(), "failed send must not leave a reservation behind")

	// Gateway recovers; only the failed learner is retried.
	sender.failNumbers["+15550001"] = false
	second, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, second.Sent)
	assert.Equal(t, 2, store.confirmedCount())
}

func TestDailyDispatch_SkipsOutOfRangeDayNumbers(t *testing.T) {
	store := newFakeDispatchStore()
	store.addLesson(&lesson.Lesson{ID: 10, RoleLevel: lesson.RoleAgent, DayNumber: 31, Title: "T", LessonText: "L", ActionText: "A", ReflectionQuestion: "R"})
	store.due = []engagement.DueEnrollment{
		{CohortUserID: 1, PhoneNumber: "+15550001", RoleLevel: lesson.RoleAgent, DurationDays: 30, DayNumber: 31},
		{CohortUserID: 2, PhoneNumber: "+15550002", RoleLevel: lesson.RoleAgent, DurationDays: 30, DayNumber: 0},
	}
	sender := newFakeSender()
	svc := NewDailyDispatchService(store, sender, quietLogger())

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Attempted)
	assert.Equal(t, 0, result.Sent)
	assert.Equal(t, 0, sender.sentCount())
}

func TestDailyDispatch_ContentGapCountsAsAttemptedNotSent(t *testing.T) {
	store := newFakeDispatchStore()
	// No lesson loaded for day 7.
	store.due = []engagement.DueEnrollment{
		{CohortUserID: 1, PhoneNumber: "+15550001", RoleLevel: lesson.RoleAgent, DurationDays: 30, DayNumber: 7},
	}
	sender := newFakeSender()
	svc := NewDailyDispatchService(store, sender, quietLogger())

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Attempted)
	assert.Equal(t, 0, result.Sent)
}

func TestDailyDispatch_StoreFailureAbortsRun(t *testing.T) {
	store := newFakeDispatchStore()
	store.listErr = fmt.Errorf("connection reset")
	svc := NewDailyDispatchService(store, newFakeSender(), quietLogger())

	_, err := svc.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list due enrollments")
}

func TestDailyDispatch_AcquireFailureAbortsRun(t *testing.T) {
	store := newFakeDispatchStore()
	store.acquireErr = fmt.Errorf("pool exhausted")
	svc := NewDailyDispatchService(store, newFakeSender(), quietLogger())

	_, err := svc.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to acquire dispatch session")
}
