package app

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/aqsa08/training-mvp-backend/internal/domain/engagement"
	idb "github.com/aqsa08/training-mvp-backend/internal/infra/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storedReflection struct {
	Text    string
	Score   int
	Upserts int
}

type fakeReflectionRepo struct {
	usersByPhone map[string]int64
	latestByUser map[int64]*engagement.SentRef
	reflections  map[string]*storedReflection
}

func newFakeReflectionRepo() *fakeReflectionRepo {
	return &fakeReflectionRepo{
		usersByPhone: make(map[string]int64),
		latestByUser: make(map[int64]*engagement.SentRef),
		reflections:  make(map[string]*storedReflection),
	}
}

func (f *fakeReflectionRepo) FindUserIDByPhone(ctx context.Context, phone string) (int64, error) {
	id, ok := f.usersByPhone[phone]
	if !ok {
		return 0, idb.ErrUserNotFound
	}
	return id, nil
}

func (f *fakeReflectionRepo) LatestSentMessage(ctx context.Context, userID int64) (*engagement.SentRef, error) {
	ref, ok := f.latestByUser[userID]
	if !ok {
		return nil, idb.ErrNoSentMessages
	}
	return ref, nil
}

func (f *fakeReflectionRepo) UpsertReflection(ctx context.Context, cohortUserID, lessonID int64, responseText string, qualityScore int) error {
	key := fmt.Sprintf("%d:%d", cohortUserID, lessonID)
	if existing, ok := f.reflections[key]; ok {
		existing.Text = responseText
		existing.Score = qualityScore
		existing.Upserts++
		return nil
	}
	f.reflections[key] = &storedReflection{Text: responseText, Score: qualityScore, Upserts: 1}
	return nil
}

func (f *fakeReflectionRepo) SetBehaviorObserved(ctx context.Context, reflectionID, organizationID int64, observed bool) (*engagement.Reflection, error) {
	return nil, idb.ErrReflectionNotFound
}

func TestAutoQualityScore(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 1},
		{"nineteen chars", strings.Repeat("a", 19), 1},
		{"twenty chars", strings.Repeat("a", 20), 2},
		{"eighty chars", strings.Repeat("a", 80), 2},
		{"eighty-one chars", strings.Repeat("a", 81), 3},
		{"short with keyword", "because it worked", 3},
		{"keyword uppercase", "BECAUSE IT WORKED", 3},
		{"keyword mid-sentence", "done so that calls go faster", 3},
		{"contraction keyword", "i'll do it again", 3},
		{"whitespace trimmed before measuring", "   " + strings.Repeat("a", 19) + "   ", 1},
		{"no keyword medium length", "tried it on two calls today", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AutoQualityScore(tt.text))
		})
	}
}

func TestProcessInbound_RecordsReflectionAgainstLatestLesson(t *testing.T) {
	repo := newFakeReflectionRepo()
	repo.usersByPhone["+15550001"] = 42
	repo.latestByUser[42] = &engagement.SentRef{SentMessageID: 7, CohortUserID: 5, LessonID: 12}

	svc := NewReflectionService(repo, quietLogger())
	recorded, err := svc.ProcessInbound(context.Background(), "+15550001", "I tried paraphrasing because it calms people down")

	require.NoError(t, err)
	assert.True(t, recorded)

	stored := repo.reflections["5:12"]
	require.NotNil(t, stored)
	assert.Equal(t, "I tried paraphrasing because it calms people down", stored.Text)
	assert.Equal(t, 3, stored.Score)
}

func TestProcessInbound_StripsWhatsAppPrefix(t *testing.T) {
	repo := newFakeReflectionRepo()
	repo.usersByPhone["+15550001"] = 42
	repo.latestByUser[42] = &engagement.SentRef{SentMessageID: 7, CohortUserID: 5, LessonID: 12}

	svc := NewReflectionService(repo, quietLogger())
	recorded, err := svc.ProcessInbound(context.Background(), "whatsapp:+15550001", "short note ok today")

	require.NoError(t, err)
	assert.True(t, recorded)
	assert.NotNil(t, repo.reflections["5:12"])
}

func TestProcessInbound_SecondReplyOverwritesSameRow(t *testing.T) {
	repo := newFakeReflectionRepo()
	repo.usersByPhone["+15550001"] = 42
	repo.latestByUser[42] = &engagement.SentRef{SentMessageID: 7, CohortUserID: 5, LessonID: 12}

	svc := NewReflectionService(repo, quietLogger())

	_, err := svc.ProcessInbound(context.Background(), "+15550001", "ok")
	require.NoError(t, err)
	_, err = svc.ProcessInbound(context.Background(), "+15550001", "a fuller answer because I thought about it more")
	require.NoError(t, err)

	require.Len(t, repo.reflections, 1, "both replies land on the same (cohort_user, lesson) row")
	stored := repo.reflections["5:12"]
	assert.Equal(t, 2, stored.Upserts)
	assert.Equal(t, 3, stored.Score, "the overwrite replaces the earlier score")
}

func TestProcessInbound_DropsUnknownSenderSilently(t *testing.T) {
	repo := newFakeReflectionRepo()
	svc := NewReflectionService(repo, quietLogger())

	recorded, err := svc.ProcessInbound(context.Background(), "+19990000", "hello?")

	require.NoError(t, err, "unknown senders must not surface as errors to the webhook")
	assert.False(t, recorded)
	assert.Empty(t, repo.reflections)
}

func TestProcessInbound_DropsEmptyBody(t *testing.T) {
	repo := newFakeReflectionRepo()
	repo.usersByPhone["+15550001"] = 42

	svc := NewReflectionService(repo, quietLogger())
	recorded, err := svc.ProcessInbound(context.Background(), "+15550001", "   ")

	require.NoError(t, err)
	assert.False(t, recorded)
}

func TestProcessInbound_DropsReplyBeforeFirstSend(t *testing.T) {
	repo := newFakeReflectionRepo()
	repo.usersByPhone["+15550001"] = 42
	// No sent messages for the user yet.

	svc := NewReflectionService(repo, quietLogger())
	recorded, err := svc.ProcessInbound(context.Background(), "+15550001", "starting early, excited for this")

	require.NoError(t, err)
	assert.False(t, recorded)
	assert.Empty(t, repo.reflections)
}

func TestSetBehaviorObserved_MapsForeignReflectionToNotOwned(t *testing.T) {
	repo := newFakeReflectionRepo()
	svc := NewReflectionService(repo, quietLogger())

	_, err := svc.SetBehaviorObserved(context.Background(), 99, 1, true)
	assert.ErrorIs(t, err, ErrReflectionNotOwned)
}
