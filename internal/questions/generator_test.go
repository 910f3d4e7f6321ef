package questions

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vartahub/newsdesk/internal/apperr"
	"github.com/vartahub/newsdesk/internal/domain"
	"github.com/vartahub/newsdesk/internal/oracle"
	"github.com/vartahub/newsdesk/internal/storage/in_mem"
)

type stubOracle struct {
	calls  int
	drafts []oracle.QuestionDraft
	err    error
}

func (s *stubOracle) GenerateQuestions(ctx context.Context, story *domain.UserStory) ([]oracle.QuestionDraft, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.drafts, nil
}

func (s *stubOracle) SynthesizeArticle(ctx context.Context, story *domain.UserStory, qna []domain.QnAPair) (*oracle.ArticleDraft, error) {
	return nil, apperr.NewUpstream("not implemented")
}

func setupStory(t *testing.T, stories *in_mem.StoryStore, mode domain.StoryMode) *domain.UserStory {
	t.Helper()
	story := &domain.UserStory{
		AuthorID:    uuid.New(),
		Context:     "a context for question generation " + uuid.NewString(),
		ContextHash: uuid.NewString(),
		Mode:        mode,
	}
	require.NoError(t, stories.Create(context.Background(), story))
	return story
}

func TestGet_GeneratesOnFirstCall(t *testing.T) {
	stories := in_mem.NewStoryStore()
	questionStore := in_mem.NewQuestionStore()
	stub := &stubOracle{drafts: []oracle.QuestionDraft{
		{QuestionKey: "q1", QuestionType: "what", QuestionText: "What happened?"},
		{QuestionKey: "q2", QuestionType: "why", QuestionText: "Why did it happen?"},
	}}
	gen := NewGenerator(stories, questionStore, stub, slog.Default())

	story := setupStory(t, stories, domain.ModeAI)

	qs, err := gen.Get(context.Background(), story.AuthorID, story.ID, false)
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, 1, stub.calls)
	assert.True(t, qs[0].IsActive)
}

func TestGet_CacheHitSkipsOracle(t *testing.T) {
	stories := in_mem.NewStoryStore()
	questionStore := in_mem.NewQuestionStore()
	stub := &stubOracle{drafts: []oracle.QuestionDraft{
		{QuestionKey: "q1", QuestionType: "what", QuestionText: "What happened?"},
	}}
	gen := NewGenerator(stories, questionStore, stub, slog.Default())

	story := setupStory(t, stories, domain.ModeAI)

	_, err := gen.Get(context.Background(), story.AuthorID, story.ID, false)
	require.NoError(t, err)

	_, err = gen.Get(context.Background(), story.AuthorID, story.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 1, stub.calls, "cached questions must not trigger generation")
}

func TestGet_RegenerateDeactivatesOldBatch(t *testing.T) {
	stories := in_mem.NewStoryStore()
	questionStore := in_mem.NewQuestionStore()
	stub := &stubOracle{drafts: []oracle.QuestionDraft{
		{QuestionKey: "q1", QuestionType: "what", QuestionText: "What happened?"},
	}}
	gen := NewGenerator(stories, questionStore, stub, slog.Default())

	story := setupStory(t, stories, domain.ModeAI)

	first, err := gen.Get(context.Background(), story.AuthorID, story.ID, false)
	require.NoError(t, err)

	stub.drafts = []oracle.QuestionDraft{
		{QuestionKey: "q1", QuestionType: "who", QuestionText: "Who was involved?"},
		{QuestionKey: "q2", QuestionType: "how", QuestionText: "How did it unfold?"},
	}
	second, err := gen.Get(context.Background(), story.AuthorID, story.ID, true)
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, 2, stub.calls)

	// old batch is deactivated, not deleted
	active, err := questionStore.ActiveByStory(context.Background(), story.ID)
	require.NoError(t, err)
	assert.Len(t, active, 2)
	assert.Len(t, questionStore.All(), 3)

	ok, err := questionStore.ActiveQuestionExists(context.Background(), story.ID, first[0].ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGet_OracleFailureKeepsOldBatch(t *testing.T) {
	stories := in_mem.NewStoryStore()
	questionStore := in_mem.NewQuestionStore()
	stub := &stubOracle{drafts: []oracle.QuestionDraft{
		{QuestionKey: "q1", QuestionType: "what", QuestionText: "What happened?"},
	}}
	gen := NewGenerator(stories, questionStore, stub, slog.Default())

	story := setupStory(t, stories, domain.ModeAI)

	_, err := gen.Get(context.Background(), story.AuthorID, story.ID, false)
	require.NoError(t, err)

	stub.err = apperr.NewUpstream("generation request failed")
	_, err = gen.Get(context.Background(), story.AuthorID, story.ID, true)
	var ue *apperr.UpstreamError
	require.ErrorAs(t, err, &ue)

	active, err := questionStore.ActiveByStory(context.Background(), story.ID)
	require.NoError(t, err)
	assert.Len(t, active, 1, "failed regeneration must leave the previous batch active")
}

func TestGet_ManualModeRejected(t *testing.T) {
	stories := in_mem.NewStoryStore()
	gen := NewGenerator(stories, in_mem.NewQuestionStore(), &stubOracle{}, slog.Default())

	story := setupStory(t, stories, domain.ModeManual)

	_, err := gen.Get(context.Background(), story.AuthorID, story.ID, false)
	var ve *apperr.ValidationError
	assert.ErrorAs(t, err, &ve)
}
