package pg

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vartahub/newsdesk/internal/apperr"
	"github.com/vartahub/newsdesk/internal/domain"
	"github.com/vartahub/newsdesk/internal/storage"
	pkgtesting "github.com/vartahub/newsdesk/pkg/testing"
)

var (
	testCtx  context.Context
	testPool *ConnectionPool
)

func TestMain(m *testing.M) {
	testCtx = context.Background()

	pg, err := pkgtesting.NewPGContainer(testCtx, pkgtesting.PGConfig{
		Database: "newsdesk_test_db",
		Username: "test",
		Password: "test",
	})
	if err != nil {
		panic(err)
	}

	testPool, err = NewConnectionPool(testCtx, PoolConfig{ConnStr: pg.ConnString})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	testPool.Close()
	os.Exit(code)
}

func truncateAll(t *testing.T) {
	t.Helper()
	_, err := testPool.GetConn().Exec(testCtx, "TRUNCATE TABLE users, locations CASCADE")
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

func createTestCreator(t *testing.T) *domain.User {
	t.Helper()
	user := &domain.User{
		ID:           uuid.New(),
		FirstName:    "Asha",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "hash",
		Role:         domain.RoleCreator,
		Active:       true,
	}
	if err := NewUserStore(testPool).CreateCreator(testCtx, user, "city desk"); err != nil {
		t.Fatalf("failed to create creator: %v", err)
	}
	return user
}

func createTestStory(t *testing.T, authorID uuid.UUID, mode domain.StoryMode) *domain.UserStory {
	t.Helper()
	story := &domain.UserStory{
		ID:          uuid.New(),
		AuthorID:    authorID,
		Context:     "context " + uuid.NewString(),
		ContextHash: uuid.NewString(),
		Mode:        mode,
		FullText:    "full text",
		WordLength:  "short",
	}
	if err := NewStoryStore(testPool).Create(testCtx, story); err != nil {
		t.Fatalf("failed to create story: %v", err)
	}
	return story
}

func TestUserStore_DuplicateEmail(t *testing.T) {
	truncateAll(t)
	store := NewUserStore(testPool)

	user := &domain.User{
		ID:           uuid.New(),
		FirstName:    "Ravi",
		Email:        "ravi@example.com",
		PasswordHash: "hash",
		Role:         domain.RoleEditor,
		Active:       true,
	}
	if err := store.CreateUser(testCtx, user); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	dup := *user
	dup.ID = uuid.New()
	err := store.CreateUser(testCtx, &dup)
	var ce *apperr.ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("expected conflict on duplicate email, got %v", err)
	}
}

func TestUserStore_AuthorProfileRoundTrip(t *testing.T) {
	truncateAll(t)
	creator := createTestCreator(t)
	store := NewUserStore(testPool)

	user, author, err := store.GetAuthorProfile(testCtx, creator.ID)
	if err != nil {
		t.Fatalf("failed to load profile: %v", err)
	}
	if user.Email != creator.Email {
		t.Errorf("expected email %s, got %s", creator.Email, user.Email)
	}
	if author == nil || author.Bio != "city desk" {
		t.Errorf("expected bio 'city desk', got %+v", author)
	}

	bio := "now covering sports"
	if err := store.UpdateProfile(testCtx, creator.ID, nil, nil, &bio); err != nil {
		t.Fatalf("failed to update profile: %v", err)
	}
	_, author, err = store.GetAuthorProfile(testCtx, creator.ID)
	if err != nil {
		t.Fatalf("failed to reload profile: %v", err)
	}
	if author.Bio != bio {
		t.Errorf("expected updated bio, got %q", author.Bio)
	}
}

func TestStoryStore_DuplicateContextHash(t *testing.T) {
	truncateAll(t)
	creator := createTestCreator(t)
	store := NewStoryStore(testPool)
	story := createTestStory(t, creator.ID, domain.ModeAI)

	dup := &domain.UserStory{
		ID:          uuid.New(),
		AuthorID:    creator.ID,
		Context:     story.Context,
		ContextHash: story.ContextHash,
		Mode:        domain.ModeAI,
	}
	err := store.Create(testCtx, dup)
	var ce *apperr.ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("expected conflict on duplicate context hash, got %v", err)
	}
}

func TestQuestionStore_ReplaceActive(t *testing.T) {
	truncateAll(t)
	creator := createTestCreator(t)
	story := createTestStory(t, creator.ID, domain.ModeAI)
	store := NewQuestionStore(testPool)

	first, err := store.ReplaceActive(testCtx, story.ID, []domain.Question{
		{ID: uuid.New(), QuestionKey: "q1", QuestionType: domain.QuestionWhat, QuestionText: "What happened?", IsActive: true},
		{ID: uuid.New(), QuestionKey: "q2", QuestionType: domain.QuestionWhere, QuestionText: "Where?", IsActive: true},
	})
	if err != nil {
		t.Fatalf("failed to insert first batch: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(first))
	}

	second, err := store.ReplaceActive(testCtx, story.ID, []domain.Question{
		{ID: uuid.New(), QuestionKey: "q1", QuestionType: domain.QuestionWho, QuestionText: "Who was involved?", IsActive: true},
	})
	if err != nil {
		t.Fatalf("failed to replace batch: %v", err)
	}

	active, err := store.ActiveByStory(testCtx, story.ID)
	if err != nil {
		t.Fatalf("failed to list active: %v", err)
	}
	if len(active) != 1 || active[0].ID != second[0].ID {
		t.Fatalf("expected only the new batch active, got %+v", active)
	}

	ok, err := store.ActiveQuestionExists(testCtx, story.ID, first[0].ID)
	if err != nil {
		t.Fatalf("exists check failed: %v", err)
	}
	if ok {
		t.Error("replaced question must not count as active")
	}
}

func TestQuestionStore_KeepsUnlistedType(t *testing.T) {
	truncateAll(t)
	creator := createTestCreator(t)
	story := createTestStory(t, creator.ID, domain.ModeAI)
	store := NewQuestionStore(testPool)

	// the type column carries whatever classification the generator
	// produced, listed or not
	saved, err := store.ReplaceActive(testCtx, story.ID, []domain.Question{
		{ID: uuid.New(), QuestionKey: "q1", QuestionType: domain.QuestionType("speculative"), QuestionText: "Could this happen again?", IsActive: true},
	})
	if err != nil {
		t.Fatalf("failed to insert unlisted type: %v", err)
	}
	if saved[0].QuestionType != domain.QuestionType("speculative") {
		t.Errorf("expected the type to round-trip, got %s", saved[0].QuestionType)
	}
}

func TestAnswerStore_UpsertIsIdempotent(t *testing.T) {
	truncateAll(t)
	creator := createTestCreator(t)
	story := createTestStory(t, creator.ID, domain.ModeAI)

	questions, err := NewQuestionStore(testPool).ReplaceActive(testCtx, story.ID, []domain.Question{
		{ID: uuid.New(), QuestionKey: "q1", QuestionType: domain.QuestionWhat, QuestionText: "What happened?", IsActive: true},
	})
	if err != nil {
		t.Fatalf("failed to insert questions: %v", err)
	}

	store := NewAnswerStore(testPool)
	firstID, err := store.Upsert(testCtx, &domain.Answer{
		ID: uuid.New(), UserStoryID: story.ID, QuestionID: questions[0].ID, AnswerText: "first take",
	})
	if err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	secondID, err := store.Upsert(testCtx, &domain.Answer{
		ID: uuid.New(), UserStoryID: story.ID, QuestionID: questions[0].ID, AnswerText: "revised take",
	})
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	if firstID != secondID {
		t.Errorf("expected same answer row, got %s and %s", firstID, secondID)
	}

	pairs, err := store.QnAByStory(testCtx, story.ID, false)
	if err != nil {
		t.Fatalf("failed to list qna: %v", err)
	}
	if len(pairs) != 1 || pairs[0].Answer != "revised take" {
		t.Fatalf("expected the revised answer, got %+v", pairs)
	}
}

func createTestArticle(t *testing.T, story *domain.UserStory) *domain.GeneratedArticle {
	t.Helper()
	article := &domain.GeneratedArticle{
		ID:          uuid.New(),
		UserStoryID: story.ID,
		AuthorID:    story.AuthorID,
		Title:       "Test Headline",
		Slug:        "test-headline-" + uuid.NewString()[:6],
		FullText:    "body",
		Categories:  []domain.Category{domain.CategoryLocalNews},
	}
	if err := NewArticleStore(testPool).CreateWithStoryFlip(testCtx, article); err != nil {
		t.Fatalf("failed to create article: %v", err)
	}
	return article
}

func TestArticleStore_CreateFlipsStory(t *testing.T) {
	truncateAll(t)
	creator := createTestCreator(t)
	story := createTestStory(t, creator.ID, domain.ModeManual)
	createTestArticle(t, story)

	reloaded, err := NewStoryStore(testPool).GetByID(testCtx, story.ID)
	if err != nil {
		t.Fatalf("failed to reload story: %v", err)
	}
	if reloaded.Status != domain.StoryGenerated {
		t.Errorf("expected story status generated, got %s", reloaded.Status)
	}
}

func TestArticleStore_DuplicateAuthorTitleHash(t *testing.T) {
	truncateAll(t)
	creator := createTestCreator(t)
	store := NewArticleStore(testPool)

	first := createTestStory(t, creator.ID, domain.ModeManual)
	if err := store.CreateWithStoryFlip(testCtx, &domain.GeneratedArticle{
		ID: uuid.New(), UserStoryID: first.ID, AuthorID: creator.ID,
		Title: "Same Headline", TitleHash: "samehash",
		Slug: "same-headline-" + uuid.NewString()[:6], FullText: "body",
	}); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	second := createTestStory(t, creator.ID, domain.ModeManual)
	err := store.CreateWithStoryFlip(testCtx, &domain.GeneratedArticle{
		ID: uuid.New(), UserStoryID: second.ID, AuthorID: creator.ID,
		Title: "Same Headline", TitleHash: "samehash",
		Slug: "same-headline-" + uuid.NewString()[:6], FullText: "body",
	})
	var ce *apperr.ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("expected conflict on duplicate (author, title hash), got %v", err)
	}
}

func TestArticleStore_ReplaceSwapsArticle(t *testing.T) {
	truncateAll(t)
	creator := createTestCreator(t)
	story := createTestStory(t, creator.ID, domain.ModeManual)
	old := createTestArticle(t, story)
	store := NewArticleStore(testPool)

	fresh := &domain.GeneratedArticle{
		ID: uuid.New(), UserStoryID: story.ID, AuthorID: creator.ID,
		Title: "Regenerated Headline", TitleHash: "regenhash",
		Slug: "regenerated-headline-" + uuid.NewString()[:6], FullText: "new body",
	}
	if err := store.ReplaceWithStoryFlip(testCtx, fresh); err != nil {
		t.Fatalf("replace failed: %v", err)
	}

	current, err := store.GetByStory(testCtx, story.ID)
	if err != nil {
		t.Fatalf("failed to reload article: %v", err)
	}
	if current.ID != fresh.ID {
		t.Errorf("expected the regenerated article, got %s", current.ID)
	}
	_, err = store.GetByID(testCtx, old.ID)
	var nf *apperr.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected the replaced article to be gone, got %v", err)
	}
}

func TestArticleStore_EditorClaim(t *testing.T) {
	truncateAll(t)
	creator := createTestCreator(t)
	story := createTestStory(t, creator.ID, domain.ModeManual)
	article := createTestArticle(t, story)
	store := NewArticleStore(testPool)

	if err := store.Submit(testCtx, article.ID, nil); err != nil {
		t.Fatalf("failed to submit article: %v", err)
	}

	editor, rival := uuid.New(), uuid.New()
	for _, id := range []uuid.UUID{editor, rival} {
		err := NewUserStore(testPool).CreateUser(testCtx, &domain.User{
			ID: id, FirstName: "Ed", Email: id.String() + "@example.com",
			PasswordHash: "hash", Role: domain.RoleEditor, Active: true,
		})
		if err != nil {
			t.Fatalf("failed to create editor: %v", err)
		}
	}

	title := "Edited Headline"
	if _, err := store.EditorUpdate(testCtx, article.ID, editor, storage.ArticleUpdate{Title: &title}); err != nil {
		t.Fatalf("first editor update failed: %v", err)
	}

	_, err := store.EditorUpdate(testCtx, article.ID, rival, storage.ArticleUpdate{Title: &title})
	var fe *apperr.ForbiddenError
	if !errors.As(err, &fe) {
		t.Fatalf("expected forbidden for rival editor, got %v", err)
	}

	published, err := store.Publish(testCtx, article.ID, editor, time.Now().UTC())
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if published.PublishedAt == nil {
		t.Fatal("expected published_at to be stamped")
	}
	firstStamp := *published.PublishedAt

	if _, err := store.Reject(testCtx, article.ID, editor, "pulling back for a correction pass"); err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	republished, err := store.Publish(testCtx, article.ID, editor, time.Now().UTC().Add(time.Hour))
	if err != nil {
		t.Fatalf("republish failed: %v", err)
	}
	if !republished.PublishedAt.Equal(firstStamp) {
		t.Errorf("expected original publish timestamp to survive, got %v", republished.PublishedAt)
	}

	found, err := store.GetPublishedBySlug(testCtx, article.Slug)
	if err != nil {
		t.Fatalf("slug lookup failed: %v", err)
	}
	if found.ID != article.ID {
		t.Errorf("expected article %s, got %s", article.ID, found.ID)
	}
}

func TestLocationStore_LookupAndTouch(t *testing.T) {
	truncateAll(t)
	store := NewLocationStore(testPool)

	loc := &domain.Location{
		ID: uuid.New(), City: "Nagpur", State: "Maharashtra", Country: "India",
		CountryCode: "IN", Level: domain.ScopeCity,
		RefreshIntervalMins: 60, MaxDaysBack: 5,
	}
	if err := store.Create(testCtx, loc); err != nil {
		t.Fatalf("failed to create location: %v", err)
	}

	found, err := store.Lookup(testCtx, storage.ScopeQuery{
		Level: domain.ScopeCity, City: "Nagpur", State: "Maharashtra", Country: "India",
	})
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if found == nil || found.ID != loc.ID {
		t.Fatalf("expected location %s, got %+v", loc.ID, found)
	}
	if found.LastFetchedTimestamp != nil {
		t.Error("expected a never-fetched location")
	}

	missing, err := store.Lookup(testCtx, storage.ScopeQuery{
		Level: domain.ScopeCity, City: "Pune", State: "Maharashtra", Country: "India",
	})
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown location, got %+v", missing)
	}

	now := time.Now().UTC().Truncate(time.Second)
	if err := store.TouchFetched(testCtx, loc.ID, now); err != nil {
		t.Fatalf("touch failed: %v", err)
	}
	found, err = store.Lookup(testCtx, storage.ScopeQuery{
		Level: domain.ScopeCity, City: "Nagpur", State: "Maharashtra", Country: "India",
	})
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if found.LastFetchedTimestamp == nil || !found.LastFetchedTimestamp.Equal(now) {
		t.Errorf("expected freshness %v, got %v", now, found.LastFetchedTimestamp)
	}
}

func TestRawStoryStore_ListSince(t *testing.T) {
	truncateAll(t)
	locations := NewLocationStore(testPool)
	loc := &domain.Location{
		ID: uuid.New(), Country: "India", Level: domain.ScopeCountry,
		RefreshIntervalMins: 20, MaxDaysBack: 2,
	}
	if err := locations.Create(testCtx, loc); err != nil {
		t.Fatalf("failed to create location: %v", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	store := NewRawStoryStore(testPool)
	err := store.BulkInsert(testCtx, []domain.RawStory{
		{ID: uuid.New(), LocationID: loc.ID, Title: "old", Link: "https://news.example/old", PublishedTimestamp: now.AddDate(0, 0, -5)},
		{ID: uuid.New(), LocationID: loc.ID, Title: "fresh", Link: "https://news.example/fresh", PublishedTimestamp: now.Add(-time.Hour)},
		{ID: uuid.New(), LocationID: loc.ID, Title: "freshest", Link: "https://news.example/freshest", PublishedTimestamp: now},
	})
	if err != nil {
		t.Fatalf("bulk insert failed: %v", err)
	}

	stories, err := store.ListSince(testCtx, loc.ID, now.AddDate(0, 0, -3))
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(stories) != 2 {
		t.Fatalf("expected 2 stories inside the window, got %d", len(stories))
	}
	if stories[0].Title != "freshest" {
		t.Errorf("expected newest first, got %s", stories[0].Title)
	}
}
