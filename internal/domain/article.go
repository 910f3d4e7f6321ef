package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category is the closed set of article categories, stored in
// lower-kebab-case.
type Category string

const (
	CategoryLocalNews     Category = "local-news"
	CategoryIndia         Category = "india"
	CategoryWorld         Category = "world"
	CategoryPolitics      Category = "politics"
	CategorySports        Category = "sports"
	CategoryEntertainment Category = "entertainment"
	CategoryCrime         Category = "crime"
	CategoryBusiness      Category = "business"
	CategoryCivicIssues   Category = "civic-issues"
	CategoryTechnology    Category = "technology"
	CategoryEnvironment   Category = "environment"
	CategoryCulture       Category = "culture"
)

var Categories = map[Category]bool{
	CategoryLocalNews:     true,
	CategoryIndia:         true,
	CategoryWorld:         true,
	CategoryPolitics:      true,
	CategorySports:        true,
	CategoryEntertainment: true,
	CategoryCrime:         true,
	CategoryBusiness:      true,
	CategoryCivicIssues:   true,
	CategoryTechnology:    true,
	CategoryEnvironment:   true,
	CategoryCulture:       true,
}

// NormalizeCategory folds the spellings seen in model output ("Local News",
// "local_news", "LOCAL-NEWS") into the canonical lower-kebab-case form.
// Returns false for values outside the closed set.
func NormalizeCategory(raw string) (Category, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "_", "-")
	s = strings.ReplaceAll(s, " ", "-")
	c := Category(s)
	return c, Categories[c]
}

// NormalizeCategories normalizes a batch and drops unknown values,
// keeping at most max entries in input order.
func NormalizeCategories(raw []string, max int) []Category {
	out := make([]Category, 0, len(raw))
	for _, r := range raw {
		c, ok := NormalizeCategory(r)
		if !ok {
			continue
		}
		out = append(out, c)
		if len(out) == max {
			break
		}
	}
	return out
}

const MaxArticleImages = 3

// GeneratedArticle is the synthesized or manually-authored publishable
// content, 1:1 with its parent UserStory.
type GeneratedArticle struct {
	ID           uuid.UUID  `json:"id"`
	UserStoryID  uuid.UUID  `json:"user_story_id"`
	AuthorID     uuid.UUID  `json:"author_id"`
	EditorID     *uuid.UUID `json:"editor_id,omitempty"`
	Title        string     `json:"title"`
	TitleHash    string     `json:"-"`
	Slug         string     `json:"slug"`
	Snippet      string     `json:"snippet"`
	FullText     string     `json:"full_text"`
	FullTextHash string     `json:"-"`
	Categories   []Category `json:"category"`
	Tags         []string   `json:"tags"`
	ImageKeys    []string   `json:"images_keys,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
}

// ClaimedBy reports whether the article can be acted on by the given
// editor: unclaimed articles are open to everyone, claimed ones only to
// the recorded editor.
func (a *GeneratedArticle) ClaimedBy(editorID uuid.UUID) bool {
	return a.EditorID == nil || *a.EditorID == editorID
}
