package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StoryStatus tracks how far a story has moved through the creation
// pipeline. Transitions are monotonic: collecting -> generated -> submitted.
type StoryStatus string

const (
	StoryCollecting StoryStatus = "collecting"
	StoryGenerated  StoryStatus = "generated"
	StorySubmitted  StoryStatus = "submitted"
)

// PublishStatus is the editorial axis of a story, settable only once the
// story is submitted.
type PublishStatus string

const (
	PublishPending        PublishStatus = "pending"
	PublishWorkInProgress PublishStatus = "work_in_progress"
	PublishPublished      PublishStatus = "published"
	PublishRejected       PublishStatus = "rejected"
)

type StoryMode string

const (
	ModeAI     StoryMode = "ai"
	ModeManual StoryMode = "manual"
)

type UserStory struct {
	ID              uuid.UUID     `json:"id"`
	AuthorID        uuid.UUID     `json:"author_id"`
	Title           string        `json:"title,omitempty"`
	TitleHash       string        `json:"-"`
	Context         string        `json:"context"`
	ContextHash     string        `json:"-"`
	Mode            StoryMode     `json:"mode"`
	FullText        string        `json:"full_text,omitempty"`
	Tone            string        `json:"tone"`
	Style           string        `json:"style"`
	Language        string        `json:"language"`
	WordLength      string        `json:"word_length"`
	WordLengthRange string        `json:"word_length_range"`
	Status          StoryStatus   `json:"status"`
	PublishStatus   PublishStatus `json:"publish_status"`
	RejectionReason string        `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// StoryBucket is the creator-facing grouping of stories across both
// status axes.
type StoryBucket string

const (
	BucketDraft     StoryBucket = "draft"     // collecting or generated
	BucketSubmitted StoryBucket = "submitted" // submitted, pending review
	BucketRejected  StoryBucket = "rejected"
	BucketPublished StoryBucket = "published"
)

func ParseStoryBucket(s string) (StoryBucket, bool) {
	switch StoryBucket(s) {
	case BucketDraft, BucketSubmitted, BucketRejected, BucketPublished:
		return StoryBucket(s), true
	}
	return "", false
}

// FormatWordRange renders a word target as stored alongside the story,
// e.g. "(300-500)".
func FormatWordRange(lo, hi int) string {
	return fmt.Sprintf("(%d-%d)", lo, hi)
}

// WordLengthRange maps a word-length option to its (min, max) word target.
// Unknown options fall back to the short range.
func WordLengthRange(option string) (int, int) {
	switch option {
	case "medium":
		return 500, 800
	case "long":
		return 800, 1200
	default:
		return 300, 500
	}
}
