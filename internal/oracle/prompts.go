package oracle

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vartahub/newsdesk/internal/domain"
)

const questionSystemPrompt = "You generate structured questions for news writing."

const articleSystemPrompt = "You are a professional news article writer."

func buildQuestionPrompt(story *domain.UserStory) string {
	title := story.Title
	if title == "" {
		title = "N/A"
	}

	var b strings.Builder
	b.WriteString("You are a journalism assistant.\n")
	b.WriteString("The user has provided the following context (about an incident or occasion for which they wish to create a professional-grade news article) and their preferences:\n\n")
	fmt.Fprintf(&b, "Title (optional): %s\n", title)
	fmt.Fprintf(&b, "Tone: %s\n", story.Tone)
	fmt.Fprintf(&b, "Style: %s\n", story.Style)
	fmt.Fprintf(&b, "Language: %s\n", story.Language)
	fmt.Fprintf(&b, "Word Count Target: %s %s words\n", story.WordLength, story.WordLengthRange)
	fmt.Fprintf(&b, "Context/Brief Description: %s\n\n", story.Context)
	b.WriteString(`Your task is to generate a set of clear, structured, and context-aware questions that will help the user provide the essential details needed to create a complete and professional-grade news article.
These questions will be directly answered by the user, and the answers will later be used to generate the final article.

Guidelines for the questions:
- Generate between 1 and 6 questions depending on the context (never more than 6).
- Do NOT repeat or rephrase details already clearly provided in the context.
- Instead, ask complementary questions that uncover missing details, perspectives, consequences, or deeper insights.
- Questions may or may not strictly follow 5W1H phrasing, but each must add new information beyond the context.
- Each question must be assigned a "question_type", which must always be one of: "what", "when", "where", "who", "why", "how".
- You can skip a question type if the context already covers it.
- Keep questions direct, descriptive, and designed to extract factual, useful information.

Output Rules:
- The output must be valid JSON, no extra text or explanation.
- Each question must include "question_key" (string, e.g. q1, q2, q3...), "question_text" and "question_type".

Return the output strictly in the following JSON format:

{
  "questions": [
    { "question_key": "q1", "question_text": "...", "question_type": "..." }
  ]
}
`)
	return b.String()
}

func buildArticlePrompt(story *domain.UserStory, qna []domain.QnAPair) string {
	tone := story.Tone
	if tone == "" {
		tone = "casual"
	}
	style := story.Style
	if style == "" {
		style = "informative"
	}
	language := story.Language
	if language == "" {
		language = "English"
	}
	length := "Short (300-500)"
	if story.WordLength != "" {
		length = fmt.Sprintf("%s %s", story.WordLength, story.WordLengthRange)
	}

	var b strings.Builder
	b.WriteString("You are an AI news writing assistant. Generate a professional-grade news article based on the following inputs:\n\n")
	b.WriteString("Options:\n")
	fmt.Fprintf(&b, "- Tone: %s (e.g., formal, casual, neutral)\n", tone)
	fmt.Fprintf(&b, "- Style: %s (e.g., informative, narrative, breaking news)\n", style)
	fmt.Fprintf(&b, "- Language: %s\n", language)
	fmt.Fprintf(&b, "- Word Count Target: %s\n\n", length)
	fmt.Fprintf(&b, "Story Context:\n%q\n\n", story.Context)
	fmt.Fprintf(&b, "Optional Title (if provided):\n%q\n\n", story.Title)

	if story.Mode == domain.ModeManual && story.FullText != "" {
		b.WriteString("The creator wrote the article themselves. Do NOT rewrite it. Generate only the metadata for the text below.\n\n")
		fmt.Fprintf(&b, "Article Text:\n%s\n\n", story.FullText)
	} else {
		b.WriteString("Questions and Answers:\n")
		for _, pair := range qna {
			fmt.Fprintf(&b, "- Q (%s): %s\n  A: %s\n", pair.QuestionType, pair.Question, pair.Answer)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, `---

Output the result strictly in valid JSON format with the following keys (no explanations, no extra text):
{
  "title": "If 'Optional Title' above is empty, generate a suitable title here. Otherwise, return an empty string.",
  "snippet": "A 2-3 sentence HTML formatted summary (use <p>, <b>, <br> where appropriate)",
  "full_text": "The complete article text in HTML format with proper paragraphing, headings (<h2>, <h3>) if needed, and emphasis tags where useful.",
  "category": ["1 to 3 categories, each chosen strictly from: %s"],
  "tags": ["5 to 10 short topical tags"]
}

Make sure the article follows journalistic clarity, avoids repetition, and respects the given tone, style, and length.
`, knownCategories())
	return b.String()
}

func knownCategories() string {
	names := make([]string, 0, len(domain.Categories))
	for c := range domain.Categories {
		names = append(names, string(c))
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
