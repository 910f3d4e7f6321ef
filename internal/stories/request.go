package stories

import (
	"github.com/go-playground/validator/v10"

	"github.com/vartahub/newsdesk/internal/apperr"
	"github.com/vartahub/newsdesk/internal/domain"
)

var validate = validator.New()

// InitiateRequest starts a story in either mode. In ai mode the context
// and all four generation options are required and FullText must stay
// empty; manual mode requires FullText.
type InitiateRequest struct {
	Mode       string `json:"mode" validate:"required,oneof=ai manual"`
	Title      string `json:"title" validate:"omitempty,max=300"`
	Context    string `json:"context" validate:"omitempty,max=5000"`
	FullText   string `json:"full_text"`
	Tone       string `json:"tone" validate:"omitempty,max=50"`
	Style      string `json:"style" validate:"omitempty,max=50"`
	Language   string `json:"language" validate:"omitempty,max=50"`
	WordLength string `json:"word_length" validate:"omitempty,oneof=short medium long"`
}

func (r *InitiateRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return apperr.NewValidationWrap("invalid story request", err)
	}
	switch domain.StoryMode(r.Mode) {
	case domain.ModeAI:
		if r.Context == "" {
			return apperr.NewValidation("context is required in ai mode")
		}
		if r.Tone == "" {
			return apperr.NewValidation("tone is required in ai mode")
		}
		if r.Style == "" {
			return apperr.NewValidation("style is required in ai mode")
		}
		if r.Language == "" {
			return apperr.NewValidation("language is required in ai mode")
		}
		if r.WordLength == "" {
			return apperr.NewValidation("word_length is required in ai mode")
		}
		if r.FullText != "" {
			return apperr.NewValidation("full_text is not allowed in ai mode")
		}
	case domain.ModeManual:
		if r.FullText == "" {
			return apperr.NewValidation("full_text is required in manual mode")
		}
	}
	return nil
}

type AnswerRequest struct {
	QuestionID string `json:"question_id" validate:"required,uuid4"`
	AnswerText string `json:"answer_text" validate:"required,min=1,max=5000"`
}

func (r *AnswerRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return apperr.NewValidationWrap("invalid answer request", err)
	}
	return nil
}

// ArticleEditRequest is a creator's pre-submission edit. Absent fields
// are left untouched.
type ArticleEditRequest struct {
	Title      *string  `json:"title" validate:"omitempty,max=300"`
	Snippet    *string  `json:"snippet"`
	FullText   *string  `json:"full_text"`
	Categories []string `json:"category" validate:"omitempty,max=3,dive,min=1"`
	Tags       []string `json:"tags" validate:"omitempty,max=10,dive,min=1"`
}

func (r *ArticleEditRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return apperr.NewValidationWrap("invalid article edit", err)
	}
	return nil
}

type SubmitRequest struct {
	ImageKeys []string `json:"images_keys" validate:"omitempty,max=3,dive,min=1"`
}

func (r *SubmitRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return apperr.NewValidationWrap("invalid submission", err)
	}
	if len(r.ImageKeys) > domain.MaxArticleImages {
		return apperr.NewValidation("at most 3 images are allowed")
	}
	return nil
}
