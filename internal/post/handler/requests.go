package handler

import (
	"strings"
	"unicode/utf8"

	dErrors "github.com/shubham1542-dev/Dev-Connector/pkg/domain-errors"
)

const maxTextLength = 5000

// TextRequest is the body of post and comment creation.
type TextRequest struct {
	Text string `json:"text"`
}

func (r *TextRequest) Normalize() {
	r.Text = strings.TrimSpace(r.Text)
}

func (r *TextRequest) Validate() error {
	if r.Text == "" {
		return dErrors.New(dErrors.CodeValidation, "text is required")
	}
	if utf8.RuneCountInString(r.Text) > maxTextLength {
		return dErrors.New(dErrors.CodeValidation, "text must be at most 5000 characters")
	}
	return nil
}
