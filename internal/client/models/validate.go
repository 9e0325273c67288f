package models

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Client-side validation limits, mirrored from the platform's forms.
const (
	UsernameMinLen = 3
	UsernameMaxLen = 32
	TitleMinLen    = 3
	TitleMaxLen    = 120
	ContentMinLen  = 10
)

var ErrValidation = errors.New("validation error")

// ValidateUsername checks the 3..32 character rule. Length is measured in
// runes, matching the form fields of the web client.
func ValidateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < UsernameMinLen || n > UsernameMaxLen {
		return fmt.Errorf("%w: username must be %d-%d characters", ErrValidation, UsernameMinLen, UsernameMaxLen)
	}
	return nil
}

// ValidateArticle checks title and content limits against their trimmed
// forms and returns the payload that should actually be sent.
func ValidateArticle(title, content string) (ArticlePayload, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)

	if n := utf8.RuneCountInString(title); n < TitleMinLen || n > TitleMaxLen {
		return ArticlePayload{}, fmt.Errorf("%w: title must be %d-%d characters", ErrValidation, TitleMinLen, TitleMaxLen)
	}
	if utf8.RuneCountInString(content) < ContentMinLen {
		return ArticlePayload{}, fmt.Errorf("%w: content must be at least %d characters", ErrValidation, ContentMinLen)
	}
	return ArticlePayload{Title: title, Content: content}, nil
}
