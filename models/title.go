// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"fmt"
	"regexp"
)

// ValidationError marks a page title that does not fit the draft path
// shape. It routes the page to repair instead of tracking; never fatal.
type ValidationError struct {
	Title string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("malformed draft title %q", e.Title)
}

// Draft pages live at User:<author>/Drafts/<name>. The name may itself
// contain slashes.
var draftTitlePattern = regexp.MustCompile(`^User:([^/]+)/Drafts/(.+)$`)

// DraftTitle builds the canonical draft path for an author and name.
func DraftTitle(author, name string) string {
	return "User:" + author + "/Drafts/" + name
}

// ParseDraftTitle splits a draft path into author and name, or returns
// a *ValidationError when the title does not match the expected shape.
func ParseDraftTitle(title string) (author, name string, err error) {
	m := draftTitlePattern.FindStringSubmatch(title)
	if m == nil {
		return "", "", &ValidationError{Title: title}
	}
	return m[1], m[2], nil
}
