package model

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	DefaultWorkItemMarker      = "Ab#"
	DefaultWorkItemURLTemplate = "https://workitem.example.com/item/{id}"

	// workItemPlaceholder is replaced by the identifier in the URL template
	workItemPlaceholder = "{id}"
)

// WorkItemRule is one extraction pattern. The first capture group is the identifier.
type WorkItemRule struct {
	Name    string
	Pattern *regexp.Regexp
}

// WorkItemExtractor finds a linked work item in a pull request's title or body.
// Rules are tried in slice order; the first rule that matches a field wins.
type WorkItemExtractor struct {
	rules       []WorkItemRule
	urlTemplate string
}

// NewWorkItemExtractor builds the two standard rules:
//  1. marker immediately followed by exactly seven digits ("Ab#1234567")
//  2. a standalone run of exactly seven digits
//
// Rule 2 also matches unrelated seven-digit numbers in free text; that is
// kept on purpose until product decides otherwise.
func NewWorkItemExtractor(marker, urlTemplate string) (*WorkItemExtractor, error) {
	if marker == "" {
		marker = DefaultWorkItemMarker
	}
	if urlTemplate == "" {
		urlTemplate = DefaultWorkItemURLTemplate
	}
	if !strings.Contains(urlTemplate, workItemPlaceholder) {
		return nil, fmt.Errorf("work item URL template %q has no %s placeholder", urlTemplate, workItemPlaceholder)
	}

	rules := []WorkItemRule{
		{
			Name:    "marker",
			Pattern: regexp.MustCompile(regexp.QuoteMeta(marker) + `(\d{7})(?:\D|$)`),
		},
		{
			Name:    "standalone",
			Pattern: regexp.MustCompile(`\b(\d{7})\b`),
		},
	}

	return &WorkItemExtractor{rules: rules, urlTemplate: urlTemplate}, nil
}

// Extract searches the title first and falls back to the body only when the
// title has no match. ok is false when neither field matches.
func (e *WorkItemExtractor) Extract(title, body string) (id string, url string, ok bool) {
	for _, text := range []string{title, body} {
		if found, matched := e.match(text); matched {
			return found, e.URL(found), true
		}
	}
	return "", "", false
}

func (e *WorkItemExtractor) match(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	for _, rule := range e.rules {
		if m := rule.Pattern.FindStringSubmatch(text); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// URL renders the work item link for an identifier
func (e *WorkItemExtractor) URL(id string) string {
	return strings.ReplaceAll(e.urlTemplate, workItemPlaceholder, id)
}

// Rules returns the extraction rules in precedence order
func (e *WorkItemExtractor) Rules() []WorkItemRule {
	return append([]WorkItemRule(nil), e.rules...)
}
