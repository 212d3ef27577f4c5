package tapcheck

import (
	"fmt"
	"strings"
)

// A Test represents a registered test.
// A Test without Function, or with Skip set, is reported as skipped and never run.
type Test struct {
	Name        string
	Description string
	Author      string
	Tags        []string
	Skip        bool
	Function    TestFunction

	only bool
}

// skipped returns true if the test must not be run.
func (t Test) skipped() bool {
	return t.Skip || t.Function == nil
}

// MatchTags matches all tags if matchAll is set otherwise matches any tag.
// Tags prefixed with ~ exclude the tests carrying them when matching all tags.
func (t Test) MatchTags(tags []string, matchAll bool) bool {

	if !matchAll {
		return t.matchAnyTags(tags)
	}

	return t.matchAllTags(tags)
}

// matchAllTags returns true if all incoming tags are matching minus exclusions
func (t Test) matchAllTags(tags []string) bool {

	if len(tags) == 0 {
		return true
	}

	for _, incoming := range tags {
		if strings.HasPrefix(incoming, "~") {
			if t.hasTag(strings.TrimPrefix(incoming, "~")) {
				return false
			}

			continue
		}

		if !t.hasTag(incoming) {
			return false
		}
	}

	return true
}

// matchAnyTags returns true if any incoming tags are matching
func (t Test) matchAnyTags(tags []string) bool {

	if len(tags) == 0 {
		return true
	}

	for _, incoming := range tags {
		if t.hasTag(incoming) {
			return true
		}
	}

	return false
}

func (t Test) hasTag(tag string) bool {
	for _, testTag := range t.Tags {
		if tag == testTag {
			return true
		}
	}

	return false
}

func (t Test) String() string {
	return fmt.Sprintf(`name       : %s
desc       : %s
author     : %s
tags       : %s
skip       : %t
`, t.Name, t.Description, t.Author, strings.Join(t.Tags, ", "), t.skipped())
}
