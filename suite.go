package tapcheck

// A TestSuite represents an ordered suite of tests.
// Tests run in registration order.
type TestSuite []Test

// TestsForTags returns the tests matching the given tags.
func (s TestSuite) TestsForTags(tags []string, matchAll bool) TestSuite {

	if len(tags) == 0 {
		return s
	}

	ts := TestSuite{}

	for _, t := range s {
		if t.MatchTags(tags, matchAll) {
			ts = append(ts, t)
		}
	}

	return ts
}

// withOnly returns a copy of the suite where, if a test was registered
// with RegisterOnly, every other test is turned into a static skip.
func (s TestSuite) withOnly() TestSuite {

	out := make(TestSuite, len(s))
	copy(out, s)

	hasOnly := false
	for _, t := range out {
		if t.only {
			hasOnly = true
			break
		}
	}

	if !hasOnly {
		return out
	}

	for i := range out {
		if !out[i].only {
			out[i].Function = nil
		}
	}

	return out
}
