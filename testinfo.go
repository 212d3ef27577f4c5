package tapcheck

import (
	"strings"
	"time"
)

// Title returns the title of the test.
func (t *TestCase) Title() string { return t.title }

// Succeeded returns true if no failed or errored assertion was recorded.
func (t *TestCase) Succeeded() bool {

	t.run.Lock()
	defer t.run.Unlock()

	return t.success
}

// Assertions returns the number of recorded assertions.
func (t *TestCase) Assertions() int {

	t.run.Lock()
	defer t.run.Unlock()

	return t.assertions
}

// Ended returns true once the runner finalized the test.
func (t *TestCase) Ended() bool {

	t.run.Lock()
	defer t.run.Unlock()

	return t.ended
}

// Elapsed returns the time spent since the test started.
func (t *TestCase) Elapsed() time.Duration {
	return time.Since(t.start).Round(time.Millisecond)
}

// Write prints p as comment lines in the stream.
// It allows to use a TestCase as a log destination.
func (t *TestCase) Write(p []byte) (n int, err error) {

	t.Comment(strings.TrimRight(string(p), "\n"))

	return len(p), nil
}
