package tapcheck

import (
	"io"
	"sync"
)

type outcome int

const (
	outcomePass outcome = iota
	outcomeFailed
	outcomeError
)

// runContext is the state shared by every TestCase of a run:
// the assertion tallies, the bail flag and the TAP stream.
// The lock serializes both counter updates and stream writes.
type runContext struct {
	passed  int
	failed  int
	errored int

	bailed      bool
	bailMessage string
	bailPrinted bool

	w io.Writer

	sync.Mutex
}

func newRunContext(w io.Writer) *runContext {
	return &runContext{w: w}
}

// count increments the tally matching the outcome and
// returns the sequence number of the assertion.
func (c *runContext) count(o outcome) int {

	switch o {
	case outcomePass:
		c.passed++
	case outcomeFailed:
		c.failed++
	case outcomeError:
		c.errored++
	}

	return c.total()
}

func (c *runContext) total() int { return c.passed + c.failed + c.errored }

// bail flips the bail flag and prints the Bail out! line.
// Only the first message is kept.
func (c *runContext) bail(message string) {
	c.flagBail(message)
	c.printPendingBail()
}

func (c *runContext) flagBail(message string) {

	if c.bailed {
		return
	}

	c.bailed = true
	c.bailMessage = message
}

// printPendingBail prints the Bail out! line once the run is bailed out.
func (c *runContext) printPendingBail() {

	if !c.bailed || c.bailPrinted {
		return
	}

	c.bailPrinted = true
	printBail(c.w, c.bailMessage)
}

func (c *runContext) isBailed() bool {

	bailed, _ := c.bailState()

	return bailed
}

func (c *runContext) bailState() (bool, string) {

	c.Lock()
	defer c.Unlock()

	return c.bailed, c.bailMessage
}

// A Summary contains the totals of a run.
type Summary struct {
	Passed  int
	Failed  int
	Errored int
	Bailed  bool
	Aborted bool
}

// Total returns the number of recorded assertions.
func (s Summary) Total() int { return s.Passed + s.Failed + s.Errored }

// Succeeded returns true if the run has no failed or errored assertion
// and was neither bailed out nor aborted.
func (s Summary) Succeeded() bool {
	return s.Failed+s.Errored == 0 && !s.Bailed && !s.Aborted
}

// ExitCode returns the process exit code matching the summary.
func (s Summary) ExitCode() int {

	if s.Succeeded() {
		return 0
	}

	return 1
}

func (c *runContext) summary(aborted bool) Summary {

	c.Lock()
	defer c.Unlock()

	return Summary{
		Passed:  c.passed,
		Failed:  c.failed,
		Errored: c.errored,
		Bailed:  c.bailed,
		Aborted: aborted,
	}
}
