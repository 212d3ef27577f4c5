package tapcheck

import (
	"fmt"
	"time"
)

// A Status is the reported status of a TestCase.
type Status string

// Various values of Status.
const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusError   Status = "error"
	StatusSkipped Status = "skipped"
)

// A TestCase is the ledger of one reportable unit of execution: a test or
// a hook invocation. It is the only surface a TestFunction uses to record
// assertions.
//
// A TestCase is safe to use from several goroutines, but any call made
// after the runner ended it is reported as an error.
type TestCase struct {
	title string
	run   *runContext

	assertions    int
	success       bool
	ended         bool
	skipped       bool
	firstStatus   Status
	firstMessage  string
	errorComments []ErrorCommentFunc
	pending       []ErrorCommentFunc

	buffer *retryBuffer

	start    time.Time
	duration time.Duration
}

func newTestCase(title string, run *runContext) *TestCase {
	return &TestCase{
		title:   title,
		run:     run,
		success: true,
		start:   time.Now(),
	}
}

// inheritErrorComments copies the error comments of the given case.
func (t *TestCase) inheritErrorComments(from *TestCase) {

	if from == nil {
		return
	}

	t.run.Lock()
	defer t.run.Unlock()

	t.errorComments = append(t.errorComments, from.errorComments...)
}

// Pass records a passing assertion.
func (t *TestCase) Pass(message string) {
	t.record(outcomePass, withDefault(message, "pass"), nil)
}

// Fail records a failed assertion. An optional Diagnostic is printed
// after the assertion and attached to the reported failure.
func (t *TestCase) Fail(message string, extra ...Diagnostic) {
	t.record(outcomeFailed, withDefault(message, "fail"), firstDiagnostic(extra))
}

// ErrorOut records an errored assertion. It reports an unexpected error
// rather than an expectation that was not met.
func (t *TestCase) ErrorOut(message string, extra ...Diagnostic) {
	t.record(outcomeError, withDefault(message, "error"), firstDiagnostic(extra))
}

// Comment prints a comment line in the stream.
func (t *TestCase) Comment(message string) {

	defer t.appendErrorComments()

	t.run.Lock()
	defer t.run.Unlock()

	if t.ended {
		t.forbiddenLocked("Comment")
		return
	}

	printComment(t.run.w, message)
}

// Skip prints a comment indicating that a check was skipped.
func (t *TestCase) Skip(message string) {
	t.Comment("SKIP " + message)
}

// ErrorComment registers a string appended to the message of the
// first non passing assertion of the test.
func (t *TestCase) ErrorComment(comment string) {
	t.ErrorCommentFunc(func() string { return comment })
}

// ErrorCommentFunc registers a function evaluated when the test records
// its first non passing assertion. The result is appended to the reported message.
// The function is called without holding any lock and may use the TestCase.
func (t *TestCase) ErrorCommentFunc(fn ErrorCommentFunc) {

	defer t.appendErrorComments()

	t.run.Lock()
	defer t.run.Unlock()

	if t.ended {
		t.forbiddenLocked("ErrorComment")
		return
	}

	t.errorComments = append(t.errorComments, fn)
}

// Bail records a failed assertion, prints a Bail out! line and stops the
// whole run: no other test or hook is scheduled. The returned ErrBailOut
// must be returned by the TestFunction.
//
// Within a retry loop, the Bail out! line is printed once the checks of
// the last iteration are recorded.
func (t *TestCase) Bail(message string) error {

	message = withDefault(message, "bail")

	defer t.appendErrorComments()

	t.run.Lock()
	defer t.run.Unlock()

	t.recordLocked(outcomeFailed, message, nil)
	t.run.flagBail(message)

	if t.buffer == nil {
		t.run.printPendingBail()
	}

	return fmt.Errorf("%w: %s", ErrBailOut, message)
}

func (t *TestCase) record(o outcome, message string, extra *Diagnostic) {

	defer t.appendErrorComments()

	t.run.Lock()
	defer t.run.Unlock()

	t.recordLocked(o, message, extra)
}

func (t *TestCase) recordLocked(o outcome, message string, extra *Diagnostic) {

	if t.ended {
		t.forbiddenLocked(message)
		return
	}

	if t.buffer != nil {
		t.buffer.push(o, message, extra)
		return
	}

	t.commitLocked(o, message, extra)
}

// forbiddenLocked records the single error replacing a call made after the end of the test.
func (t *TestCase) forbiddenLocked(call string) {

	t.commitLocked(
		outcomeError,
		fmt.Sprintf("Forbidden call to test method after test '%s' ended", t.title),
		&Diagnostic{
			Operator: "forbidden",
			Actual:   call,
			Stack:    callerStack(3),
		},
	)
}

func (t *TestCase) commitLocked(o outcome, message string, extra *Diagnostic) {

	t.assertions++
	n := t.run.count(o)

	switch o {

	case outcomePass:
		printAssertion(t.run.w, true, n, message, nil)
		return

	case outcomeFailed:
		t.freezeLocked(StatusFailed, message, extra)

	case outcomeError:
		t.freezeLocked(StatusError, message, extra)
	}

	printAssertion(t.run.w, false, n, message, extra)
}

// freezeLocked keeps the first non passing outcome as the reported one.
// The error comments are queued for appendErrorComments.
func (t *TestCase) freezeLocked(status Status, message string, extra *Diagnostic) {

	if !t.success {
		return
	}

	t.success = false
	t.firstStatus = status

	if extra != nil {
		message += "\n" + renderDiagnostic(*extra)
	}

	t.firstMessage = message
	t.pending = append([]ErrorCommentFunc(nil), t.errorComments...)
}

// appendErrorComments evaluates the error comments queued by the first
// non passing assertion and appends them to the reported message.
// It must be called without holding the run lock.
func (t *TestCase) appendErrorComments() {

	t.run.Lock()
	pending := t.pending
	t.pending = nil
	t.run.Unlock()

	if len(pending) == 0 {
		return
	}

	comments := make([]string, len(pending))
	for i, fn := range pending {
		comments[i] = evalErrorComment(fn)
	}

	t.run.Lock()
	defer t.run.Unlock()

	for _, c := range comments {
		t.firstMessage += "\n" + c
	}
}

func evalErrorComment(fn ErrorCommentFunc) (out string) {

	defer func() {
		if r := recover(); r != nil {
			out = fmt.Sprintf("error comment panicked: %v", r)
		}
	}()

	return fn()
}

// end finalizes the test. Calling it more than once has no effect.
func (t *TestCase) end() {

	t.run.Lock()
	defer t.run.Unlock()

	t.endLocked()
}

func (t *TestCase) endLocked() {

	if t.ended {
		return
	}

	t.ended = true
	t.buffer = nil

	if !t.skipped {
		t.duration = time.Since(t.start)
	}
}

// forceEnd discards any pending retry iteration, records an error and ends the test.
func (t *TestCase) forceEnd(message string) {

	defer t.appendErrorComments()

	t.run.Lock()
	defer t.run.Unlock()

	if t.ended {
		return
	}

	t.buffer = nil
	t.commitLocked(outcomeError, message, nil)
	t.endLocked()
	t.run.printPendingBail()
}

// markSkipped turns the test into a statically skipped one.
func (t *TestCase) markSkipped() {

	t.run.Lock()
	defer t.run.Unlock()

	t.skipped = true
}

// result returns the reportable result of the test.
func (t *TestCase) result() TestResult {

	t.run.Lock()
	defer t.run.Unlock()

	duration := t.duration
	if !t.ended {
		duration = time.Since(t.start)
	}

	switch {

	case t.firstStatus != "":
		return TestResult{
			Name:       t.title,
			Assertions: t.assertions,
			Status:     t.firstStatus,
			Duration:   duration,
			Message:    t.firstMessage,
		}

	case t.skipped:
		return TestResult{
			Name:   t.title,
			Status: StatusSkipped,
		}

	default:
		return TestResult{
			Name:       t.title,
			Assertions: t.assertions,
			Status:     StatusSuccess,
			Duration:   duration,
		}
	}
}

func withDefault(message string, def string) string {

	if message == "" {
		return def
	}

	return message
}

func firstDiagnostic(extra []Diagnostic) *Diagnostic {

	if len(extra) == 0 {
		return nil
	}

	d := extra[0]

	return &d
}
