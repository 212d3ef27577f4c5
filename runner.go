package tapcheck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"sync"
	"time"

	"go.uber.org/zap"
)

type runState int

const (
	stateNotStarted runState = iota
	stateRunningBeforeAll
	stateRunningEntries
	stateRunningAfterAll
	stateSummarizing
	stateDone
	stateAborted
)

func (s runState) String() string {
	return [...]string{"not-started", "before-all", "entries", "after-all", "summarizing", "done", "aborted"}[s]
}

// errAborted is returned by runTest when a fatal event interrupted the test.
var errAborted = errors.New("aborted")

// A FatalEvent reports a condition that terminates the run,
// like a signal received by the process.
type FatalEvent struct {
	Reason string
}

// RunnerOption configures a runner.
type RunnerOption func(*testRunner)

// OptionXunitFile sets the path of the xUnit report.
func OptionXunitFile(path string) RunnerOption {
	return func(r *testRunner) { r.xunitFile = path }
}

// OptionReportName sets the name of the run in the structured report.
func OptionReportName(name string) RunnerOption {
	return func(r *testRunner) { r.name = name }
}

// OptionFatalEvents sets the channel the runner listens to for fatal events.
func OptionFatalEvents(ch <-chan FatalEvent) RunnerOption {
	return func(r *testRunner) { r.fatal = ch }
}

// OptionTags only runs the tests matching the given tags.
func OptionTags(tags []string, matchAll bool) RunnerOption {
	return func(r *testRunner) {
		r.tags = tags
		r.matchAll = matchAll
	}
}

type testRunner struct {
	registry  *Registry
	run       *runContext
	name      string
	xunitFile string
	tags      []string
	matchAll  bool
	fatal     <-chan FatalEvent

	state  runState
	cases  []*TestCase
	report *TestReport

	lock sync.Mutex
}

func newTestRunner(registry *Registry, w io.Writer, options ...RunnerOption) *testRunner {

	r := &testRunner{
		registry: registry,
		run:      newRunContext(w),
		name:     "tapcheck",
	}

	for _, opt := range options {
		opt(r)
	}

	return r
}

// Run runs all the tests of the registry, prints the TAP stream and writes the
// eventual xUnit report. It returns the summary of the run.
func (r *testRunner) Run(ctx context.Context) (*TestReport, Summary, error) {

	start := time.Now()
	r.report = newTestReport(r.name, start)

	if r.xunitFile != "" {
		data, err := PrematureXunit(r.name, start)
		if err := writeXunitFile(r.xunitFile, data, err); err != nil {
			return nil, Summary{}, err
		}
	}

	hooks := r.registry.freeze()
	suite := r.registry.Tests().TestsForTags(r.tags, r.matchAll).withOnly()

	printHeader(r.run.w)
	zap.L().Debug("Starting run",
		zap.String("name", r.name),
		zap.String("run-id", r.report.RunID),
		zap.Int("tests", len(suite)),
	)

	aborted := r.execute(ctx, suite, hooks) != nil

	r.setState(stateSummarizing)
	summary := r.run.summary(aborted)

	for _, tc := range r.cases {
		r.report.Entries = append(r.report.Entries, tc.result())
	}

	var reportErr error
	if r.xunitFile != "" {
		data, err := GenerateXunit(*r.report)
		reportErr = writeXunitFile(r.xunitFile, data, err)
		if reportErr == nil {
			zap.L().Debug("Xunit report written", zap.String("path", r.xunitFile))
		}
	}

	r.run.Lock()
	printPlan(r.run.w, summary)
	r.run.Unlock()

	if aborted {
		r.setState(stateAborted)
	} else {
		r.setState(stateDone)
	}

	return r.report, summary, reportErr
}

// execute runs the lifecycle. It returns errAborted if a fatal event interrupted the run.
func (r *testRunner) execute(ctx context.Context, suite TestSuite, hooks Hooks) error {

	if hooks.BeforeAll != nil {

		r.setState(stateRunningBeforeAll)

		tc, err := r.runTest(ctx, "beforeAll", hooks.BeforeAll, nil)
		if err != nil {
			return err
		}

		if tc != nil && !tc.Succeeded() {
			r.bail("beforeAll failed")
		}
	}

	r.setState(stateRunningEntries)

	for _, test := range suite {

		if bailed, reason := r.run.bailState(); bailed {
			zap.L().Warn("Run bailed out, skipping remaining tests", zap.String("reason", reason))
			return nil
		}

		if test.skipped() {
			r.skip(test.Name)
			continue
		}

		if err := r.runEntry(ctx, test, hooks); err != nil {
			return err
		}
	}

	if r.run.isBailed() || hooks.AfterAll == nil {
		return nil
	}

	r.setState(stateRunningAfterAll)

	_, err := r.runTest(ctx, "afterAll", hooks.AfterAll, nil)

	return err
}

// runEntry runs one test surrounded by the BeforeEach and AfterEach hooks.
func (r *testRunner) runEntry(ctx context.Context, test Test, hooks Hooks) error {

	var before *TestCase
	beforeSucceeded := true

	if hooks.BeforeEach != nil {

		var err error
		before, err = r.runTest(ctx, "beforeEach "+test.Name, hooks.BeforeEach, nil)
		if err != nil {
			return err
		}

		beforeSucceeded = before != nil && before.Succeeded()
	}

	if beforeSucceeded {
		if _, err := r.runTest(ctx, test.Name, test.Function, before); err != nil {
			return err
		}
	}

	if hooks.AfterEach != nil {
		if _, err := r.runTest(ctx, "afterEach "+test.Name, hooks.AfterEach, nil); err != nil {
			return err
		}
	}

	return nil
}

// runTest runs fn as a new TestCase with the given title and waits for it to return.
// It returns a nil TestCase if the run bailed out.
func (r *testRunner) runTest(ctx context.Context, title string, fn TestFunction, parent *TestCase) (*TestCase, error) {

	if r.run.isBailed() {
		return nil, nil
	}

	tc := newTestCase(title, r.run)
	tc.inheritErrorComments(parent)
	r.open(tc)

	r.run.Lock()
	printTitle(r.run.w, title)
	r.run.Unlock()

	done := make(chan error, 1)

	go func() {
		var err error
		defer func() {
			if rec := recover(); rec != nil {
				err = &panicError{value: rec, stack: string(debug.Stack())}
			}
			done <- err
		}()
		err = fn(ctx, tc)
	}()

	select {

	case err := <-done:
		r.handleError(tc, err)
		tc.end()
		return tc, nil

	case evt := <-r.fatal:
		zap.L().Warn("Fatal event received", zap.String("test", title), zap.String("reason", evt.Reason))
		r.abort(tc, evt.Reason)
		return tc, errAborted

	case <-ctx.Done():
		zap.L().Warn("Run interrupted", zap.String("test", title), zap.Error(ctx.Err()))
		r.abort(tc, ctx.Err().Error())
		return tc, errAborted
	}
}

// handleError converts the error returned by a TestFunction into an assertion.
func (r *testRunner) handleError(tc *TestCase, err error) {

	switch {

	case err == nil:

	case errors.Is(err, ErrBailOut), errors.Is(err, ErrRetryExhausted):

	default:
		extra := Diagnostic{Operator: "error", Actual: err.Error()}
		if p, ok := err.(*panicError); ok {
			extra.Operator = "panic"
			extra.Actual = fmt.Sprintf("%v", p.value)
			extra.Stack = p.stack
		}
		tc.ErrorOut("shall not throw exception", extra)
	}
}

// abort force-finalizes the open test with an error.
func (r *testRunner) abort(tc *TestCase, reason string) {

	tc.forceEnd(fmt.Sprintf("process exited mid-test: %s", reason))
	r.setState(stateAborted)
}

// skip reports a statically skipped test.
func (r *testRunner) skip(title string) {

	tc := newTestCase(title, r.run)
	tc.markSkipped()
	tc.end()
	r.open(tc)

	r.run.Lock()
	printSkippedTitle(r.run.w, title)
	r.run.Unlock()
}

func (r *testRunner) bail(message string) {

	r.run.Lock()
	defer r.run.Unlock()

	r.run.bail(message)
}

func (r *testRunner) open(tc *TestCase) {

	r.lock.Lock()
	defer r.lock.Unlock()

	r.cases = append(r.cases, tc)
}

func (r *testRunner) setState(s runState) {

	r.lock.Lock()
	defer r.lock.Unlock()

	if r.state == stateAborted {
		return
	}

	zap.L().Debug("Runner state changed", zap.Stringer("from", r.state), zap.Stringer("to", s))
	r.state = s
}

// Run runs the tests of the main registry.
func Run(ctx context.Context, w io.Writer, options ...RunnerOption) (*TestReport, Summary, error) {
	return newTestRunner(mainRegistry, w, options...).Run(ctx)
}

// RunRegistry runs the tests of the given registry.
func RunRegistry(ctx context.Context, registry *Registry, w io.Writer, options ...RunnerOption) (*TestReport, Summary, error) {
	return newTestRunner(registry, w, options...).Run(ctx)
}
