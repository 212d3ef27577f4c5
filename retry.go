package tapcheck

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"
)

const (
	minInterval = 100 * time.Millisecond
	maxInterval = 5 * time.Second
)

// SmartInterval returns the default polling interval for the given timeout:
// timeout/30 clamped between 100ms and 5s.
func SmartInterval(timeout time.Duration) time.Duration {

	interval := timeout / 30

	if interval < minInterval {
		return minInterval
	}

	if interval > maxInterval {
		return maxInterval
	}

	return interval
}

type retryEntry struct {
	outcome outcome
	message string
	extra   *Diagnostic
}

// retryBuffer captures the assertions of one retry iteration.
type retryBuffer struct {
	entries []retryEntry
}

func (b *retryBuffer) push(o outcome, message string, extra *Diagnostic) {
	b.entries = append(b.entries, retryEntry{outcome: o, message: message, extra: extra})
}

// allPass returns true if the entries are not empty and all passed.
func allPass(entries []retryEntry) bool {

	if len(entries) == 0 {
		return false
	}

	for _, e := range entries {
		if e.outcome != outcomePass {
			return false
		}
	}

	return true
}

type retryMode int

const (
	modeTryUntil retryMode = iota
	modePassWhile
	modeWaitUntil
)

func (m retryMode) String() string {

	switch m {
	case modeTryUntil:
		return "tryUntil"
	case modePassWhile:
		return "passWhile"
	default:
		return "waitUntil"
	}
}

// TryUntil polls probe every interval until all the checks of one iteration
// pass or the timeout is reached. Only the checks of the last iteration are
// recorded. If they did not all pass, it returns an error wrapping
// ErrRetryExhausted that should be returned by the TestFunction.
//
// An interval of 0 selects SmartInterval(timeout).
func (t *TestCase) TryUntil(ctx context.Context, probe Probe, timeout time.Duration, interval time.Duration) error {
	return t.retry(ctx, modeTryUntil, probe, timeout, interval)
}

// PassWhile polls probe every interval for as long as all the checks of an
// iteration pass, until the timeout is reached. Only the checks of the last
// iteration, which is the first failing one if any, are recorded.
// The test goes on after a failure.
//
// An interval of 0 selects SmartInterval(timeout).
func (t *TestCase) PassWhile(ctx context.Context, probe Probe, timeout time.Duration, interval time.Duration) error {
	return t.retry(ctx, modePassWhile, probe, timeout, interval)
}

// WaitUntil behaves like TryUntil without printing the retry statistics.
func (t *TestCase) WaitUntil(ctx context.Context, probe Probe, timeout time.Duration, interval time.Duration) error {
	return t.retry(ctx, modeWaitUntil, probe, timeout, interval)
}

func (t *TestCase) retry(ctx context.Context, mode retryMode, probe Probe, timeout time.Duration, interval time.Duration) error {

	if interval <= 0 {
		interval = SmartInterval(timeout)
	}

	if err := t.enterIterativeMode(mode); err != nil {
		return err
	}

	start := time.Now()
	iterations := 0

	var entries []retryEntry
	var probeErr error

	for {
		iterations++
		entries, probeErr = t.iterate(ctx, probe)

		if errors.Is(probeErr, ErrBailOut) || t.Ended() {
			break
		}

		passed := allPass(entries)

		if mode == modePassWhile && !passed {
			break
		}

		if mode != modePassWhile && passed {
			break
		}

		if time.Since(start)+interval > timeout {
			break
		}

		if !sleep(ctx, interval) {
			break
		}
	}

	passed := allPass(entries)
	elapsed := time.Since(start)

	t.flush(mode, entries, elapsed, iterations)

	if errors.Is(probeErr, ErrBailOut) {
		return probeErr
	}

	if !passed && mode != modePassWhile {
		return fmt.Errorf("%w: %s did not pass after %d iterations", ErrRetryExhausted, mode, iterations)
	}

	return nil
}

func (t *TestCase) enterIterativeMode(mode retryMode) error {

	defer t.appendErrorComments()

	t.run.Lock()
	defer t.run.Unlock()

	if t.buffer != nil {
		return fmt.Errorf("%w: %s called from within another retry loop of test '%s'", ErrNestedRetry, mode, t.title)
	}

	if t.ended {
		t.forbiddenLocked(mode.String())
		return fmt.Errorf("%w: %s called after test '%s' ended", ErrRetryExhausted, mode, t.title)
	}

	t.buffer = &retryBuffer{}

	return nil
}

// iterate runs the probe once and returns the captured assertions.
// An error or a panic of the probe is captured as an error assertion.
func (t *TestCase) iterate(ctx context.Context, probe Probe) ([]retryEntry, error) {

	t.run.Lock()
	if t.buffer != nil {
		t.buffer.entries = nil
	}
	t.run.Unlock()

	err := runProbe(ctx, probe, t)
	if err != nil && !errors.Is(err, ErrBailOut) {
		extra := &Diagnostic{Operator: "probe", Actual: err.Error()}
		if p, ok := err.(*panicError); ok {
			extra.Stack = p.stack
		}
		t.record(outcomeError, "shall not throw exception", extra)
	}

	t.run.Lock()
	defer t.run.Unlock()

	if t.buffer == nil {
		return nil, err
	}

	entries := make([]retryEntry, len(t.buffer.entries))
	copy(entries, t.buffer.entries)

	return entries, err
}

// flush leaves the iterative mode and records the given entries contiguously.
// The entries are dropped if the test was ended in the meantime.
// A bail out requested by the last iteration is printed after them.
func (t *TestCase) flush(mode retryMode, entries []retryEntry, elapsed time.Duration, iterations int) {

	defer t.appendErrorComments()

	t.run.Lock()
	defer t.run.Unlock()

	t.buffer = nil

	if !t.ended {
		t.commitEntriesLocked(mode, entries, elapsed, iterations)
	}

	t.run.printPendingBail()
}

func (t *TestCase) commitEntriesLocked(mode retryMode, entries []retryEntry, elapsed time.Duration, iterations int) {

	for _, e := range entries {
		t.commitLocked(e.outcome, e.message, e.extra)
	}

	if len(entries) == 0 {
		t.commitLocked(outcomeFailed, fmt.Sprintf("%s did not run any checks", mode), nil)
	}

	if mode == modeWaitUntil {
		return
	}

	printComment(t.run.w, fmt.Sprintf("%s: %.1fs, %d iterations", mode, elapsed.Seconds(), iterations))
}

// runProbe runs the probe, turning a panic into an error.
func runProbe(ctx context.Context, probe Probe, t *TestCase) (err error) {

	defer func() {
		if r := recover(); r != nil {
			err = &panicError{value: r, stack: string(debug.Stack())}
		}
	}()

	return probe(ctx, t)
}

// sleep waits for d. It returns false if the context is done first.
func sleep(ctx context.Context, d time.Duration) bool {

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// panicError is the error recovered from a panicking function.
type panicError struct {
	value interface{}
	stack string
}

func (e *panicError) Error() string { return fmt.Sprintf("panic: %v", e.value) }
