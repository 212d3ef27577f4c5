package tapcheck

import (
	"context"
	"errors"
)

// A TestFunction is the type of a function that is run by a Test.
// Hooks registered with BeforeAll, AfterAll, BeforeEach and AfterEach have the same type.
//
// Returning a non nil error reports the test as errored, unless the error
// comes from TestCase.Bail or from an exhausted retry loop, which already
// recorded their own failure.
type TestFunction func(context.Context, *TestCase) error

// A Probe is the type of function polled by the retry primitives of a TestCase.
// A returned error is recorded as an error assertion of the iteration.
type Probe func(context.Context, *TestCase) error

// ErrorCommentFunc is evaluated lazily when a TestCase records its first non passing assertion.
// The returned string is appended to the reported failure message.
type ErrorCommentFunc func() string

var (
	// ErrBailOut is returned by TestCase.Bail. The runner stops scheduling any further work.
	ErrBailOut = errors.New("bail out")

	// ErrRetryExhausted is returned by TestCase.TryUntil and TestCase.WaitUntil
	// when the last iteration did not pass.
	ErrRetryExhausted = errors.New("retry exhausted")

	// ErrNestedRetry is returned when a retry primitive is called from within
	// another retry primitive of the same TestCase.
	ErrNestedRetry = errors.New("nested retry")

	// ErrTestsFailed is returned by the test command when the run did not succeed.
	ErrTestsFailed = errors.New("tests failed")
)
