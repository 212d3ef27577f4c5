package tapcheck

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"runtime"
	"strings"

	"github.com/smartystreets/goconvey/convey"
)

// A Diagnostic is the structured detail attached to a non passing assertion.
type Diagnostic struct {
	Operator string                 `yaml:"operator,omitempty"`
	Actual   interface{}            `yaml:"actual,omitempty"`
	Expected interface{}            `yaml:"expected,omitempty"`
	Stack    string                 `yaml:"stack,omitempty"`
	Fields   map[string]interface{} `yaml:",inline"`
}

// check records a pass if ok is true, otherwise a failure carrying a diagnostic.
func (t *TestCase) check(ok bool, message string, operator string, actual interface{}, expected interface{}) {

	if ok {
		t.Pass(message)
		return
	}

	t.Fail(message, Diagnostic{
		Operator: operator,
		Actual:   actual,
		Expected: expected,
		Stack:    callerStack(3),
	})
}

// Ok checks that actual is truthy.
func (t *TestCase) Ok(actual interface{}, message string) {
	t.check(truthy(actual), withDefault(message, "ok"), "ok", actual, "truthy")
}

// NotOk checks that actual is falsy.
func (t *TestCase) NotOk(actual interface{}, message string) {
	t.check(!truthy(actual), withDefault(message, "notOk"), "notOk", actual, "falsy")
}

// True checks that actual is truthy.
func (t *TestCase) True(actual interface{}, message string) {
	t.check(truthy(actual), withDefault(message, "true"), "true", actual, "truthy")
}

// False checks that actual is falsy.
func (t *TestCase) False(actual interface{}, message string) {
	t.check(!truthy(actual), withDefault(message, "false"), "false", actual, "falsy")
}

// Equal checks that actual and expected have the same type and are equal.
func (t *TestCase) Equal(actual interface{}, expected interface{}, message string) {
	t.check(
		identical(actual, expected),
		withDefault(message, fmt.Sprintf("%v == %v", actual, expected)),
		"equal", actual, expected,
	)
}

// NotEqual checks that actual and expected differ.
func (t *TestCase) NotEqual(actual interface{}, expected interface{}, message string) {
	t.check(
		!identical(actual, expected),
		withDefault(message, fmt.Sprintf("%v != %v", actual, expected)),
		"notEqual", actual, expected,
	)
}

// DeepEqual checks that actual is strictly deep equal to expected:
// types must be identical at every level.
func (t *TestCase) DeepEqual(actual interface{}, expected interface{}, message string) {
	t.check(
		deepEqual(actual, expected, true),
		withDefault(message, "deepEqual"),
		"deepEqual", inspect(actual), inspect(expected),
	)
}

// NotDeepEqual checks that actual is not strictly deep equal to expected.
func (t *TestCase) NotDeepEqual(actual interface{}, expected interface{}, message string) {
	t.check(
		!deepEqual(actual, expected, true),
		withDefault(message, "notDeepEqual"),
		"notDeepEqual", inspect(actual), inspect(expected),
	)
}

// DeepLooseEqual checks that actual is loosely deep equal to expected:
// scalar leaves are compared by value regardless of their type.
func (t *TestCase) DeepLooseEqual(actual interface{}, expected interface{}, message string) {
	t.check(
		deepEqual(actual, expected, false),
		withDefault(message, "deepLooseEqual"),
		"deepLooseEqual", inspect(actual), inspect(expected),
	)
}

// NotDeepLooseEqual checks that actual is not loosely deep equal to expected.
func (t *TestCase) NotDeepLooseEqual(actual interface{}, expected interface{}, message string) {
	t.check(
		!deepEqual(actual, expected, false),
		withDefault(message, "notDeepLooseEqual"),
		"notDeepLooseEqual", inspect(actual), inspect(expected),
	)
}

// Throws checks that fn returns an error or panics. If expected is
// not nil, the error message must match it.
func (t *TestCase) Throws(fn func() error, expected *regexp.Regexp, message string) {

	message = withDefault(message, "throws")

	err := catch(fn)
	if err == nil {
		t.Fail(message)
		return
	}

	if expected == nil || expected.MatchString(err.Error()) {
		t.Pass(message)
		return
	}

	t.Fail(message, Diagnostic{
		Operator: "throws",
		Actual:   err.Error(),
		Expected: expected.String(),
		Stack:    callerStack(2),
	})
}

// DoesNotThrow checks that fn does not return or panic with an error
// matching expected. A nil expected matches any error.
func (t *TestCase) DoesNotThrow(fn func() error, expected *regexp.Regexp, message string) {

	message = withDefault(message, "doesNotThrow")

	err := catch(fn)
	if err == nil || (expected != nil && !expected.MatchString(err.Error())) {
		t.Pass(message)
		return
	}

	t.Fail(message, Diagnostic{
		Operator: "doesNotThrow",
		Actual:   err.Error(),
		Stack:    callerStack(2),
	})
}

// Lt checks that actual < expected.
func (t *TestCase) Lt(actual interface{}, expected interface{}, message string) {
	t.check(
		ordered(convey.ShouldBeLessThan, actual, expected),
		withDefault(message, fmt.Sprintf("%v < %v", actual, expected)),
		"lt", actual, expected,
	)
}

// Lte checks that actual <= expected.
func (t *TestCase) Lte(actual interface{}, expected interface{}, message string) {
	t.check(
		ordered(convey.ShouldBeLessThanOrEqualTo, actual, expected),
		withDefault(message, fmt.Sprintf("%v <= %v", actual, expected)),
		"lte", actual, expected,
	)
}

// Gt checks that actual > expected.
func (t *TestCase) Gt(actual interface{}, expected interface{}, message string) {
	t.check(
		ordered(convey.ShouldBeGreaterThan, actual, expected),
		withDefault(message, fmt.Sprintf("%v > %v", actual, expected)),
		"gt", actual, expected,
	)
}

// Gte checks that actual >= expected.
func (t *TestCase) Gte(actual interface{}, expected interface{}, message string) {
	t.check(
		ordered(convey.ShouldBeGreaterThanOrEqualTo, actual, expected),
		withDefault(message, fmt.Sprintf("%v >= %v", actual, expected)),
		"gte", actual, expected,
	)
}

// Error checks that err is nil. Otherwise it reports a failure with the error message.
func (t *TestCase) Error(err error) {

	if err == nil {
		t.Pass("no error")
		return
	}

	t.Fail(err.Error(), Diagnostic{
		Operator: "error",
		Actual:   err.Error(),
		Stack:    callerStack(2),
	})
}

// Assert uses a goconvey assertion function to perform a check.
//
//	t.Assert("the list has 3 items", items, convey.ShouldHaveLength, 3)
func (t *TestCase) Assert(message string, actual interface{}, f func(interface{}, ...interface{}) string, expected ...interface{}) {

	msg := f(actual, expected...)
	if msg == "" {
		t.Pass(message)
		return
	}

	t.Fail(message, Diagnostic{
		Operator: "assert",
		Actual:   actual,
		Stack:    callerStack(2),
		Fields:   map[string]interface{}{"details": msg},
	})
}

// ordered runs a goconvey ordering assertion. Values that cannot be
// ordered make the assertion fail instead of panicking.
func ordered(f func(interface{}, ...interface{}) string, actual interface{}, expected interface{}) (ok bool) {

	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()

	return f(actual, expected) == ""
}

// catch runs fn and returns its error, turning a panic into an error.
func catch(fn func() error) (err error) {

	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = fmt.Errorf("%v", r)
		}
	}()

	return fn()
}

// truthy returns false for nil, false, zero numbers and empty strings,
// slices, maps and channels.
func truthy(v interface{}) bool {

	if v == nil {
		return false
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String, reflect.Slice, reflect.Map, reflect.Chan, reflect.Array:
		return rv.Len() > 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	case reflect.Ptr, reflect.Interface, reflect.Func:
		return !rv.IsNil()
	}

	return true
}

// identical returns true if a and b have the same dynamic type and are equal.
func identical(a interface{}, b interface{}) bool {

	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}

	if a == nil {
		return true
	}

	if !reflect.TypeOf(a).Comparable() {
		return false
	}

	return a == b
}

// callerStack returns a short stack trace starting skip frames above its caller.
func callerStack(skip int) string {

	pcs := make([]uintptr, 16)
	n := runtime.Callers(skip+1, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var lines []string
	for {
		frame, more := frames.Next()
		if strings.HasPrefix(frame.Function, "runtime.") {
			break
		}
		lines = append(lines, fmt.Sprintf("%s\n\t%s:%d", frame.Function, frame.File, frame.Line))
		if !more {
			break
		}
	}

	return strings.Join(lines, "\n")
}
