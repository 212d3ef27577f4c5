package tapcheck

import (
	"fmt"
	"reflect"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/smartystreets/goconvey/convey"
	"github.com/spf13/cast"
)

// looseOptions compare scalar leaves by their string form, so that 1, int64(1),
// 1.0 and "1" are all equal, and consider nil and empty collections equal.
// Booleans compare as 1 and 0: true equals 1 and "1" but not "true".
var looseOptions = []cmp.Option{
	cmp.Exporter(func(reflect.Type) bool { return true }),
	cmpopts.EquateEmpty(),
	cmp.FilterValues(
		func(a interface{}, b interface{}) bool { return isScalar(a) && isScalar(b) },
		cmp.Comparer(func(a interface{}, b interface{}) bool { return scalarString(a) == scalarString(b) }),
	),
}

// deepEqual compares a and b. When strict is set, types must be identical at
// every level, otherwise scalar leaves are compared by value.
func deepEqual(a interface{}, b interface{}, strict bool) (equal bool) {

	defer func() {
		if r := recover(); r != nil {
			equal = false
		}
	}()

	if strict {
		return convey.ShouldResemble(a, b) == ""
	}

	return cmp.Equal(a, b, looseOptions...)
}

func isScalar(v interface{}) bool {

	if v == nil {
		return false
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}

	return false
}

// scalarString returns the string form of a scalar, ignoring named types.
// Booleans are rendered as numbers.
func scalarString(v interface{}) string {

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Bool:
		return cast.ToString(cast.ToInt(rv.Bool()))
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cast.ToString(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return cast.ToString(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return cast.ToString(rv.Float())
	}

	return cast.ToString(v)
}

// inspect renders a value for a diagnostic.
func inspect(v interface{}) string {
	return fmt.Sprintf("%#v", v)
}
