package tapcheck

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

type celsius float64

func TestEquality_DeepEqual(t *testing.T) {

	pairs := []struct {
		name   string
		a      interface{}
		b      interface{}
		strict bool
		loose  bool
	}{
		{"same ints", 1, 1, true, true},
		{"int and string", 1, "1", false, true},
		{"int and float", 1, 1.0, false, true},
		{"named float and float", celsius(21.5), 21.5, false, true},
		{"different values", 1, 2, false, false},
		{"same slices", []int{1, 2}, []int{1, 2}, true, true},
		{"slices of different lengths", []int{1, 2}, []int{1}, false, false},
		{"nil and empty slices", []int(nil), []int{}, false, true},
		{"mixed slices", []interface{}{1, "2"}, []interface{}{"1", 2}, false, true},
		{"nested maps", map[string]interface{}{"a": []interface{}{1, true}}, map[string]interface{}{"a": []interface{}{"1", 1}}, false, true},
		{"maps with different keys", map[string]int{"a": 1}, map[string]int{"b": 1}, false, false},
		{"same structs", point{x: 1, y: "a"}, point{x: 1, y: "a"}, true, true},
		{"loosely equal structs", point{x: 1, y: 2}, point{x: 1, y: "2"}, false, true},
		{"different structs", point{x: 1}, point{x: 2}, false, false},
		{"bool and its name", true, "true", false, false},
		{"bool and one", true, 1, false, true},
		{"bool and numeric string", false, "0", false, true},
		{"bools and numbers", []interface{}{true, false}, []interface{}{1, 2}, false, false},
	}

	Convey("Given I have pairs of values", t, func() {

		for _, p := range pairs {

			p := p

			Convey("When I compare "+p.name, func() {

				Convey("Then the strict comparison should be as expected", func() {
					So(deepEqual(p.a, p.b, true), ShouldEqual, p.strict)
				})

				Convey("Then the loose comparison should be as expected", func() {
					So(deepEqual(p.a, p.b, false), ShouldEqual, p.loose)
				})

				Convey("Then both comparisons should be symmetric", func() {
					So(deepEqual(p.b, p.a, true), ShouldEqual, deepEqual(p.a, p.b, true))
					So(deepEqual(p.b, p.a, false), ShouldEqual, deepEqual(p.a, p.b, false))
				})
			})
		}
	})
}

func TestEquality_Negation(t *testing.T) {

	Convey("Given I have a test case", t, func() {

		tc, _ := newTestTestCase("my test")

		Convey("When I check a pair with an equality and its negation", func() {

			a := map[string]interface{}{"a": 1}
			b := map[string]interface{}{"a": "1"}

			tc.DeepEqual(a, b, "")
			tc.NotDeepEqual(a, b, "")
			tc.DeepLooseEqual(a, b, "")
			tc.NotDeepLooseEqual(a, b, "")

			Convey("Then exactly one of each pair should pass", func() {
				So(tc.run.passed, ShouldEqual, 2)
				So(tc.run.failed, ShouldEqual, 2)
			})
		})
	})
}

func TestEquality_ScalarString(t *testing.T) {

	Convey("Given I have scalars", t, func() {

		Convey("Then named types should be rendered like their underlying kind", func() {
			So(scalarString(celsius(1.5)), ShouldEqual, "1.5")
			So(scalarString(uint16(3)), ShouldEqual, "3")
			So(scalarString(false), ShouldEqual, "0")
				So(scalarString(true), ShouldEqual, "1")
			So(scalarString("x"), ShouldEqual, "x")
		})

		Convey("Then only scalar kinds should be scalars", func() {
			So(isScalar(1), ShouldBeTrue)
			So(isScalar("1"), ShouldBeTrue)
			So(isScalar(nil), ShouldBeFalse)
			So(isScalar([]int{}), ShouldBeFalse)
			So(isScalar(point{}), ShouldBeFalse)
		})
	})
}
