package tapcheck

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRegistry_Register(t *testing.T) {

	Convey("Given I have a registry", t, func() {

		r := NewRegistry()
		fn := func(context.Context, *TestCase) error { return nil }

		Convey("When I register tests", func() {

			r.Register(Test{Name: "a", Function: fn})
			r.RegisterSkipped(Test{Name: "b"})
			r.RegisterOnly(Test{Name: "c", Skip: true, Function: fn})

			tests := r.Tests()

			Convey("Then they should be kept in order", func() {
				So(len(tests), ShouldEqual, 3)
				So(tests[0].Name, ShouldEqual, "a")
				So(tests[1].Skip, ShouldBeTrue)
				So(tests[2].only, ShouldBeTrue)
				So(tests[2].Skip, ShouldBeFalse)
			})

			Convey("Then a second only test should panic", func() {
				So(func() { r.RegisterOnly(Test{Name: "d", Function: fn}) }, ShouldPanicWith, "tapcheck: can only register one test with RegisterOnly, got a second one: 'd'")
			})
		})

		Convey("When I register a test without function", func() {

			Convey("Then it should panic", func() {
				So(func() { r.Register(Test{Name: "a"}) }, ShouldPanicWith, "tapcheck: test 'a' must supply a test function")
			})
		})

		Convey("When I set hooks after the registry is frozen", func() {

			r.BeforeEach(fn)
			hooks := r.freeze()

			Convey("Then the hooks should have been returned", func() {
				So(hooks.BeforeEach, ShouldNotBeNil)
				So(hooks.BeforeAll, ShouldBeNil)
			})

			Convey("Then setting a hook should panic", func() {
				So(func() { r.AfterEach(fn) }, ShouldPanic)
			})
		})
	})
}
